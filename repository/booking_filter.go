package repository

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"skyview-backend/models"
)

const (
	TabAll       = "all"
	TabUpcoming  = "upcoming"
	TabPast      = "past"
	TabPending   = "pending"
	TabCompleted = "completed"
	TabCancelled = "cancelled"
)

// BookingFilter scopes the admin booking list. Today must be a calendar date (midnight UTC).
type BookingFilter struct {
	Tab   string
	Today time.Time
}

// ResolveTab picks the effective tab from the tab and includePast query values.
// An explicit tab wins; includePast=false alone means upcoming only.
func ResolveTab(tab string, includePast *bool) (string, error) {
	tab = strings.ToLower(strings.TrimSpace(tab))
	if tab == "" {
		if includePast != nil && !*includePast {
			return TabUpcoming, nil
		}
		return TabAll, nil
	}
	switch tab {
	case TabAll, TabUpcoming, TabPast, TabPending, TabCompleted, TabCancelled:
		return tab, nil
	}
	return "", fmt.Errorf("%w: unknown tab %q", ErrInvalidFilter, tab)
}

// Predicate returns the WHERE clause for the tab, or nil when every booking matches.
func (f BookingFilter) Predicate() (sq.Sqlizer, error) {
	switch f.Tab {
	case "", TabAll:
		return nil, nil
	case TabUpcoming:
		return sq.GtOrEq{"preferred_date": f.Today}, nil
	case TabPast:
		return sq.Lt{"preferred_date": f.Today}, nil
	case TabPending:
		return sq.Eq{"status": string(models.StatusPending)}, nil
	case TabCompleted:
		return sq.Eq{"status": string(models.StatusCompleted)}, nil
	case TabCancelled:
		return sq.Eq{"status": string(models.StatusCancelled)}, nil
	}
	return nil, fmt.Errorf("%w: unknown tab %q", ErrInvalidFilter, f.Tab)
}

// Order returns the ORDER BY clause for the tab.
func (f BookingFilter) Order() string {
	if f.Tab == TabPast {
		return "preferred_date DESC, preferred_time DESC"
	}
	return "preferred_date ASC, preferred_time ASC"
}

// contactPredicate matches bookings sharing the email or the phone. Empty values are ignored.
func contactPredicate(email, phone string) (sq.Sqlizer, bool) {
	or := sq.Or{}
	if email != "" {
		or = append(or, sq.Eq{"email": email})
	}
	if phone != "" {
		or = append(or, sq.Eq{"phone": phone})
	}
	if len(or) == 0 {
		return nil, false
	}
	return or, true
}

// scheduledOn matches non-cancelled bookings on the given date.
func scheduledOn(day time.Time) sq.Sqlizer {
	return sq.And{
		sq.Eq{"preferred_date": day},
		sq.NotEq{"status": string(models.StatusCancelled)},
	}
}
