package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"skyview-backend/models"
	"skyview-backend/repository"
	"skyview-backend/utils"
)

const (
	recentBookingsLimit = 5
	topServicesLimit    = 5
)

type DashboardStore interface {
	CountByStatus(ctx context.Context) (map[models.BookingStatus]int64, error)
	CountScheduledBetween(ctx context.Context, from, to time.Time) (int64, error)
	RevenueSince(ctx context.Context, from time.Time) (float64, error)
	TopServices(ctx context.Context, limit int) ([]repository.ServiceCount, error)
	ListRecent(ctx context.Context, limit int) ([]models.Booking, error)
}

type DashboardService struct {
	store    DashboardStore
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(store DashboardStore, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{store: store, location: loc, now: time.Now}
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type RecentBooking struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Service     string `json:"service"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submittedAt"` // "Today", "Yesterday", "3 days ago"
}

type DashboardOverview struct {
	TotalBookings  int64            `json:"totalBookings"`
	StatusCounts   map[string]int64 `json:"statusCounts"`
	TodayBookings  int64            `json:"todayBookings"`
	UpcomingWeek   int64            `json:"upcomingWeek"`
	MonthlyRevenue float64          `json:"monthlyRevenue"`
	TopServices    []ServiceSummary `json:"topServices"`
	RecentBookings []RecentBooking  `json:"recentBookings"`
}

func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	clock := s.now().In(s.location)
	today := utils.Today(clock, s.location)
	monthStart := utils.DateOnly(now.With(clock).BeginningOfMonth())

	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overview := &DashboardOverview{StatusCounts: map[string]int64{}}
	for _, status := range []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled} {
		overview.StatusCounts[string(status)] = counts[status]
		overview.TotalBookings += counts[status]
	}

	if overview.TodayBookings, err = s.store.CountScheduledBetween(ctx, today, today); err != nil {
		return nil, err
	}
	if overview.UpcomingWeek, err = s.store.CountScheduledBetween(ctx, today, today.AddDate(0, 0, 6)); err != nil {
		return nil, err
	}
	if overview.MonthlyRevenue, err = s.store.RevenueSince(ctx, monthStart); err != nil {
		return nil, err
	}

	top, err := s.store.TopServices(ctx, topServicesLimit)
	if err != nil {
		return nil, err
	}
	overview.TopServices = make([]ServiceSummary, 0, len(top))
	for _, t := range top {
		overview.TopServices = append(overview.TopServices, ServiceSummary{Name: humanize(t.ServiceType), Count: t.Count, Revenue: t.Revenue})
	}

	recent, err := s.store.ListRecent(ctx, recentBookingsLimit)
	if err != nil {
		return nil, err
	}
	overview.RecentBookings = make([]RecentBooking, 0, len(recent))
	for _, b := range recent {
		overview.RecentBookings = append(overview.RecentBookings, RecentBooking{
			ID:          b.ID.String(),
			Name:        b.Name,
			Service:     humanize(b.ServiceType),
			Date:        utils.FormatDate(b.PreferredDate),
			Status:      string(b.Status),
			SubmittedAt: daysAgoLabel(utils.DaysBetween(b.CreatedAt.In(s.location), clock)),
		})
	}

	return overview, nil
}

func daysAgoLabel(days int) string {
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
