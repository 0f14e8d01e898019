package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"skyview-backend/models"
)

type ServiceCount struct {
	ServiceType string  `json:"serviceType"`
	Count       int64   `json:"count"`
	Revenue     float64 `json:"revenue"`
}

// scheduledBetween matches non-cancelled bookings with a date in [from, to].
func scheduledBetween(from, to time.Time) sq.Sqlizer {
	return sq.And{
		sq.GtOrEq{"preferred_date": from},
		sq.LtOrEq{"preferred_date": to},
		sq.NotEq{"status": string(models.StatusCancelled)},
	}
}

// completedSince matches completed bookings dated on or after from.
func completedSince(from time.Time) sq.Sqlizer {
	return sq.And{
		sq.Eq{"status": string(models.StatusCompleted)},
		sq.GtOrEq{"preferred_date": from},
	}
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[models.BookingStatus]int64, error) {
	var rows []struct {
		Status models.BookingStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("CountByStatus", err)
	}

	counts := make(map[models.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *BookingRepository) CountScheduledBetween(ctx context.Context, from, to time.Time) (int64, error) {
	tx, err := where(r.db.WithContext(ctx).Model(&models.Booking{}), scheduledBetween(from, to))
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, wrap("CountScheduledBetween", err)
	}
	return count, nil
}

// RevenueSince sums payment amounts of completed bookings dated on or after from.
func (r *BookingRepository) RevenueSince(ctx context.Context, from time.Time) (float64, error) {
	tx, err := where(r.db.WithContext(ctx).Model(&models.Booking{}), completedSince(from))
	if err != nil {
		return 0, err
	}
	var revenue float64
	if err := tx.Select("COALESCE(SUM(payment_amount), 0)").Scan(&revenue).Error; err != nil {
		return 0, wrap("RevenueSince", err)
	}
	return revenue, nil
}

// TopServices ranks service types by number of non-cancelled bookings.
func (r *BookingRepository) TopServices(ctx context.Context, limit int) ([]ServiceCount, error) {
	var rows []ServiceCount
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("service_type, COUNT(*) AS count, COALESCE(SUM(payment_amount), 0) AS revenue").
		Where("status <> ?", string(models.StatusCancelled)).
		Group("service_type").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("TopServices", err)
	}
	return rows, nil
}

func (r *BookingRepository) ListRecent(ctx context.Context, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&bookings).Error; err != nil {
		return nil, wrap("ListRecent", err)
	}
	return bookings, nil
}
