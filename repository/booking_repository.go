package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"skyview-backend/models"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func where(tx *gorm.DB, pred sq.Sqlizer) (*gorm.DB, error) {
	if pred == nil {
		return tx, nil
	}
	query, args, err := pred.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	return tx.Where(query, args...), nil
}

// CountByContact counts bookings whose email or phone equals the given values.
func (r *BookingRepository) CountByContact(ctx context.Context, email, phone string) (int64, error) {
	pred, ok := contactPredicate(email, phone)
	if !ok {
		return 0, nil
	}
	tx, err := where(r.db.WithContext(ctx).Model(&models.Booking{}), pred)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, wrap("CountByContact", err)
	}
	return count, nil
}

// LatestByContact returns the most recent booking sharing the email or phone.
func (r *BookingRepository) LatestByContact(ctx context.Context, email, phone string) (*models.Booking, error) {
	pred, ok := contactPredicate(email, phone)
	if !ok {
		return nil, fmt.Errorf("%w: LatestByContact", ErrNotFound)
	}
	tx, err := where(r.db.WithContext(ctx), pred)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := tx.Order("created_at DESC").First(&booking).Error; err != nil {
		return nil, wrap("LatestByContact", err)
	}
	return &booking, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return wrap("Create", r.db.WithContext(ctx).Create(booking).Error)
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, wrap("GetByID", err)
	}
	return &booking, nil
}

// Update writes only the given columns and returns the stored row. updated_at is refreshed.
func (r *BookingRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Booking, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, wrap("Update", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: Update", ErrNotFound)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	pred, err := filter.Predicate()
	if err != nil {
		return nil, err
	}
	tx, err := where(r.db.WithContext(ctx), pred)
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if err := tx.Order(filter.Order()).Find(&bookings).Error; err != nil {
		return nil, wrap("List", err)
	}
	return bookings, nil
}

// ListScheduledOn returns the non-cancelled bookings for one calendar date.
func (r *BookingRepository) ListScheduledOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	tx, err := where(r.db.WithContext(ctx), scheduledOn(day))
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if err := tx.Order("preferred_time ASC").Find(&bookings).Error; err != nil {
		return nil, wrap("ListScheduledOn", err)
	}
	return bookings, nil
}
