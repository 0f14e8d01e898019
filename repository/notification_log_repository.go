package repository

import (
	"context"

	"gorm.io/gorm"

	"skyview-backend/models"
)

const maxNotificationPage = 200

type NotificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

func (r *NotificationLogRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return wrap("Create", r.db.WithContext(ctx).Create(entry).Error)
}

// ListRecent returns the newest log entries first.
func (r *NotificationLogRepository) ListRecent(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 || limit > maxNotificationPage {
		limit = maxNotificationPage
	}
	var entries []models.NotificationLog
	if err := r.db.WithContext(ctx).Order("sent_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, wrap("ListRecent", err)
	}
	return entries, nil
}
