package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skyview-backend/models"
	"skyview-backend/repository"
)

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type BookingStore interface {
	CountByContact(ctx context.Context, email, phone string) (int64, error)
	LatestByContact(ctx context.Context, email, phone string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	ListScheduledOn(ctx context.Context, day time.Time) ([]models.Booking, error)
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type NotificationLogStore interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	ListRecent(ctx context.Context, limit int) ([]models.NotificationLog, error)
}

type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Messenger sends WhatsApp messages through the configured provider.
type Messenger interface {
	IsConfigured() bool
	HasTemplate() bool
	AdminRecipient() string
	SendText(ctx context.Context, to, body string) (string, error)
	SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error)
}

// AdminNotifier is a secondary admin alert channel.
type AdminNotifier interface {
	Enabled() bool
	Recipient() string
	Notify(ctx context.Context, text string) error
}
