package controllers

import (
	"context"

	"github.com/google/uuid"

	"skyview-backend/models"
	"skyview-backend/services"
	"skyview-backend/utils"
)

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type BookingService interface {
	Submit(ctx context.Context, in services.SubmitBookingInput) (*services.SubmitResult, error)
	CheckCustomer(ctx context.Context, email, phone string) *services.CustomerCheckResult
	List(ctx context.Context, tab string, includePast *bool) ([]models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, in services.UpdateBookingInput) (*models.Booking, error)
}

type UserService interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, claims *utils.Claims) error
	SetupAdmin(ctx context.Context, username, password string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, in services.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationService interface {
	Status() services.WhatsAppStatus
	SendTest(ctx context.Context, phone, message string) (string, error)
	SendTestTemplate(ctx context.Context, phone, name string) (string, error)
	Recent(ctx context.Context, limit int) ([]models.NotificationLog, error)
}
