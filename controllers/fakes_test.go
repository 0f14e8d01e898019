package controllers

import (
	"context"

	"github.com/google/uuid"

	"skyview-backend/models"
	"skyview-backend/repository"
	"skyview-backend/services"
	"skyview-backend/utils"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingService struct {
	submitResult *services.SubmitResult
	submitErr    error
	check        *services.CustomerCheckResult
	bookings     []models.Booking
	listErr      error
	booking      *models.Booking
	err          error

	lastTab         string
	lastIncludePast *bool
	lastUpdate      services.UpdateBookingInput
}

func (f *fakeBookingService) Submit(context.Context, services.SubmitBookingInput) (*services.SubmitResult, error) {
	return f.submitResult, f.submitErr
}

func (f *fakeBookingService) CheckCustomer(context.Context, string, string) *services.CustomerCheckResult {
	return f.check
}

func (f *fakeBookingService) List(_ context.Context, tab string, includePast *bool) ([]models.Booking, error) {
	f.lastTab = tab
	f.lastIncludePast = includePast
	return f.bookings, f.listErr
}

func (f *fakeBookingService) Get(context.Context, uuid.UUID) (*models.Booking, error) {
	return f.booking, f.err
}

func (f *fakeBookingService) Update(_ context.Context, _ uuid.UUID, in services.UpdateBookingInput) (*models.Booking, error) {
	f.lastUpdate = in
	return f.booking, f.err
}

type fakeUserService struct {
	login   *services.LoginResult
	user    *models.User
	users   []models.User
	err     error
	revoked *utils.Claims
}

func (f *fakeUserService) Login(context.Context, string, string) (*services.LoginResult, error) {
	return f.login, f.err
}

func (f *fakeUserService) Logout(_ context.Context, claims *utils.Claims) error {
	f.revoked = claims
	return f.err
}

func (f *fakeUserService) SetupAdmin(context.Context, string, string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) List(context.Context) ([]models.User, error) { return f.users, f.err }

func (f *fakeUserService) Get(context.Context, uuid.UUID) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) Create(context.Context, services.CreateUserInput) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) Update(context.Context, uuid.UUID, services.UpdateUserInput) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) Delete(context.Context, uuid.UUID) error { return f.err }

type fakeNotificationService struct {
	status  services.WhatsAppStatus
	sid     string
	err     error
	entries []models.NotificationLog
	limit   int
}

func (f *fakeNotificationService) Status() services.WhatsAppStatus { return f.status }

func (f *fakeNotificationService) SendTest(context.Context, string, string) (string, error) {
	return f.sid, f.err
}

func (f *fakeNotificationService) SendTestTemplate(context.Context, string, string) (string, error) {
	return f.sid, f.err
}

func (f *fakeNotificationService) Recent(_ context.Context, limit int) ([]models.NotificationLog, error) {
	f.limit = limit
	return f.entries, f.err
}

var errNotFound = repository.ErrNotFound
