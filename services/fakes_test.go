package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"skyview-backend/models"
	"skyview-backend/repository"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingStore struct {
	count     int64
	countErr  error
	latestErr error
	createErr error
	updateErr error

	created      []*models.Booking
	countCalls   [][2]string
	lastFilter   repository.BookingFilter
	lastFields   map[string]interface{}
	scheduled    []models.Booking
	scheduledOn  time.Time
	listResponse []models.Booking
	// history backs LatestByContact.
	history []models.Booking
}

func (f *fakeBookingStore) CountByContact(_ context.Context, email, phone string) (int64, error) {
	f.countCalls = append(f.countCalls, [2]string{email, phone})
	return f.count, f.countErr
}

func (f *fakeBookingStore) LatestByContact(_ context.Context, email, phone string) (*models.Booking, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var latest *models.Booking
	for i := range f.history {
		b := &f.history[i]
		if (email != "" && b.Email == email) || (phone != "" && b.Phone == phone) {
			if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
				latest = b
			}
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	for _, b := range f.created {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookingStore) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Booking, error) {
	f.lastFields = fields
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Booking{ID: id}, nil
}

func (f *fakeBookingStore) List(_ context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	f.lastFilter = filter
	return f.listResponse, nil
}

func (f *fakeBookingStore) ListScheduledOn(_ context.Context, day time.Time) ([]models.Booking, error) {
	f.scheduledOn = day
	return f.scheduled, nil
}

type fakeLogStore struct {
	mu      sync.Mutex
	entries []models.NotificationLog
}

func (f *fakeLogStore) Create(_ context.Context, entry *models.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogStore) ListRecent(_ context.Context, limit int) ([]models.NotificationLog, error) {
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

type sentMessage struct {
	to   string
	body string
	vars map[string]string
}

type fakeMessenger struct {
	configured bool
	template   bool
	admin      string
	sendErr    error
	sent       []sentMessage
}

func (f *fakeMessenger) IsConfigured() bool     { return f.configured }
func (f *fakeMessenger) HasTemplate() bool      { return f.template }
func (f *fakeMessenger) AdminRecipient() string { return f.admin }

func (f *fakeMessenger) SendText(_ context.Context, to, body string) (string, error) {
	if !f.configured {
		return "", ErrNotConfigured
	}
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "SM123", nil
}

func (f *fakeMessenger) SendTemplate(_ context.Context, to string, vars map[string]string) (string, error) {
	if !f.template {
		return "", ErrNoTemplate
	}
	f.sent = append(f.sent, sentMessage{to: to, vars: vars})
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "SM456", nil
}

type fakeNotifier struct {
	enabled bool
	err     error
	texts   []string
}

func (f *fakeNotifier) Enabled() bool     { return f.enabled }
func (f *fakeNotifier) Recipient() string { return "42" }

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeUserStore struct {
	users     map[uuid.UUID]*models.User
	deleted   []uuid.UUID
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[uuid.UUID]*models.User{}, lastLogin: map[uuid.UUID]time.Time{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		s.users[u.ID] = u
	}
	return s
}

func (f *fakeUserStore) List(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["username"].(string); ok {
		u.Username = v
	}
	if v, ok := fields["password"].(string); ok {
		u.Password = v
	}
	if v, ok := fields["role"].(models.Role); ok {
		u.Role = v
	}
	return u, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserStore) CountByRole(_ context.Context, role models.Role) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}
