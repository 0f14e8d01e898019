package services

import (
	"context"
	"strings"
	"time"

	"skyview-backend/metrics"
	"skyview-backend/models"
)

// NotificationService backs the admin messaging tools.
type NotificationService struct {
	messenger Messenger
	logs      NotificationLogStore
	metrics   *metrics.Metrics
	log       Logger
	appName   string
	now       func() time.Time
}

func NewNotificationService(messenger Messenger, logs NotificationLogStore, m *metrics.Metrics, log Logger, appName string) *NotificationService {
	return &NotificationService{
		messenger: messenger,
		logs:      logs,
		metrics:   m,
		log:       log,
		appName:   appName,
		now:       time.Now,
	}
}

type WhatsAppStatus struct {
	Configured         bool   `json:"configured"`
	AdminRecipient     string `json:"adminRecipient"`
	TemplateConfigured bool   `json:"templateConfigured"`
}

func (s *NotificationService) Status() WhatsAppStatus {
	return WhatsAppStatus{
		Configured:         s.messenger.IsConfigured(),
		AdminRecipient:     s.messenger.AdminRecipient(),
		TemplateConfigured: s.messenger.HasTemplate(),
	}
}

// SendTest sends a freeform message to phone. An empty message uses a default text.
func (s *NotificationService) SendTest(ctx context.Context, phone, message string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", invalid("Phone number is required")
	}
	if strings.TrimSpace(message) == "" {
		message = "This is a test message from " + s.appName + "."
	}

	sid, err := s.messenger.SendText(ctx, phone, message)
	s.record(ctx, phone, message, sid, err)
	return sid, err
}

// SendTestTemplate sends the configured content template with the name as variable 1.
func (s *NotificationService) SendTestTemplate(ctx context.Context, phone, name string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", invalid("Phone number is required")
	}
	if strings.TrimSpace(name) == "" {
		name = "Customer"
	}

	sid, err := s.messenger.SendTemplate(ctx, phone, map[string]string{"1": name})
	s.record(ctx, phone, "template", sid, err)
	return sid, err
}

func (s *NotificationService) Recent(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	return s.logs.ListRecent(ctx, limit)
}

func (s *NotificationService) record(ctx context.Context, phone, body, sid string, err error) {
	if err != nil {
		s.log.Warn("Test WhatsApp message to %s failed: %v", phone, err)
	}
	recordNotification(ctx, s.logs, s.metrics, s.log,
		attempt(nil, models.ChannelWhatsApp, phone, models.KindTest, body, sid, err), s.now())
}
