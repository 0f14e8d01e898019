// services/digest_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"skyview-backend/metrics"
	"skyview-backend/models"
	"skyview-backend/utils"
)

const digestTimeout = 30 * time.Second

// DigestService sends the admin a daily WhatsApp summary of the day's bookings.
type DigestService struct {
	bookings  BookingStore
	logs      NotificationLogStore
	messenger Messenger
	metrics   *metrics.Metrics
	log       Logger
	appName   string
	location  *time.Location
	cron      *cron.Cron
	now       func() time.Time
}

func NewDigestService(bookings BookingStore, logs NotificationLogStore, messenger Messenger, m *metrics.Metrics, log Logger, appName string, loc *time.Location) *DigestService {
	if loc == nil {
		loc = time.Local
	}
	return &DigestService{
		bookings:  bookings,
		logs:      logs,
		messenger: messenger,
		metrics:   m,
		log:       log,
		appName:   appName,
		location:  loc,
		now:       time.Now,
	}
}

// Start schedules SendDailyDigest with a standard 5-field cron spec in the business timezone.
func (s *DigestService) Start(schedule string) error {
	c := cron.New(cron.WithLocation(s.location))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := s.SendDailyDigest(ctx); err != nil {
			s.log.Warn("Daily digest failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.log.Info("Digest scheduler started (%s)", schedule)
	return nil
}

// Stop waits for a running digest to finish.
func (s *DigestService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Digest scheduler stopped")
}

func (s *DigestService) SendDailyDigest(ctx context.Context) error {
	if !s.messenger.IsConfigured() {
		return ErrNotConfigured
	}
	admin := s.messenger.AdminRecipient()
	if admin == "" {
		return ErrNoAdminRecipient
	}

	today := utils.Today(s.now(), s.location)
	bookings, err := s.bookings.ListScheduledOn(ctx, today)
	if err != nil {
		return fmt.Errorf("load bookings for %s: %w", utils.FormatDate(today), err)
	}

	body := digestText(s.appName, today, bookings)
	sid, err := s.messenger.SendText(ctx, admin, body)
	recordNotification(ctx, s.logs, s.metrics, s.log,
		attempt(nil, models.ChannelWhatsApp, admin, models.KindDailyDigest, body, sid, err), s.now())
	if err != nil {
		return err
	}

	s.log.Info("Daily digest sent to %s with %d booking(s)", admin, len(bookings))
	return nil
}
