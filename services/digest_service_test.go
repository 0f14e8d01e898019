package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyview-backend/models"
)

func newTestDigest(store *fakeBookingStore, logs *fakeLogStore, messenger *fakeMessenger) *DigestService {
	d := NewDigestService(store, logs, messenger, nil, nopLogger{}, "SkyView", time.UTC)
	d.now = func() time.Time { return testClock }
	return d
}

func TestSendDailyDigest(t *testing.T) {
	store := &fakeBookingStore{scheduled: []models.Booking{
		{Name: "Asha Rao", Phone: "9876543210", Address: "12 MG Road", ServiceType: "deep-cleaning", PreferredTime: "10:00", Status: models.StatusConfirmed},
	}}
	logs := &fakeLogStore{}
	messenger := configuredMessenger()

	require.NoError(t, newTestDigest(store, logs, messenger).SendDailyDigest(context.Background()))

	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), store.scheduledOn)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "whatsapp:+919999999999", messenger.sent[0].to)
	assert.Contains(t, messenger.sent[0].body, "bookings for Tue, 10 Jun 2025")
	assert.Contains(t, messenger.sent[0].body, "1. 10:00 Asha Rao - Deep Cleaning (CONFIRMED)")
	assert.Contains(t, messenger.sent[0].body, "Total: 1")

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.KindDailyDigest, logs.entries[0].Kind)
	assert.Equal(t, models.NotificationSent, logs.entries[0].Status)
}

func TestSendDailyDigestEmptyDay(t *testing.T) {
	messenger := configuredMessenger()
	require.NoError(t, newTestDigest(&fakeBookingStore{}, &fakeLogStore{}, messenger).SendDailyDigest(context.Background()))
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0].body, "No bookings scheduled today.")
}

func TestSendDailyDigestNeedsGateway(t *testing.T) {
	err := newTestDigest(&fakeBookingStore{}, &fakeLogStore{}, &fakeMessenger{}).SendDailyDigest(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = newTestDigest(&fakeBookingStore{}, &fakeLogStore{}, &fakeMessenger{configured: true}).SendDailyDigest(context.Background())
	assert.ErrorIs(t, err, ErrNoAdminRecipient)
}

func TestDigestStartRejectsBadSchedule(t *testing.T) {
	d := newTestDigest(&fakeBookingStore{}, &fakeLogStore{}, configuredMessenger())
	assert.Error(t, d.Start("every morning"))

	require.NoError(t, d.Start("0 8 * * *"))
	d.Stop()
}
