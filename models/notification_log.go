// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"

	KindAdminAlert           = "admin_alert"
	KindCustomerConfirmation = "customer_confirmation"
	KindDailyDigest          = "daily_digest"
	KindTest                 = "test"

	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// NotificationLog records one outbound message attempt.
type NotificationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BookingID    *uuid.UUID `gorm:"type:uuid;index" json:"bookingId,omitempty"`
	Channel      string     `gorm:"type:varchar(20);not null" json:"channel"`
	Recipient    string     `gorm:"type:varchar(64)" json:"recipient"`
	Kind         string     `gorm:"type:varchar(32);index" json:"kind"`
	Message      string     `gorm:"type:text" json:"message"`
	Status       string     `gorm:"type:varchar(20);not null" json:"status"`
	ProviderID   string     `gorm:"type:varchar(64)" json:"providerId,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time  `gorm:"index" json:"sentAt"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	return
}
