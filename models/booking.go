package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentCash         PaymentType = "CASH"
	PaymentCard         PaymentType = "CARD"
	PaymentUPI          PaymentType = "UPI"
	PaymentBankTransfer PaymentType = "BANK_TRANSFER"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer:
		return true
	}
	return false
}

type Booking struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Name                string        `gorm:"not null" json:"name"`
	Email               string        `gorm:"index" json:"email"`
	Phone               string        `gorm:"index;not null" json:"phone"`
	Address             string        `gorm:"type:text;not null" json:"address"`
	ServiceType         string        `gorm:"type:varchar(64);not null" json:"serviceType"`
	Frequency           string        `gorm:"type:varchar(32)" json:"frequency"`
	PreferredDate       time.Time     `gorm:"type:date;index;not null" json:"preferredDate"`
	PreferredTime       string        `gorm:"type:varchar(16)" json:"preferredTime"`
	FlatType            *string       `gorm:"type:varchar(32)" json:"flatType"`
	Bedrooms            string        `gorm:"type:varchar(8)" json:"bedrooms"`
	Bathrooms           string        `gorm:"type:varchar(8)" json:"bathrooms"`
	AdditionalServices  StringList    `gorm:"type:jsonb" json:"additionalServices"`
	SpecialInstructions *string       `gorm:"type:text" json:"specialInstructions"`
	Status              BookingStatus `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	Remarks             *string       `gorm:"type:text" json:"remarks"`
	PaymentAmount       *float64      `gorm:"type:decimal(10,2)" json:"paymentAmount"`
	PaymentType         *PaymentType  `gorm:"type:varchar(20)" json:"paymentType"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.AdditionalServices == nil {
		b.AdditionalServices = StringList{}
	}
	return
}
