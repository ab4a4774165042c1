package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus is the state of one premium payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PremiumSubscription is one payment attempt for premium access. An
// account accumulates rows over time; "active premium" means IsPremium
// is set and the expiry date is strictly in the future.
type PremiumSubscription struct {
	gorm.Model
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	AccountID uint      `gorm:"not null;index"`
	Account   Account   `gorm:"foreignKey:AccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	IsPremium     bool          `gorm:"not null;default:false"`
	Amount        int64         `gorm:"not null"` // smallest currency unit
	Mobile        string        `gorm:"size:15"`
	TransactionID string        `gorm:"size:100"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ReceiptURL    string        `gorm:"size:512"`
	ExpiryDate    *time.Time    `gorm:"type:date"`
}

// ActiveOn reports whether the subscription grants premium on the given day.
func (p *PremiumSubscription) ActiveOn(day time.Time) bool {
	return p.IsPremium && p.ExpiryDate != nil && p.ExpiryDate.After(day)
}

func (p *PremiumSubscription) BeforeCreate(tx *gorm.DB) error {
	if p.UID == uuid.Nil {
		p.UID = uuid.New()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentPending
	}
	return nil
}
