package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InterestStatus defines the state of a directed interest edge.
type InterestStatus string

const (
	// InterestPending means the interest was sent but the receiver has
	// not responded yet.
	InterestPending InterestStatus = "pending"

	// InterestAccepted means the receiver accepted the interest.
	InterestAccepted InterestStatus = "accepted"

	// InterestRejected means the receiver rejected the interest.
	InterestRejected InterestStatus = "rejected"
)

// Interest is a directed edge from a sending account to a receiving
// profile. The composite unique index makes duplicate sends impossible
// even under concurrent requests.
type Interest struct {
	gorm.Model
	UID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	SenderID          uint `gorm:"not null;uniqueIndex:idx_interest_edge;index"`
	ReceiverProfileID uint `gorm:"not null;uniqueIndex:idx_interest_edge;index"`

	Message string         `gorm:"type:text"`
	Status  InterestStatus `gorm:"type:varchar(10);not null;default:'pending'"`

	Sender          Account `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ReceiverProfile Profile `gorm:"foreignKey:ReceiverProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Resolved reports whether the interest has left the pending state.
func (i *Interest) Resolved() bool {
	return i.Status != InterestPending
}

func (i *Interest) BeforeCreate(tx *gorm.DB) error {
	if i.UID == uuid.Nil {
		i.UID = uuid.New()
	}
	if i.Status == "" {
		i.Status = InterestPending
	}
	return nil
}
