package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one directed, timestamped text between two accounts.
// Seen flips false to true when the receiver opens the conversation and
// is never touched otherwise.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey"`
	UID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	SenderID   uint      `gorm:"not null;index:idx_chat_pair"`
	ReceiverID uint      `gorm:"not null;index:idx_chat_pair;index:idx_chat_unseen"`
	Body       string    `gorm:"type:text;not null"`
	Seen       bool      `gorm:"not null;default:false;index:idx_chat_unseen"`
	Timestamp  time.Time `gorm:"not null;index;autoCreateTime"`

	Sender   Account `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver Account `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.UID == uuid.Nil {
		m.UID = uuid.New()
	}
	return nil
}
