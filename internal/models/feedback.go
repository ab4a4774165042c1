package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackType classifies a feedback submission.
type FeedbackType string

const (
	FeedbackGeneral      FeedbackType = "general"
	FeedbackProfileIssue FeedbackType = "profile_issue"
	FeedbackSuccessStory FeedbackType = "success_story"
	FeedbackOther        FeedbackType = "other"
)

// Feedback is a platform feedback entry, optionally linked to an account.
type Feedback struct {
	gorm.Model
	UID        uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null"`
	AccountID  *uint        `gorm:"index"`
	Type       FeedbackType `gorm:"type:varchar(20);not null;default:'general'"`
	Message    string       `gorm:"type:text;not null"`
	Rating     *int         // 1..5, optional
	IsReviewed bool         `gorm:"not null;default:false"`

	Account *Account `gorm:"foreignKey:AccountID"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.UID == uuid.Nil {
		f.UID = uuid.New()
	}
	return nil
}
