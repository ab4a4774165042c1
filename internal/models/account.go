package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents a login identity. Matching data lives on Profile.
type Account struct {
	gorm.Model
	UID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Username     string    `gorm:"size:60;unique;not null"`
	Email        string    `gorm:"size:60;unique;not null"`
	FirstName    string    `gorm:"size:40"`
	LastName     string    `gorm:"size:40"`
	PasswordHash string    `gorm:"size:255"`
	Role         string    `gorm:"size:50;not null;default:'user';index"`

	// Set by an administrator after the identity proof has been reviewed.
	// Unverified accounts cannot browse, send interests or chat.
	IsVerified bool `gorm:"not null;default:false"`

	Profile *Profile `gorm:"foreignKey:AccountID"`
}

// FullName joins first and last name for notification templates.
func (a *Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// BeforeCreate assigns the public UID.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.UID == uuid.Nil {
		a.UID = uuid.New()
	}
	return nil
}
