package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryImage is one photo in a profile's gallery. Only the blob store
// URL is kept here.
type GalleryImage struct {
	gorm.Model
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ProfileID uint      `gorm:"not null;index"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ImageURL  string    `gorm:"size:512;not null"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	if g.UID == uuid.Nil {
		g.UID = uuid.New()
	}
	return nil
}
