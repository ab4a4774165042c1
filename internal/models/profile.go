package models

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is the declared gender on a profile.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Profile holds the matrimony profile for exactly one account.
// Age is always derived from DOB, never stored.
type Profile struct {
	gorm.Model
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	AccountID uint      `gorm:"uniqueIndex;not null"`
	Account   Account   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	// Short public code shown on the profile card, e.g. VIVAH12345.
	Identity string `gorm:"size:10;uniqueIndex;not null"`

	// Personal
	Gender        Gender     `gorm:"size:10"`
	DOB           *time.Time `gorm:"type:date"`
	HeightCM      float64
	WeightKG      float64
	MaritalStatus string `gorm:"size:30;default:'Never Married'"`
	Religion      string `gorm:"size:50"`
	Caste         string `gorm:"size:100"`
	MotherTongue  string `gorm:"size:100"`

	// Education & profession
	Education    string `gorm:"size:100"`
	Occupation   string `gorm:"size:100"`
	AnnualIncome string `gorm:"size:50"`
	CompanyName  string `gorm:"size:255"`
	WorkingCity  string `gorm:"size:255"`

	// Contact & location
	PhoneNo string `gorm:"size:15"`
	Address string `gorm:"size:1000"`
	Country string `gorm:"size:255"`
	State   string `gorm:"size:255"`
	City    string `gorm:"size:255"`

	// Lifestyle
	Diet     string `gorm:"size:50"`
	Smoking  string `gorm:"size:50"`
	Drinking string `gorm:"size:50"`
	Hobbies  string `gorm:"size:1000"`

	// Family
	FatherName       string `gorm:"size:255"`
	MotherName       string `gorm:"size:255"`
	FatherOccupation string `gorm:"size:255"`
	MotherOccupation string `gorm:"size:255"`
	Sisters          int    `gorm:"default:0"`
	Brothers         int    `gorm:"default:0"`
	FamilyType       string `gorm:"size:50"`

	AboutMe            string `gorm:"type:text"`
	PartnerPreferences string `gorm:"type:text"`

	// Blob store references. The profile is incomplete until the
	// identity proof has been uploaded.
	ImageURL         string `gorm:"size:512"`
	IdentityProofURL string `gorm:"size:512"`

	Gallery []GalleryImage `gorm:"foreignKey:ProfileID"`
}

// Age derives the age in whole years on the given date, or -1 when DOB is unset.
func (p *Profile) Age(on time.Time) int {
	if p.DOB == nil {
		return -1
	}
	dob := *p.DOB
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return age
}

// IsComplete reports whether the profile can take part in matching.
func (p *Profile) IsComplete() bool {
	return p.IdentityProofURL != "" && p.Gender != ""
}

// BeforeCreate assigns the public UID and identity code.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.UID == uuid.Nil {
		p.UID = uuid.New()
	}
	if p.Identity == "" {
		p.Identity = NewIdentityCode("VIVAH", 10)
	}
	return nil
}

// NewIdentityCode builds prefix plus random digits up to the given total size.
func NewIdentityCode(prefix string, size int) string {
	code := []byte(prefix)
	for len(code) < size {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			n = big.NewInt(0)
		}
		code = append(code, byte('0'+n.Int64()))
	}
	return string(code)
}
