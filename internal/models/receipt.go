package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is a tuition receipt from the billing module that shares this
// project. Total is always recomputed from the fee fields on save.
type Receipt struct {
	gorm.Model
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ReceiptNo string    `gorm:"size:10;uniqueIndex;not null"`

	StudentName string `gorm:"size:100;not null"`
	FatherName  string `gorm:"size:100;not null"`
	Address     string `gorm:"size:700"`
	AdmissionNo string `gorm:"size:50"`
	ClassName   string `gorm:"size:50"`
	Month       string `gorm:"size:20"`
	Year        string `gorm:"size:20"`

	// Amounts in the smallest currency unit.
	AdmissionFee int64 `gorm:"not null;default:0"`
	TuitionFee   int64 `gorm:"not null;default:0"`
	BackDues     int64 `gorm:"not null;default:0"`
	Extra        int64 `gorm:"not null;default:0"`
	Total        int64 `gorm:"not null;default:0"`

	Description string `gorm:"type:text"`

	Entries []ReceiptEntry `gorm:"foreignKey:ReceiptID"`
}

// ReceiptEntry records one month's payment against a receipt. Baki is
// the outstanding balance carried for that month.
type ReceiptEntry struct {
	gorm.Model
	ReceiptID uint    `gorm:"not null;uniqueIndex:idx_receipt_month"`
	Receipt   Receipt `gorm:"foreignKey:ReceiptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Month     string `gorm:"size:20;not null;uniqueIndex:idx_receipt_month"`
	Year      string `gorm:"size:20;not null;uniqueIndex:idx_receipt_month"`
	Completed bool   `gorm:"not null;default:false"`
	Amount    int64  `gorm:"not null;default:0"`
	Baki      int64  `gorm:"not null;default:0"`
	Remarks   string `gorm:"type:text"`
}

// BeforeSave recomputes the receipt total.
func (r *Receipt) BeforeSave(tx *gorm.DB) error {
	r.Total = r.AdmissionFee + r.TuitionFee + r.BackDues + r.Extra
	return nil
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.UID == uuid.Nil {
		r.UID = uuid.New()
	}
	if r.ReceiptNo == "" {
		r.ReceiptNo = NewIdentityCode("STUDENT", 10)
	}
	return nil
}
