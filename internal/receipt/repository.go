package receipt

import (
	"errors"

	"vivah/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository is the postgres-backed receipt store.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(receipt *models.Receipt) error {
	return r.db.Create(receipt).Error
}

func (r *GormRepository) Save(receipt *models.Receipt) error {
	return r.db.Save(receipt).Error
}

func (r *GormRepository) ByUID(uid uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC, month ASC")
		}).
		Where("uid = ?", uid).
		First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *GormRepository) List(query string, page, pageSize int) ([]models.Receipt, int64, error) {
	tx := r.db.Model(&models.Receipt{})
	if query != "" {
		tx = tx.Where("student_name ILIKE ?", "%"+query+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var receipts []models.Receipt
	err := tx.
		Preload("Entries").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&receipts).Error
	return receipts, total, err
}

func (r *GormRepository) Delete(id uint) error {
	return r.db.Select("Entries").Delete(&models.Receipt{Model: gorm.Model{ID: id}}).Error
}

func (r *GormRepository) UpsertEntry(e *models.ReceiptEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "receipt_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount", "baki", "completed", "remarks", "updated_at",
		}),
	}).Create(e).Error
}

func (r *GormRepository) OutstandingTotal() (int64, error) {
	var total int64
	err := r.db.Model(&models.ReceiptEntry{}).
		Where("completed = ?", false).
		Select("COALESCE(SUM(baki), 0)").
		Scan(&total).Error
	return total, err
}
