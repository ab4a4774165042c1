package premium

import (
	"errors"
	"time"

	"vivah/backend/internal/models"

	"gorm.io/gorm"
)

// GormRepository is the postgres-backed subscription store.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ActiveOn(accountID uint, day time.Time) (*models.PremiumSubscription, error) {
	var sub models.PremiumSubscription
	err := r.db.
		Where("account_id = ? AND is_premium = ? AND expiry_date > ?", accountID, true, day).
		Order("expiry_date DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *GormRepository) History(accountID uint) ([]models.PremiumSubscription, error) {
	var subs []models.PremiumSubscription
	err := r.db.
		Where("account_id = ?", accountID).
		Order("updated_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *GormRepository) Create(p *models.PremiumSubscription) error {
	return r.db.Create(p).Error
}

func (r *GormRepository) Save(p *models.PremiumSubscription) error {
	return r.db.Save(p).Error
}
