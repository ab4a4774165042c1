package interest

import (
	"errors"
	"strings"
	"time"

	"vivah/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRepository is the postgres-backed ledger.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(i *models.Interest) error {
	err := r.db.Create(i).Error
	if err == nil {
		return nil
	}
	// The unique (sender_id, receiver_profile_id) index decides races.
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "23505") {
		return ErrDuplicate
	}
	return err
}

func (r *GormRepository) FindByUIDForReceiver(uid uuid.UUID, receiverAccountID uint) (*models.Interest, error) {
	var interest models.Interest
	err := r.db.
		Joins("JOIN profiles ON profiles.id = interests.receiver_profile_id").
		Where("interests.uid = ? AND profiles.account_id = ?", uid, receiverAccountID).
		Preload("Sender").
		Preload("ReceiverProfile").
		First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *GormRepository) UpdateStatus(i *models.Interest, status models.InterestStatus) error {
	if err := r.db.Model(i).Update("status", status).Error; err != nil {
		return err
	}
	i.Status = status
	return nil
}

func (r *GormRepository) CountBySenderBetween(senderID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Interest{}).
		Where("sender_id = ? AND created_at >= ? AND created_at < ?", senderID, from, to).
		Count(&count).Error
	return count, err
}

func (r *GormRepository) SentProfileIDs(senderID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Interest{}).
		Where("sender_id = ?", senderID).
		Pluck("receiver_profile_id", &ids).Error
	return ids, err
}

func (r *GormRepository) Incoming(receiverProfileID uint) ([]models.Interest, error) {
	var interests []models.Interest
	err := r.db.
		Where("receiver_profile_id = ?", receiverProfileID).
		Preload("Sender").
		Preload("Sender.Profile").
		Order("created_at DESC").
		Find(&interests).Error
	return interests, err
}

func (r *GormRepository) Outgoing(senderID uint) ([]models.Interest, error) {
	var interests []models.Interest
	err := r.db.
		Where("sender_id = ?", senderID).
		Preload("ReceiverProfile").
		Preload("ReceiverProfile.Account").
		Order("created_at DESC").
		Find(&interests).Error
	return interests, err
}
