package chat

import (
	"vivah/backend/internal/models"

	"gorm.io/gorm"
)

// GormRepository is the postgres-backed message log.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) AllInvolving(accountID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.
		Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}

func (r *GormRepository) Between(a, b uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}

func (r *GormRepository) MarkSeenUpTo(senderID, receiverID, maxID uint) error {
	// Single UPDATE keeps the flip atomic under concurrent sends; the ID
	// bound protects messages that arrived after the read snapshot.
	return r.db.Model(&models.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND seen = ? AND id <= ?", senderID, receiverID, false, maxID).
		Update("seen", true).Error
}

func (r *GormRepository) Create(m *models.ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *GormRepository) AccountsByIDs(ids []uint) ([]models.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []models.Account
	err := r.db.Preload("Profile").Find(&accounts, ids).Error
	return accounts, err
}
