// Package match implements visibility-gated candidate discovery: which
// profiles a viewer may see, under which filters.
package match

import (
	"time"

	"vivah/backend/internal/models"

	"gorm.io/gorm"
)

// Filters are the optional, conjunctive candidate filters. Zero values
// impose no constraint.
type Filters struct {
	MinAge  int
	MaxAge  int
	Caste   string
	Country string
	State   string
	City    string
	Page    int
}

// Service composes the candidate query. Read-only.
type Service struct {
	db       *gorm.DB
	pageSize int
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a match service with a fixed page size.
func NewService(db *gorm.DB, pageSize int, loc *time.Location) *Service {
	if pageSize < 1 {
		pageSize = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, pageSize: pageSize, loc: loc, now: time.Now}
}

// PageSize exposes the configured page size for response metadata.
func (s *Service) PageSize() int { return s.pageSize }

// FindCandidates returns one page of profiles visible to the viewer plus
// the total candidate count. Candidates are verified accounts other than
// the viewer; Male viewers see Female profiles and vice versa, Other sees
// everyone. Age bounds are applied against date of birth, never a stored
// age. Newest profiles come first.
func (s *Service) FindCandidates(viewer *models.Account, viewerProfile *models.Profile, f Filters) ([]models.Profile, int64, error) {
	if err := CheckViewer(viewer, viewerProfile); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Profile{}).
		Joins("JOIN accounts ON accounts.id = profiles.account_id AND accounts.deleted_at IS NULL").
		Where("accounts.is_verified = ?", true).
		Where("profiles.account_id <> ?", viewer.ID)

	if opposite, ok := OppositeGender(viewerProfile.Gender); ok {
		query = query.Where("profiles.gender = ?", opposite)
	}

	today := s.now().In(s.loc)
	latest, earliest := DOBRange(today, f.MinAge, f.MaxAge)
	if latest != nil {
		query = query.Where("profiles.dob <= ?", *latest)
	}
	if earliest != nil {
		query = query.Where("profiles.dob >= ?", *earliest)
	}

	if f.Caste != "" {
		query = query.Where("profiles.caste ILIKE ?", "%"+f.Caste+"%")
	}
	if f.Country != "" {
		query = query.Where("profiles.country ILIKE ?", "%"+f.Country+"%")
	}
	if f.State != "" {
		query = query.Where("profiles.state ILIKE ?", "%"+f.State+"%")
	}
	if f.City != "" {
		query = query.Where("profiles.city ILIKE ?", "%"+f.City+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}

	var profiles []models.Profile
	err := query.
		Preload("Account").
		Preload("Gallery").
		Order("profiles.created_at DESC").
		Offset((page - 1) * s.pageSize).
		Limit(s.pageSize).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// DistinctValues collects the distinct non-empty values of a filterable
// column for the search dropdowns.
func (s *Service) DistinctValues(column string) ([]string, error) {
	switch column {
	case "country", "state", "city", "caste":
	default:
		return nil, gorm.ErrInvalidField
	}

	var values []string
	err := s.db.Model(&models.Profile{}).
		Where(column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	return values, err
}
