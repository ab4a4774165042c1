package match

import (
	"errors"
	"time"

	"vivah/backend/internal/models"
)

var (
	// ErrProfileIncomplete means the viewer has no identity proof or gender yet.
	ErrProfileIncomplete = errors.New("profile incomplete")
	// ErrAccountUnverified means the viewer's account awaits admin approval.
	ErrAccountUnverified = errors.New("account unverified")
)

// CheckViewer enforces the preconditions for candidate discovery and the
// interest workflow.
func CheckViewer(account *models.Account, profile *models.Profile) error {
	if profile == nil || !profile.IsComplete() {
		return ErrProfileIncomplete
	}
	if account == nil || !account.IsVerified {
		return ErrAccountUnverified
	}
	return nil
}

// OppositeGender returns the gender a viewer is matched against. Viewers
// declaring Other see all genders; ok is false in that case.
func OppositeGender(g models.Gender) (models.Gender, bool) {
	switch g {
	case models.GenderMale:
		return models.GenderFemale, true
	case models.GenderFemale:
		return models.GenderMale, true
	default:
		return "", false
	}
}

// DOBRange converts an age range into date-of-birth cutoffs on the given
// day. A candidate aged at least minAge was born on or before latest; one
// aged at most maxAge was born on or after earliest. Zero ages leave the
// corresponding bound nil.
func DOBRange(today time.Time, minAge, maxAge int) (latest, earliest *time.Time) {
	if minAge > 0 {
		t := time.Date(today.Year()-minAge, today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		latest = &t
	}
	if maxAge > 0 {
		t := time.Date(today.Year()-maxAge, today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		earliest = &t
	}
	return latest, earliest
}
