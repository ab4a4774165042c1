package match

import (
	"testing"
	"time"

	"vivah/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckViewer(t *testing.T) {
	dob := date(1990, 1, 1)
	complete := &models.Profile{Gender: models.GenderMale, DOB: &dob, IdentityProofURL: "https://img/proof.jpg"}

	tests := []struct {
		name    string
		account *models.Account
		profile *models.Profile
		wantErr error
	}{
		{"verified and complete", &models.Account{IsVerified: true}, complete, nil},
		{"missing profile", &models.Account{IsVerified: true}, nil, ErrProfileIncomplete},
		{"missing identity proof", &models.Account{IsVerified: true}, &models.Profile{Gender: models.GenderMale}, ErrProfileIncomplete},
		{"missing gender", &models.Account{IsVerified: true}, &models.Profile{IdentityProofURL: "x"}, ErrProfileIncomplete},
		{"unverified account", &models.Account{IsVerified: false}, complete, ErrAccountUnverified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckViewer(tt.account, tt.profile)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOppositeGender(t *testing.T) {
	g, ok := OppositeGender(models.GenderMale)
	assert.True(t, ok)
	assert.Equal(t, models.GenderFemale, g)

	g, ok = OppositeGender(models.GenderFemale)
	assert.True(t, ok)
	assert.Equal(t, models.GenderMale, g)

	_, ok = OppositeGender(models.GenderOther)
	assert.False(t, ok)

	_, ok = OppositeGender("")
	assert.False(t, ok)
}

func TestDOBRange(t *testing.T) {
	today := date(2024, 1, 1)

	latest, earliest := DOBRange(today, 30, 40)
	assert.Equal(t, date(1994, 1, 1), *latest)
	assert.Equal(t, date(1984, 1, 1), *earliest)

	latest, earliest = DOBRange(today, 0, 25)
	assert.Nil(t, latest)
	assert.Equal(t, date(1999, 1, 1), *earliest)

	latest, earliest = DOBRange(today, 18, 0)
	assert.Equal(t, date(2006, 1, 1), *latest)
	assert.Nil(t, earliest)

	latest, earliest = DOBRange(today, 0, 0)
	assert.Nil(t, latest)
	assert.Nil(t, earliest)
}

// A 28 year old must fall outside a 30..40 window evaluated on 2024-01-01.
func TestDOBRangeExcludesUnderMin(t *testing.T) {
	today := date(2024, 1, 1)
	latest, _ := DOBRange(today, 30, 40)

	dob := date(1995, 6, 1)
	profile := models.Profile{Gender: models.GenderFemale, DOB: &dob}

	assert.Equal(t, 28, profile.Age(today))
	assert.True(t, dob.After(*latest), "dob after the latest cutoff is excluded by the query")
}

func TestProfileAge(t *testing.T) {
	dob := date(1990, 6, 15)
	p := models.Profile{DOB: &dob}

	assert.Equal(t, 33, p.Age(date(2024, 6, 14)))
	assert.Equal(t, 34, p.Age(date(2024, 6, 15)))
	assert.Equal(t, 34, p.Age(date(2024, 12, 1)))

	empty := models.Profile{}
	assert.Equal(t, -1, empty.Age(date(2024, 1, 1)))
}
