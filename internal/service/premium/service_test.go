package premium

import (
	"errors"
	"testing"
	"time"

	"vivah/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	subs   []*models.PremiumSubscription
	nextID uint
}

func (f *fakeRepo) ActiveOn(accountID uint, day time.Time) (*models.PremiumSubscription, error) {
	var best *models.PremiumSubscription
	for _, s := range f.subs {
		if s.AccountID != accountID || !s.IsPremium || s.ExpiryDate == nil {
			continue
		}
		if !s.ExpiryDate.After(day) {
			continue
		}
		if best == nil || s.ExpiryDate.After(*best.ExpiryDate) {
			best = s
		}
	}
	return best, nil
}

func (f *fakeRepo) History(accountID uint) ([]models.PremiumSubscription, error) {
	var out []models.PremiumSubscription
	for _, s := range f.subs {
		if s.AccountID == accountID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(p *models.PremiumSubscription) error {
	f.nextID++
	p.ID = f.nextID
	f.subs = append(f.subs, p)
	return nil
}

func (f *fakeRepo) Save(p *models.PremiumSubscription) error {
	for i, s := range f.subs {
		if s.ID == p.ID {
			f.subs[i] = p
			return nil
		}
	}
	f.subs = append(f.subs, p)
	return nil
}

type fakeGateway struct {
	fail    bool
	charges int
}

func (g *fakeGateway) Charge(token string, amount int64, description string) (string, error) {
	g.charges++
	if g.fail {
		return "", errors.New("card declined")
	}
	return "ch_test_1", nil
}

func testAccount() *models.Account {
	return &models.Account{Model: gorm.Model{ID: 1}, Email: "asha@example.com"}
}

func fixedClock(s *Service, at time.Time) {
	s.now = func() time.Time { return at }
}

func TestHasActivePremium(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	expired := day.AddDate(0, 0, -1)
	future := day.AddDate(0, 0, 30)

	tests := []struct {
		name string
		subs []*models.PremiumSubscription
		want bool
	}{
		{name: "no subscriptions", want: false},
		{
			name: "expired subscription",
			subs: []*models.PremiumSubscription{
				{AccountID: 1, IsPremium: true, ExpiryDate: &expired},
			},
			want: false,
		},
		{
			name: "expiry equal to day is not active",
			subs: []*models.PremiumSubscription{
				{AccountID: 1, IsPremium: true, ExpiryDate: &day},
			},
			want: false,
		},
		{
			name: "active subscription",
			subs: []*models.PremiumSubscription{
				{AccountID: 1, IsPremium: true, ExpiryDate: &future},
			},
			want: true,
		},
		{
			name: "failed attempt never grants premium",
			subs: []*models.PremiumSubscription{
				{AccountID: 1, IsPremium: false, PaymentStatus: models.PaymentFailed, ExpiryDate: &future},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{subs: tt.subs}
			s := NewService(repo, &fakeGateway{}, 90, time.UTC)
			got, err := s.HasActivePremium(1, day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubscribe(t *testing.T) {
	repo := &fakeRepo{}
	gateway := &fakeGateway{}
	s := NewService(repo, gateway, 90, time.UTC)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	fixedClock(s, now)

	sub, err := s.Subscribe(testAccount(), 49900, "9800000000", "tok_visa")
	require.NoError(t, err)
	assert.True(t, sub.IsPremium)
	assert.Equal(t, models.PaymentSuccess, sub.PaymentStatus)
	assert.Equal(t, "ch_test_1", sub.TransactionID)
	require.NotNil(t, sub.ExpiryDate)
	assert.Equal(t, now.AddDate(0, 0, 90), *sub.ExpiryDate)

	active, err := s.HasActivePremium(1, now)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSubscribeDeclined(t *testing.T) {
	repo := &fakeRepo{}
	gateway := &fakeGateway{fail: true}
	s := NewService(repo, gateway, 90, time.UTC)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	fixedClock(s, now)

	sub, err := s.Subscribe(testAccount(), 49900, "9800000000", "tok_declined")
	assert.ErrorIs(t, err, ErrPaymentFailed)
	require.NotNil(t, sub)
	assert.Equal(t, models.PaymentFailed, sub.PaymentStatus)
	assert.False(t, sub.IsPremium)

	// The failed row is kept for history but grants nothing.
	active, err := s.HasActivePremium(1, now)
	require.NoError(t, err)
	assert.False(t, active)

	history, err := s.History(1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSubscribeAlreadyActive(t *testing.T) {
	repo := &fakeRepo{}
	gateway := &fakeGateway{}
	s := NewService(repo, gateway, 90, time.UTC)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	fixedClock(s, now)

	_, err := s.Subscribe(testAccount(), 49900, "9800000000", "tok_visa")
	require.NoError(t, err)

	_, err = s.Subscribe(testAccount(), 49900, "9800000000", "tok_visa")
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, gateway.charges)
}
