// Package premium manages paid subscriptions: payment attempts, the
// active-premium check consumed by the interest quota, and history.
package premium

import (
	"errors"
	"fmt"
	"time"

	"vivah/backend/internal/models"
)

var (
	// ErrAlreadyActive means the account holds an unexpired subscription.
	ErrAlreadyActive = errors.New("premium subscription already active")
	// ErrPaymentFailed wraps a declined or failed charge.
	ErrPaymentFailed = errors.New("payment failed")
)

// Repository is the subscription persistence surface.
type Repository interface {
	// ActiveOn returns the subscription granting premium on the given
	// day, or nil when there is none.
	ActiveOn(accountID uint, day time.Time) (*models.PremiumSubscription, error)
	History(accountID uint) ([]models.PremiumSubscription, error)
	Create(p *models.PremiumSubscription) error
	Save(p *models.PremiumSubscription) error
}

// Gateway charges a payment source and returns the transaction reference.
type Gateway interface {
	Charge(token string, amount int64, description string) (string, error)
}

// Service handles the subscription lifecycle.
type Service struct {
	repo         Repository
	gateway      Gateway
	durationDays int
	loc          *time.Location
	now          func() time.Time
}

func NewService(repo Repository, gateway Gateway, durationDays int, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:         repo,
		gateway:      gateway,
		durationDays: durationDays,
		loc:          loc,
		now:          time.Now,
	}
}

// HasActivePremium reports whether the account holds premium on the given
// day: is_premium set and expiry strictly after the day.
func (s *Service) HasActivePremium(accountID uint, day time.Time) (bool, error) {
	sub, err := s.repo.ActiveOn(accountID, day)
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}

// Active returns the currently active subscription, or nil.
func (s *Service) Active(accountID uint) (*models.PremiumSubscription, error) {
	return s.repo.ActiveOn(accountID, s.now().In(s.loc))
}

// History returns every payment attempt, newest first.
func (s *Service) History(accountID uint) ([]models.PremiumSubscription, error) {
	return s.repo.History(accountID)
}

// Subscribe records a payment attempt and charges the card token. A
// successful charge activates premium for the configured duration; a
// declined charge is kept as a failed attempt.
func (s *Service) Subscribe(account *models.Account, amount int64, mobile, cardToken string) (*models.PremiumSubscription, error) {
	now := s.now().In(s.loc)
	active, err := s.repo.ActiveOn(account.ID, now)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyActive
	}

	sub := &models.PremiumSubscription{
		AccountID:     account.ID,
		Amount:        amount,
		Mobile:        mobile,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.repo.Create(sub); err != nil {
		return nil, err
	}

	txID, err := s.gateway.Charge(cardToken, amount, fmt.Sprintf("Vivah premium for %s", account.Email))
	if err != nil {
		sub.PaymentStatus = models.PaymentFailed
		if saveErr := s.repo.Save(sub); saveErr != nil {
			return nil, saveErr
		}
		return sub, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	expiry := now.AddDate(0, 0, s.durationDays)
	sub.TransactionID = txID
	sub.PaymentStatus = models.PaymentSuccess
	sub.IsPremium = true
	sub.ExpiryDate = &expiry
	if err := s.repo.Save(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
