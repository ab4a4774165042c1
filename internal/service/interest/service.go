// Package interest owns the directed interest ledger: duplicate-safe
// sends, ownership-filtered resolution, the daily quota and the premium
// gate.
package interest

import (
	"errors"
	"time"

	"vivah/backend/internal/models"
	"vivah/backend/internal/notify"
	"vivah/backend/internal/service/match"

	"github.com/google/uuid"
)

var (
	// ErrDuplicate means an interest already exists for this (sender,
	// receiver) pair. Concurrent duplicate sends lose with this same error.
	ErrDuplicate = errors.New("interest already sent")
	// ErrNotFound covers both a missing interest and one owned by someone
	// else; the two are indistinguishable to the caller.
	ErrNotFound = errors.New("interest not found")
	// ErrResolved means the interest already left the pending state.
	ErrResolved = errors.New("interest already resolved")
	// ErrQuotaExceeded means a non-premium sender used up today's free sends.
	ErrQuotaExceeded = errors.New("daily interest quota exceeded")
	// ErrSelfInterest means the sender targeted their own profile.
	ErrSelfInterest = errors.New("cannot send interest to own profile")
	// ErrInvalidDecision means the resolution was not accepted/rejected.
	ErrInvalidDecision = errors.New("invalid decision")
)

// Repository is the ledger's persistence surface.
type Repository interface {
	// Create inserts the edge, returning ErrDuplicate when the unique
	// (sender, receiver) index rejects it.
	Create(i *models.Interest) error
	// FindByUIDForReceiver loads an interest whose receiving profile is
	// owned by the given account, with sender preloaded. Misses and
	// foreign rows both yield ErrNotFound.
	FindByUIDForReceiver(uid uuid.UUID, receiverAccountID uint) (*models.Interest, error)
	UpdateStatus(i *models.Interest, status models.InterestStatus) error
	CountBySenderBetween(senderID uint, from, to time.Time) (int64, error)
	// SentProfileIDs lists the receiver profile IDs the sender has ever
	// targeted, for marking candidates in listings.
	SentProfileIDs(senderID uint) ([]uint, error)
	Incoming(receiverProfileID uint) ([]models.Interest, error)
	Outgoing(senderID uint) ([]models.Interest, error)
}

// PremiumChecker reports whether an account holds active premium on a day.
type PremiumChecker interface {
	HasActivePremium(accountID uint, day time.Time) (bool, error)
}

// Enqueuer hands notifications to the outbound queue; it never fails.
type Enqueuer interface {
	Enqueue(n notify.Notification)
}

// Service wires the ledger rules together.
type Service struct {
	repo       Repository
	premium    PremiumChecker
	notify     Enqueuer
	freePerDay int
	loc        *time.Location
	now        func() time.Time
}

// NewService creates the interest service. freePerDay caps what
// non-premium senders may send per calendar day in loc.
func NewService(repo Repository, premium PremiumChecker, enqueuer Enqueuer, freePerDay int, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:       repo,
		premium:    premium,
		notify:     enqueuer,
		freePerDay: freePerDay,
		loc:        loc,
		now:        time.Now,
	}
}

// CountSentToday returns how many interests the sender created during the
// current calendar day. Yesterday's sends never count.
func (s *Service) CountSentToday(senderID uint) (int64, error) {
	from, to := s.today()
	return s.repo.CountBySenderBetween(senderID, from, to)
}

// HasActivePremium reports the sender's premium standing today.
func (s *Service) HasActivePremium(accountID uint) (bool, error) {
	return s.premium.HasActivePremium(accountID, s.now().In(s.loc))
}

// SentProfileIDs exposes the ledger membership test for candidate listings.
func (s *Service) SentProfileIDs(senderID uint) ([]uint, error) {
	return s.repo.SentProfileIDs(senderID)
}

// Send records a new interest from the sender to the receiver profile and
// enqueues the "interest received" notification. The notification can
// never fail the send.
func (s *Service) Send(sender *models.Account, senderProfile *models.Profile, receiver *models.Profile, message string) (*models.Interest, error) {
	if err := match.CheckViewer(sender, senderProfile); err != nil {
		return nil, err
	}
	if receiver.AccountID == sender.ID {
		return nil, ErrSelfInterest
	}

	premium, err := s.premium.HasActivePremium(sender.ID, s.now().In(s.loc))
	if err != nil {
		return nil, err
	}
	if !premium {
		sentToday, err := s.CountSentToday(sender.ID)
		if err != nil {
			return nil, err
		}
		if sentToday >= int64(s.freePerDay) {
			return nil, ErrQuotaExceeded
		}
	}

	interest := &models.Interest{
		SenderID:          sender.ID,
		ReceiverProfileID: receiver.ID,
		Message:           message,
		Status:            models.InterestPending,
	}
	if err := s.repo.Create(interest); err != nil {
		return nil, err
	}

	s.notify.Enqueue(notify.InterestEmail(
		receiver.Account.Email,
		receiver.Account.FirstName,
		sender.FullName(),
	))
	return interest, nil
}

// Resolve transitions a pending interest to accepted or rejected. Only
// the owner of the receiving profile may resolve, only from pending, and
// acceptance notifies the original sender exactly once.
func (s *Service) Resolve(receiver *models.Account, interestUID uuid.UUID, decision models.InterestStatus) (*models.Interest, error) {
	if decision != models.InterestAccepted && decision != models.InterestRejected {
		return nil, ErrInvalidDecision
	}

	interest, err := s.repo.FindByUIDForReceiver(interestUID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if interest.Resolved() {
		return nil, ErrResolved
	}

	if err := s.repo.UpdateStatus(interest, decision); err != nil {
		return nil, err
	}

	if decision == models.InterestAccepted {
		s.notify.Enqueue(notify.InterestAcceptedEmail(
			interest.Sender.Email,
			receiver.FullName(),
			interest.Sender.FirstName,
		))
	}
	return interest, nil
}

// Incoming lists interests targeting the given profile, newest first.
func (s *Service) Incoming(receiverProfileID uint) ([]models.Interest, error) {
	return s.repo.Incoming(receiverProfileID)
}

// Outgoing lists interests the account has sent, newest first.
func (s *Service) Outgoing(senderID uint) ([]models.Interest, error) {
	return s.repo.Outgoing(senderID)
}

// today returns the bounds of the current calendar day in the configured zone.
func (s *Service) today() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return start, start.Add(24 * time.Hour)
}
