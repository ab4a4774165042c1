package interest

import (
	"fmt"
	"testing"
	"time"

	"vivah/backend/internal/models"
	"vivah/backend/internal/notify"
	"vivah/backend/internal/service/match"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo keeps the ledger in memory and enforces the pair uniqueness
// the database index provides in production.
type fakeRepo struct {
	interests []*models.Interest
	nextID    uint
	createdAt time.Time
}

func (f *fakeRepo) Create(i *models.Interest) error {
	for _, existing := range f.interests {
		if existing.SenderID == i.SenderID && existing.ReceiverProfileID == i.ReceiverProfileID {
			return ErrDuplicate
		}
	}
	f.nextID++
	i.ID = f.nextID
	i.UID = uuid.New()
	i.CreatedAt = f.createdAt
	f.interests = append(f.interests, i)
	return nil
}

func (f *fakeRepo) FindByUIDForReceiver(uid uuid.UUID, receiverAccountID uint) (*models.Interest, error) {
	for _, i := range f.interests {
		if i.UID == uid && i.ReceiverProfile.AccountID == receiverAccountID {
			return i, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) UpdateStatus(i *models.Interest, status models.InterestStatus) error {
	i.Status = status
	return nil
}

func (f *fakeRepo) CountBySenderBetween(senderID uint, from, to time.Time) (int64, error) {
	var count int64
	for _, i := range f.interests {
		if i.SenderID == senderID && !i.CreatedAt.Before(from) && i.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) SentProfileIDs(senderID uint) ([]uint, error) {
	var ids []uint
	for _, i := range f.interests {
		if i.SenderID == senderID {
			ids = append(ids, i.ReceiverProfileID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) Incoming(receiverProfileID uint) ([]models.Interest, error) {
	var out []models.Interest
	for _, i := range f.interests {
		if i.ReceiverProfileID == receiverProfileID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeRepo) Outgoing(senderID uint) ([]models.Interest, error) {
	var out []models.Interest
	for _, i := range f.interests {
		if i.SenderID == senderID {
			out = append(out, *i)
		}
	}
	return out, nil
}

type fakePremium struct {
	premium map[uint]bool
}

func (f *fakePremium) HasActivePremium(accountID uint, day time.Time) (bool, error) {
	return f.premium[accountID], nil
}

type recordingEnqueuer struct {
	sent []notify.Notification
}

func (r *recordingEnqueuer) Enqueue(n notify.Notification) {
	r.sent = append(r.sent, n)
}

func testFixtures() (*models.Account, *models.Profile, *models.Profile) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	sender := &models.Account{
		Model:      gorm.Model{ID: 1},
		Email:      "arun@example.com",
		FirstName:  "Arun",
		IsVerified: true,
	}
	senderProfile := &models.Profile{
		Model:            gorm.Model{ID: 11},
		AccountID:        1,
		Gender:           models.GenderMale,
		DOB:              &dob,
		IdentityProofURL: "https://img/proof.jpg",
	}
	receiverProfile := &models.Profile{
		Model:            gorm.Model{ID: 22},
		AccountID:        2,
		Gender:           models.GenderFemale,
		DOB:              &dob,
		IdentityProofURL: "https://img/proof2.jpg",
		Account:          models.Account{Model: gorm.Model{ID: 2}, Email: "bina@example.com", FirstName: "Bina"},
	}
	return sender, senderProfile, receiverProfile
}

func newTestService(repo *fakeRepo, premium *fakePremium, enq *recordingEnqueuer) *Service {
	s := NewService(repo, premium, enq, 3, time.UTC)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSendCreatesOneRowAndNotifies(t *testing.T) {
	repo := &fakeRepo{createdAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	enq := &recordingEnqueuer{}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, enq)
	sender, senderProfile, receiver := testFixtures()

	i, err := s.Send(sender, senderProfile, receiver, "hello")
	require.NoError(t, err)
	assert.Equal(t, models.InterestPending, i.Status)
	require.Len(t, repo.interests, 1)

	require.Len(t, enq.sent, 1)
	assert.Equal(t, notify.KindInterestReceived, enq.sent[0].Kind)
	assert.Equal(t, "bina@example.com", enq.sent[0].To)
}

func TestSendTwiceReturnsDuplicate(t *testing.T) {
	repo := &fakeRepo{createdAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	enq := &recordingEnqueuer{}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, enq)
	sender, senderProfile, receiver := testFixtures()

	_, err := s.Send(sender, senderProfile, receiver, "")
	require.NoError(t, err)

	_, err = s.Send(sender, senderProfile, receiver, "")
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Len(t, repo.interests, 1, "exactly one row per (sender, receiver) pair")
	assert.Len(t, enq.sent, 1, "no second notification for a duplicate")
}

func TestSendPreconditions(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, &recordingEnqueuer{})
	sender, senderProfile, receiver := testFixtures()

	t.Run("unverified account", func(t *testing.T) {
		unverified := *sender
		unverified.IsVerified = false
		_, err := s.Send(&unverified, senderProfile, receiver, "")
		assert.ErrorIs(t, err, match.ErrAccountUnverified)
	})

	t.Run("incomplete profile", func(t *testing.T) {
		incomplete := *senderProfile
		incomplete.IdentityProofURL = ""
		_, err := s.Send(sender, &incomplete, receiver, "")
		assert.ErrorIs(t, err, match.ErrProfileIncomplete)
	})

	t.Run("own profile", func(t *testing.T) {
		_, err := s.Send(sender, senderProfile, senderProfile, "")
		assert.ErrorIs(t, err, ErrSelfInterest)
	})
}

func TestSendQuota(t *testing.T) {
	day := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{createdAt: day}
	premium := &fakePremium{premium: map[uint]bool{}}
	s := newTestService(repo, premium, &recordingEnqueuer{})
	sender, senderProfile, _ := testFixtures()

	for n := 0; n < 3; n++ {
		receiver := &models.Profile{
			Model:            gorm.Model{ID: uint(100 + n)},
			AccountID:        uint(10 + n),
			Gender:           models.GenderFemale,
			IdentityProofURL: "x",
			Account:          models.Account{Email: fmt.Sprintf("r%d@example.com", n)},
		}
		_, err := s.Send(sender, senderProfile, receiver, "")
		require.NoError(t, err)
	}

	over := &models.Profile{
		Model:            gorm.Model{ID: 200},
		AccountID:        50,
		Gender:           models.GenderFemale,
		IdentityProofURL: "x",
		Account:          models.Account{Email: "over@example.com"},
	}
	_, err := s.Send(sender, senderProfile, over, "")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Premium lifts the cap.
	premium.premium[sender.ID] = true
	_, err = s.Send(sender, senderProfile, over, "")
	assert.NoError(t, err)
}

func TestCountSentTodayIsDateScoped(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, &recordingEnqueuer{})

	yesterday := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	today := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)

	for n := 0; n < 2; n++ {
		repo.interests = append(repo.interests, &models.Interest{SenderID: 1, ReceiverProfileID: uint(300 + n), Model: gorm.Model{CreatedAt: yesterday}})
	}
	for n := 0; n < 3; n++ {
		repo.interests = append(repo.interests, &models.Interest{SenderID: 1, ReceiverProfileID: uint(400 + n), Model: gorm.Model{CreatedAt: today}})
	}

	count, err := s.CountSentToday(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "yesterday's sends never count")
}

func TestResolveAccept(t *testing.T) {
	repo := &fakeRepo{createdAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	enq := &recordingEnqueuer{}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, enq)
	sender, senderProfile, receiverProfile := testFixtures()

	created, err := s.Send(sender, senderProfile, receiverProfile, "")
	require.NoError(t, err)
	created.Sender = *sender
	created.ReceiverProfile = *receiverProfile

	receiverAccount := &models.Account{Model: gorm.Model{ID: 2}, Email: "bina@example.com", FirstName: "Bina"}
	resolved, err := s.Resolve(receiverAccount, created.UID, models.InterestAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.InterestAccepted, resolved.Status)

	// One interest-received mail plus exactly one acceptance mail.
	require.Len(t, enq.sent, 2)
	assert.Equal(t, notify.KindInterestAccepted, enq.sent[1].Kind)
	assert.Equal(t, "arun@example.com", enq.sent[1].To)

	// A second resolution attempt fails and does not notify again.
	_, err = s.Resolve(receiverAccount, created.UID, models.InterestRejected)
	assert.ErrorIs(t, err, ErrResolved)
	assert.Len(t, enq.sent, 2)
}

func TestResolveRejectDoesNotNotify(t *testing.T) {
	repo := &fakeRepo{createdAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	enq := &recordingEnqueuer{}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, enq)
	sender, senderProfile, receiverProfile := testFixtures()

	created, err := s.Send(sender, senderProfile, receiverProfile, "")
	require.NoError(t, err)
	created.Sender = *sender
	created.ReceiverProfile = *receiverProfile

	receiverAccount := &models.Account{Model: gorm.Model{ID: 2}}
	resolved, err := s.Resolve(receiverAccount, created.UID, models.InterestRejected)
	require.NoError(t, err)
	assert.Equal(t, models.InterestRejected, resolved.Status)
	assert.Len(t, enq.sent, 1, "only the original interest-received mail")
}

func TestResolveOwnershipFiltered(t *testing.T) {
	repo := &fakeRepo{createdAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	s := newTestService(repo, &fakePremium{premium: map[uint]bool{}}, &recordingEnqueuer{})
	sender, senderProfile, receiverProfile := testFixtures()

	created, err := s.Send(sender, senderProfile, receiverProfile, "")
	require.NoError(t, err)
	created.ReceiverProfile = *receiverProfile

	stranger := &models.Account{Model: gorm.Model{ID: 99}}
	_, err = s.Resolve(stranger, created.UID, models.InterestAccepted)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Resolve(stranger, uuid.New(), models.InterestAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveInvalidDecision(t *testing.T) {
	s := newTestService(&fakeRepo{}, &fakePremium{premium: map[uint]bool{}}, &recordingEnqueuer{})
	_, err := s.Resolve(&models.Account{}, uuid.New(), models.InterestPending)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
