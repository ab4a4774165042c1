package chat

import (
	"sort"
	"testing"
	"time"

	"vivah/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	messages []*models.ChatMessage
	accounts map[uint]models.Account
	nextID   uint
	now      time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts: map[uint]models.Account{},
		now:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) addAccount(id uint, name string) {
	f.accounts[id] = models.Account{Model: gorm.Model{ID: id}, FirstName: name}
}

// add appends a message one minute after the previous one.
func (f *fakeRepo) add(sender, receiver uint, body string, seen bool) *models.ChatMessage {
	f.nextID++
	f.now = f.now.Add(time.Minute)
	m := &models.ChatMessage{
		ID:         f.nextID,
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
		Seen:       seen,
		Timestamp:  f.now,
	}
	f.messages = append(f.messages, m)
	return m
}

func (f *fakeRepo) AllInvolving(accountID uint) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.SenderID == accountID || m.ReceiverID == accountID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) Between(a, b uint) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkSeenUpTo(senderID, receiverID, maxID uint) error {
	for _, m := range f.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Seen && m.ID <= maxID {
			m.Seen = true
		}
	}
	return nil
}

func (f *fakeRepo) Create(m *models.ChatMessage) error {
	f.nextID++
	f.now = f.now.Add(time.Minute)
	m.ID = f.nextID
	m.Timestamp = f.now
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeRepo) AccountsByIDs(ids []uint) ([]models.Account, error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []models.Account
	for _, id := range ids {
		if a, ok := f.accounts[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestListConversations(t *testing.T) {
	repo := newFakeRepo()
	repo.addAccount(2, "Bina")
	repo.addAccount(3, "Chand")
	repo.addAccount(4, "Divya")

	// Conversation with 2: all seen, oldest last message.
	repo.add(1, 2, "hi", true)
	repo.add(2, 1, "hello", true)
	// Conversation with 3: one unseen, middle last message.
	repo.add(3, 1, "namaste", false)
	// Conversation with 4: all seen, newest last message.
	repo.add(4, 1, "hey", true)
	repo.add(1, 4, "hey there", true)

	s := NewService(repo)
	summaries, err := s.ListConversations(1)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Unread tier first, then ascending last-message time.
	assert.Equal(t, uint(3), summaries[0].Correspondent.ID)
	assert.True(t, summaries[0].HasUnread)
	assert.Equal(t, 1, summaries[0].UnseenCount)
	assert.Equal(t, "namaste", summaries[0].LastMessage)

	assert.Equal(t, uint(2), summaries[1].Correspondent.ID)
	assert.False(t, summaries[1].HasUnread)
	assert.Equal(t, "hello", summaries[1].LastMessage)

	assert.Equal(t, uint(4), summaries[2].Correspondent.ID)
	assert.Equal(t, "hey there", summaries[2].LastMessage)

	assert.True(t, summaries[1].LastMessageTime.Before(summaries[2].LastMessageTime))
}

func TestListConversationsCountsOnlyIncomingUnseen(t *testing.T) {
	repo := newFakeRepo()
	repo.addAccount(2, "Bina")

	// The viewer's own unseen-by-the-other-side messages must not count.
	repo.add(1, 2, "sent by viewer", false)
	repo.add(2, 1, "incoming unseen", false)
	repo.add(2, 1, "incoming seen", true)

	s := NewService(repo)
	summaries, err := s.ListConversations(1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].UnseenCount)
}

func TestOpenMarksSnapshotSeenOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.addAccount(2, "Bina")
	repo.add(2, 1, "one", false)
	repo.add(2, 1, "two", false)
	repo.add(1, 2, "reply", false)

	s := NewService(repo)
	messages, err := s.Open(1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	// Ordered by timestamp ascending.
	assert.Equal(t, "one", messages[0].Body)
	assert.Equal(t, "reply", messages[2].Body)

	// Everything from the correspondent is now seen.
	for _, m := range repo.messages {
		if m.SenderID == 2 {
			assert.True(t, m.Seen)
		}
	}
	// The viewer's own outgoing message is untouched.
	assert.False(t, repo.messages[2].Seen)

	// A message arriving after the snapshot stays unseen.
	late := repo.add(2, 1, "late", false)
	assert.False(t, late.Seen)

	summaries, err := s.ListConversations(1)
	require.NoError(t, err)
	assert.Equal(t, 1, summaries[0].UnseenCount)
}

func TestOpenAgainClearsLateMessages(t *testing.T) {
	repo := newFakeRepo()
	repo.addAccount(2, "Bina")
	repo.add(2, 1, "one", false)

	s := NewService(repo)
	_, err := s.Open(1, 2)
	require.NoError(t, err)

	repo.add(2, 1, "late", false)
	_, err = s.Open(1, 2)
	require.NoError(t, err)

	summaries, err := s.ListConversations(1)
	require.NoError(t, err)
	assert.Equal(t, 0, summaries[0].UnseenCount)
}

func TestSendMessage(t *testing.T) {
	repo := newFakeRepo()
	s := NewService(repo)

	m, err := s.SendMessage(1, 2, "hello")
	require.NoError(t, err)
	assert.False(t, m.Seen)
	assert.Equal(t, uint(1), m.SenderID)

	_, err = s.SendMessage(1, 2, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = s.SendMessage(1, 2, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	assert.Len(t, repo.messages, 1)
}

func TestUnseenSummary(t *testing.T) {
	repo := newFakeRepo()
	repo.addAccount(2, "Bina")
	repo.addAccount(3, "Chand")

	repo.add(2, 1, "a", false)
	repo.add(3, 1, "b", false)
	repo.add(3, 1, "c", false)
	repo.add(2, 1, "seen", true)

	s := NewService(repo)
	counts, err := s.UnseenSummary(1)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, uint(3), counts[0].Correspondent.ID)
	assert.Equal(t, 2, counts[0].Total)
	assert.Equal(t, uint(2), counts[1].Correspondent.ID)
	assert.Equal(t, 1, counts[1].Total)
}
