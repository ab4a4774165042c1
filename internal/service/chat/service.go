// Package chat reduces the flat message log into per-correspondent
// conversation summaries and owns the seen-flag lifecycle.
package chat

import (
	"errors"
	"sort"
	"strings"
	"time"

	"vivah/backend/internal/models"
)

var (
	// ErrEmptyMessage rejects blank message bodies.
	ErrEmptyMessage = errors.New("message body is empty")
)

// Repository is the message log's persistence surface.
type Repository interface {
	// AllInvolving returns every message the account sent or received,
	// timestamp ascending.
	AllInvolving(accountID uint) ([]models.ChatMessage, error)
	// Between returns both directions of one conversation, timestamp ascending.
	Between(a, b uint) ([]models.ChatMessage, error)
	// MarkSeenUpTo flips seen on messages from sender to receiver with
	// ID at most maxID. Messages after the read snapshot stay unseen.
	MarkSeenUpTo(senderID, receiverID, maxID uint) error
	Create(m *models.ChatMessage) error
	// AccountsByIDs loads the correspondent accounts for summaries.
	AccountsByIDs(ids []uint) ([]models.Account, error)
}

// Summary is one row of the conversation list.
type Summary struct {
	Correspondent   models.Account
	LastMessage     string
	LastMessageTime time.Time
	UnseenCount     int
	HasUnread       bool
}

// SenderCount is one row of the navbar unseen badge.
type SenderCount struct {
	Correspondent models.Account
	Total         int
}

// Moderator screens outbound message bodies before they are stored.
// Nothing is wired in yet; SendMessage only consults it when set.
type Moderator interface {
	Review(senderID uint, body string) error
}

// Service aggregates the message log.
type Service struct {
	repo      Repository
	moderator Moderator
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithModerator installs a message moderator.
func (s *Service) WithModerator(m Moderator) *Service {
	s.moderator = m
	return s
}

// ListConversations discovers the account's correspondents and computes
// last message and unseen count per correspondent. Conversations with
// unseen messages sort before the rest; inside each tier the order is
// ascending by last-message time, kept exactly as the product behaves
// today.
func (s *Service) ListConversations(accountID uint) ([]Summary, error) {
	messages, err := s.repo.AllInvolving(accountID)
	if err != nil {
		return nil, err
	}

	type agg struct {
		last   *models.ChatMessage
		unseen int
	}
	byCorrespondent := map[uint]*agg{}
	for idx := range messages {
		m := messages[idx]
		other := m.SenderID
		if other == accountID {
			other = m.ReceiverID
		}
		if other == accountID {
			continue
		}
		a := byCorrespondent[other]
		if a == nil {
			a = &agg{}
			byCorrespondent[other] = a
		}
		if a.last == nil || !m.Timestamp.Before(a.last.Timestamp) {
			a.last = &messages[idx]
		}
		if m.SenderID == other && m.ReceiverID == accountID && !m.Seen {
			a.unseen++
		}
	}

	ids := make([]uint, 0, len(byCorrespondent))
	for id := range byCorrespondent {
		ids = append(ids, id)
	}
	accounts, err := s.repo.AccountsByIDs(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(accounts))
	for _, account := range accounts {
		a := byCorrespondent[account.ID]
		if a == nil || a.last == nil {
			continue
		}
		summaries = append(summaries, Summary{
			Correspondent:   account,
			LastMessage:     a.last.Body,
			LastMessageTime: a.last.Timestamp,
			UnseenCount:     a.unseen,
			HasUnread:       a.unseen > 0,
		})
	}
	sortSummaries(summaries)
	return summaries, nil
}

// sortSummaries orders the unread tier first, then ascending by last
// message time within each tier.
func sortSummaries(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].HasUnread != summaries[j].HasUnread {
			return summaries[i].HasUnread
		}
		return summaries[i].LastMessageTime.Before(summaries[j].LastMessageTime)
	})
}

// Open returns one conversation, timestamp ascending, and marks the
// returned messages from the correspondent as seen. Messages arriving
// after this snapshot remain unseen until the next open.
func (s *Service) Open(accountID, correspondentID uint) ([]models.ChatMessage, error) {
	messages, err := s.repo.Between(accountID, correspondentID)
	if err != nil {
		return nil, err
	}

	var maxID uint
	for _, m := range messages {
		if m.SenderID == correspondentID && m.ReceiverID == accountID && m.ID > maxID {
			maxID = m.ID
		}
	}
	if maxID > 0 {
		if err := s.repo.MarkSeenUpTo(correspondentID, accountID, maxID); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// SendMessage appends to the log. Blank text is rejected; nothing else is.
func (s *Service) SendMessage(senderID, receiverID uint, body string) (*models.ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	if s.moderator != nil {
		if err := s.moderator.Review(senderID, body); err != nil {
			return nil, err
		}
	}
	m := &models.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// UnseenSummary returns per-sender unseen totals, largest first, for the
// navbar badge.
func (s *Service) UnseenSummary(accountID uint) ([]SenderCount, error) {
	messages, err := s.repo.AllInvolving(accountID)
	if err != nil {
		return nil, err
	}

	totals := map[uint]int{}
	for _, m := range messages {
		if m.ReceiverID == accountID && !m.Seen {
			totals[m.SenderID]++
		}
	}

	ids := make([]uint, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	accounts, err := s.repo.AccountsByIDs(ids)
	if err != nil {
		return nil, err
	}

	counts := make([]SenderCount, 0, len(accounts))
	for _, account := range accounts {
		counts = append(counts, SenderCount{Correspondent: account, Total: totals[account.ID]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Total > counts[j].Total
	})
	return counts, nil
}
