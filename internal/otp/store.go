// Package otp keeps login one-time passwords in short-lived verification
// records keyed by a server-issued token. The pending email travels with
// the token, never in ambient session state.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrThrottled is returned when a code was requested again too soon.
	ErrThrottled = errors.New("too many OTP requests")
	// ErrChallengeInvalid covers unknown, consumed and exhausted challenges.
	ErrChallengeInvalid = errors.New("invalid or expired OTP challenge")
	// ErrCodeInvalid is returned on a wrong code while attempts remain.
	ErrCodeInvalid = errors.New("incorrect OTP code")
)

const (
	codeLength  = 6
	maxAttempts = 5
)

// Store issues and verifies OTP challenges backed by redis.
type Store struct {
	client      *redis.Client
	keyPrefix   string
	ttl         time.Duration
	resendAfter time.Duration
}

type challenge struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

// NewStore creates a Store with a 10 minute challenge TTL.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client:      client,
		keyPrefix:   "vivah:auth:otp",
		ttl:         10 * time.Minute,
		resendAfter: time.Minute,
	}
}

// Issue creates a challenge for the email and returns the server token and
// the plain code. The code is stored bcrypt-hashed. Repeat requests inside
// the resend window fail with ErrThrottled.
func (s *Store) Issue(ctx context.Context, email string) (string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", "", errors.New("email is required")
	}

	allowed, err := s.client.SetNX(ctx, s.resendKey(email), "1", s.resendAfter).Result()
	if err != nil {
		return "", "", err
	}
	if !allowed {
		return "", "", ErrThrottled
	}

	code, err := numericCode(codeLength)
	if err != nil {
		return "", "", fmt.Errorf("generate otp code: %w", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash otp code: %w", err)
	}

	token := uuid.NewString()
	raw, err := json.Marshal(challenge{
		Email:     email,
		CodeHash:  string(codeHash),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	})
	if err != nil {
		return "", "", err
	}
	if err := s.client.Set(ctx, s.challengeKey(token), raw, s.ttl+time.Minute).Err(); err != nil {
		return "", "", err
	}
	return token, code, nil
}

// Verify checks the code against the challenge for the token. On success
// the challenge is consumed and the pending email is returned.
func (s *Store) Verify(ctx context.Context, token, code string) (string, error) {
	token = strings.TrimSpace(token)
	code = strings.TrimSpace(code)
	if token == "" || code == "" {
		return "", ErrChallengeInvalid
	}

	key := s.challengeKey(token)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", ErrChallengeInvalid
	}
	if err != nil {
		return "", err
	}

	var ch challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return "", fmt.Errorf("unmarshal otp challenge: %w", err)
	}
	if time.Now().UTC().After(ch.ExpiresAt) {
		_ = s.client.Del(ctx, key).Err()
		return "", ErrChallengeInvalid
	}

	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		ch.Attempts++
		if ch.Attempts >= maxAttempts {
			_ = s.client.Del(ctx, key).Err()
			return "", ErrChallengeInvalid
		}
		if updated, marshalErr := json.Marshal(ch); marshalErr == nil {
			if ttl, ttlErr := s.client.TTL(ctx, key).Result(); ttlErr == nil && ttl > 0 {
				_ = s.client.Set(ctx, key, updated, ttl).Err()
			}
		}
		return "", ErrCodeInvalid
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return ch.Email, nil
}

func (s *Store) challengeKey(token string) string {
	return fmt.Sprintf("%s:challenge:%s", s.keyPrefix, token)
}

func (s *Store) resendKey(email string) string {
	return fmt.Sprintf("%s:resend:%s", s.keyPrefix, email)
}

func numericCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
