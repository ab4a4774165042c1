package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client), mr
}

func TestIssueAndVerify(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	token, code, err := s.Issue(ctx, "Someone@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Len(t, code, codeLength)

	email, err := s.Verify(ctx, token, code)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", email)

	// Challenge is consumed on success.
	_, err = s.Verify(ctx, token, code)
	assert.ErrorIs(t, err, ErrChallengeInvalid)
}

func TestIssueThrottled(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Issue(ctx, "a@example.com")
	require.NoError(t, err)

	_, _, err = s.Issue(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrThrottled)

	// A different email is not affected.
	_, _, err = s.Issue(ctx, "b@example.com")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, _, err = s.Issue(ctx, "a@example.com")
	assert.NoError(t, err)
}

func TestVerifyWrongCode(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	token, code, err := s.Issue(ctx, "a@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < maxAttempts-1; i++ {
		_, err = s.Verify(ctx, token, wrong)
		assert.ErrorIs(t, err, ErrCodeInvalid)
	}

	// Final failed attempt burns the challenge.
	_, err = s.Verify(ctx, token, wrong)
	assert.ErrorIs(t, err, ErrChallengeInvalid)

	_, err = s.Verify(ctx, token, code)
	assert.ErrorIs(t, err, ErrChallengeInvalid)
}

func TestVerifyExpired(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	token, code, err := s.Issue(ctx, "a@example.com")
	require.NoError(t, err)

	mr.FastForward(15 * time.Minute)

	_, err = s.Verify(ctx, token, code)
	assert.ErrorIs(t, err, ErrChallengeInvalid)
}

func TestVerifyUnknownToken(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Verify(context.Background(), "no-such-token", "123456")
	assert.ErrorIs(t, err, ErrChallengeInvalid)
}
