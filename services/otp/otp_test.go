package otp

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeInText = regexp.MustCompile(`\d{6}`)

// captureSender records outbound messages instead of delivering them.
type captureSender struct {
	phones []string
	texts  []string
}

func (c *captureSender) Send(_ context.Context, phone, text string) error {
	c.phones = append(c.phones, phone)
	c.texts = append(c.texts, text)
	return nil
}

func (c *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.texts)
	code := codeInText.FindString(c.texts[len(c.texts)-1])
	require.Len(t, code, 6)
	return code
}

func testService(t *testing.T, maxAttempts int, cooldown time.Duration) (*RedisService, *captureSender, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sender := &captureSender{}
	return NewRedisService(client, sender, 5*time.Minute, maxAttempts, cooldown), sender, mr
}

func TestIssueAndVerify(t *testing.T) {
	svc, sender, _ := testService(t, 3, 0)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "sess-1", "+919876543210"))
	assert.Equal(t, []string{"+919876543210"}, sender.phones)

	code := sender.lastCode(t)
	require.NoError(t, svc.Verify(ctx, "sess-1", code))

	// The record is consumed on success.
	assert.ErrorIs(t, svc.Verify(ctx, "sess-1", code), ErrExpired)
}

func TestVerifyMismatchKeepsCodeAlive(t *testing.T) {
	svc, sender, _ := testService(t, 3, 0)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "sess-2", "+919876543210"))
	code := sender.lastCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.Verify(ctx, "sess-2", wrong), ErrMismatch)
	assert.NoError(t, svc.Verify(ctx, "sess-2", code))
}

func TestVerifyAttemptLimit(t *testing.T) {
	svc, sender, _ := testService(t, 2, 0)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "sess-3", "+919876543210"))
	code := sender.lastCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.Verify(ctx, "sess-3", wrong), ErrMismatch)
	assert.ErrorIs(t, svc.Verify(ctx, "sess-3", wrong), ErrTooManyAttempts)

	// The exhausting attempt consumes the record; even the right code is
	// dead now.
	assert.ErrorIs(t, svc.Verify(ctx, "sess-3", code), ErrExpired)
}

func TestResendCooldown(t *testing.T) {
	svc, sender, _ := testService(t, 3, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "sess-4", "+919876543210"))
	assert.ErrorIs(t, svc.Resend(ctx, "sess-4", "+919876543210"), ErrResendCooldown)
	assert.Len(t, sender.texts, 1)
}

func TestResendReplacesCode(t *testing.T) {
	svc, sender, _ := testService(t, 3, 0)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "sess-5", "+919876543210"))
	first := sender.lastCode(t)

	require.NoError(t, svc.Resend(ctx, "sess-5", "+919876543210"))
	second := sender.lastCode(t)
	require.Len(t, sender.texts, 2)

	if first != second {
		assert.ErrorIs(t, svc.Verify(ctx, "sess-5", first), ErrMismatch)
	}
	assert.NoError(t, svc.Verify(ctx, "sess-5", second))
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, sender, mr := testService(t, 3, 0)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "sess-6", "+919876543210"))
	code := sender.lastCode(t)

	mr.FastForward(10 * time.Minute)
	assert.ErrorIs(t, svc.Verify(ctx, "sess-6", code), ErrExpired)
}
