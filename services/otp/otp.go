// Package otp issues and verifies the one-time codes that finalize a
// booking. Codes live in Redis with the expiry as their TTL, so expiry
// needs no sweeper.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	ErrExpired         = errors.New("otp: code expired or never issued")
	ErrMismatch        = errors.New("otp: code does not match")
	ErrTooManyAttempts = errors.New("otp: attempt limit reached")
	ErrResendCooldown  = errors.New("otp: resend requested too soon")
)

const otpPrefix = "otp:code:"

// Sender delivers a text to the customer out-of-band. It carries OTP codes
// and is reused for booking reminders.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// WhatsAppSender is the delivery stub used outside production wiring; it
// logs the message instead of dialing a gateway.
type WhatsAppSender struct{}

func (WhatsAppSender) Send(_ context.Context, phone, text string) error {
	zap.L().Info("whatsapp message dispatched",
		zap.String("phone", phone),
		zap.String("text", text))
	return nil
}

type record struct {
	Code     string    `json:"code"`
	Attempts int       `json:"attempts"`
	IssuedAt time.Time `json:"issuedAt"`
}

// RedisService stores one active code per session.
type RedisService struct {
	client *redis.Client
	sender Sender

	expiry         time.Duration
	maxAttempts    int
	resendCooldown time.Duration
}

func NewRedisService(client *redis.Client, sender Sender, expiry time.Duration, maxAttempts int, resendCooldown time.Duration) *RedisService {
	return &RedisService{
		client:         client,
		sender:         sender,
		expiry:         expiry,
		maxAttempts:    maxAttempts,
		resendCooldown: resendCooldown,
	}
}

// Issue generates a fresh code for the session and delivers it. Any
// previous code for the session is replaced.
func (s *RedisService) Issue(ctx context.Context, sessionID, phone string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	rec := record{Code: code, IssuedAt: time.Now()}
	if err := s.put(ctx, sessionID, rec); err != nil {
		return err
	}
	return s.sender.Send(ctx, phone, "Your booking confirmation code is "+code)
}

// Resend re-delivers with a fresh code, enforcing the cooldown window.
func (s *RedisService) Resend(ctx context.Context, sessionID, phone string) error {
	rec, err := s.get(ctx, sessionID)
	if err == nil && time.Since(rec.IssuedAt) < s.resendCooldown {
		return ErrResendCooldown
	}
	return s.Issue(ctx, sessionID, phone)
}

// Verify checks the supplied code. The record is consumed on success and on
// the attempt that exhausts the limit; a plain mismatch keeps it alive.
func (s *RedisService) Verify(ctx context.Context, sessionID, code string) error {
	rec, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if rec.Code == code {
		if err := s.client.Del(ctx, otpPrefix+sessionID).Err(); err != nil {
			zap.L().Warn("otp cleanup failed", zap.String("sessionID", sessionID), zap.Error(err))
		}
		return nil
	}
	rec.Attempts++
	if rec.Attempts >= s.maxAttempts {
		_ = s.client.Del(ctx, otpPrefix+sessionID).Err()
		return ErrTooManyAttempts
	}
	if err := s.put(ctx, sessionID, *rec); err != nil {
		return err
	}
	return ErrMismatch
}

func (s *RedisService) get(ctx context.Context, sessionID string) (*record, error) {
	data, err := s.client.Get(ctx, otpPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrExpired
	}
	if err != nil {
		return nil, fmt.Errorf("load otp: %w", err)
	}
	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decode otp: %w", err)
	}
	return &rec, nil
}

func (s *RedisService) put(ctx context.Context, sessionID string, rec record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode otp: %w", err)
	}
	if err := s.client.Set(ctx, otpPrefix+sessionID, b, s.expiry).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
