package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// AttemptStore is the subset of the Redis cache brute force protection needs
type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BruteForceProtection handles brute force protection using Redis
type BruteForceProtection struct {
	store AttemptStore
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(store AttemptStore) *BruteForceProtection {
	return &BruteForceProtection{
		store: store,
	}
}

func attemptKey(ip string) string { return fmt.Sprintf("brute_force:attempts:%s", ip) }
func lockKey(ip string) string    { return fmt.Sprintf("brute_force:lock:%s", ip) }

// lockoutFor maps a failed attempt count to a progressive lockout
func lockoutFor(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		// 25+ attempts: 24 hour lockout
		return 24 * time.Hour
	case attempts >= 10:
		// 10-24 attempts: 1 hour lockout
		return time.Hour
	case attempts >= 5:
		// 5-9 attempts: 2 minute lockout
		return 2 * time.Minute
	default:
		return 0
	}
}

// CheckAndRecordAttempt middleware rejects requests from locked out IPs
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := lockKey(c.IP())

		// Check if IP is locked
		locked, err := b.store.Exists(ctx, key)
		if err != nil {
			// Don't block legitimate users due to cache issues
			return c.Next()
		}

		if locked {
			// Get TTL for retry time
			ttl, _ := b.store.TTL(ctx, key)
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = 60 // Default to 60 seconds
			}

			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt records a failed login attempt and applies progressive lockouts
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip string) error {
	// Increment attempt counter
	attempts, err := b.store.Increment(ctx, attemptKey(ip))
	if err != nil {
		// If Redis is down, just return without blocking
		return nil
	}

	// Set expiry on attempts counter (15 minute window)
	if attempts == 1 {
		_ = b.store.Expire(ctx, attemptKey(ip), 15*time.Minute)
	}

	lockDuration := lockoutFor(attempts)
	if lockDuration == 0 {
		return nil
	}

	// Apply lockout
	return b.store.Set(ctx, lockKey(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip string) error {
	return b.store.Delete(ctx, attemptKey(ip), lockKey(ip))
}
