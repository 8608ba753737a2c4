package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/utils/response"
)

// AttemptStore is the subset of cache operations the login throttle needs.
// *cache.RedisCache satisfies it.
type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BruteForceProtection locks out clients after repeated failed logins
type BruteForceProtection struct {
	store AttemptStore
}

// NewBruteForceProtection creates a new brute force protection instance.
// A nil store disables the protection.
func NewBruteForceProtection(store AttemptStore) *BruteForceProtection {
	return &BruteForceProtection{store: store}
}

func attemptKey(ip string) string { return "brute_force:attempts:" + ip }
func lockKey(ip string) string    { return "brute_force:lock:" + ip }

// CheckLockout middleware rejects requests from a locked out IP
func (b *BruteForceProtection) CheckLockout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil || b.store == nil {
			return c.Next()
		}

		key := lockKey(c.IP())
		locked, err := b.store.Exists(c.UserContext(), key)
		if err != nil {
			// Cache outage must not block logins.
			log.Warnf("brute force check skipped: %v", err)
			return c.Next()
		}

		if locked {
			ttl, _ := b.store.TTL(c.UserContext(), key)
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt records a failed login attempt and applies progressive lockouts
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip, identifier string) {
	if b == nil || b.store == nil {
		return
	}

	attempts, err := b.store.Increment(ctx, attemptKey(ip))
	if err != nil {
		return
	}

	// 15 minute window for the counter
	if attempts == 1 {
		_ = b.store.Expire(ctx, attemptKey(ip), 15*time.Minute)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 25:
		lockDuration = 24 * time.Hour
	case attempts >= 10:
		lockDuration = time.Hour
	case attempts >= 5:
		lockDuration = 2 * time.Minute
	default:
		return
	}

	log.Warnf("locking out %s for %s after %d failed logins (last identifier %q)",
		ip, lockDuration, attempts, strings.ToLower(identifier))
	_ = b.store.Set(ctx, lockKey(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip string) {
	if b == nil || b.store == nil {
		return
	}
	_ = b.store.Delete(ctx, attemptKey(ip), lockKey(ip))
}
