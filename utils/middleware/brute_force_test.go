package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type memoryStore struct {
	values map[string]string
	counts map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, counts: map[string]int64{}}
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *memoryStore) TTL(context.Context, string) (time.Duration, error) {
	return 90 * time.Second, nil
}

func (m *memoryStore) Increment(_ context.Context, key string) (int64, error) {
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryStore) Expire(context.Context, string, time.Duration) error { return nil }

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
		delete(m.counts, k)
	}
	return nil
}

func TestBruteForceLockout(t *testing.T) {
	store := newMemoryStore()
	bf := NewBruteForceProtection(store)

	app := fiber.New()
	app.Post("/login", bf.CheckLockout(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	var ip string
	app.Post("/fail", func(c *fiber.Ctx) error {
		ip = c.IP()
		bf.RecordFailedAttempt(c.UserContext(), ip, "someone")
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := app.Test(httptest.NewRequest("POST", "/fail", nil)); err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status after 4 failures = %d, want 200", resp.StatusCode)
	}

	bf.RecordFailedAttempt(ctx, ip, "someone")
	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("status after 5 failures = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "90" {
		t.Errorf("Retry-After = %q, want 90", resp.Header.Get("Retry-After"))
	}

	bf.RecordSuccessfulAttempt(ctx, ip)
	resp, _ = app.Test(httptest.NewRequest("POST", "/login", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status after reset = %d, want 200", resp.StatusCode)
	}
}

func TestBruteForceDisabledWithoutStore(t *testing.T) {
	bf := NewBruteForceProtection(nil)
	bf.RecordFailedAttempt(context.Background(), "1.2.3.4", "x")

	app := fiber.New()
	app.Post("/login", bf.CheckLockout(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected response %v %v", resp, err)
	}
}
