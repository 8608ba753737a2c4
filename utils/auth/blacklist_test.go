package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBlacklistDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.Group{}, &model.User{}, &model.JWTTokenBlacklist{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBlacklist(t *testing.T) {
	db := newBlacklistDB(t)
	svc := NewBlacklistService(db)
	ctx := context.Background()

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleStudent}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if revoked, _ := svc.IsTokenRevoked(ctx, "jti-1"); revoked {
		t.Fatal("fresh token reported revoked")
	}

	future := time.Now().Add(time.Hour)
	for i := 0; i < 2; i++ {
		if err := svc.RevokeToken(ctx, "jti-1", user.ID, future, "logout"); err != nil {
			t.Fatalf("RevokeToken() call %d error = %v", i+1, err)
		}
	}
	if revoked, _ := svc.IsTokenRevoked(ctx, "jti-1"); !revoked {
		t.Error("revoked token not reported")
	}

	if err := svc.RevokeToken(ctx, "jti-old", user.ID, time.Now().Add(-time.Minute), "logout"); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}
	if revoked, _ := svc.IsTokenRevoked(ctx, "jti-old"); revoked {
		t.Error("expired entry still reported revoked")
	}

	removed, err := svc.CleanupExpiredTokens(ctx)
	if err != nil || removed != 1 {
		t.Errorf("CleanupExpiredTokens() = %d, %v; want 1, nil", removed, err)
	}

	if err := svc.RevokeAllUserTokens(ctx, user.ID); err != nil {
		t.Fatalf("RevokeAllUserTokens() error = %v", err)
	}
	var reloaded model.User
	db.First(&reloaded, user.ID)
	if reloaded.TokenVersion != 1 {
		t.Errorf("token_version = %d, want 1", reloaded.TokenVersion)
	}
}
