// file: service/resync_service_test.go

package service

import (
	"context"
	"encoding/json"
	"go-account-api/cache"
	"go-account-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// After a pass the cache holds exactly one record per live refresh token:
// expired rows are swept, orphaned cache entries disappear, and each
// rebuilt record carries the token's remaining lifetime as its TTL.
func TestResyncService_Run_Converges(t *testing.T) {
	clk := testClock()
	tokenRepo := newFakeTokenRepo()
	store := cache.NewMemoryStore(clk)
	resync := NewResyncService(tokenRepo, store, clk)
	ctx := context.Background()

	tokenRepo.userInfo[1] = model.SessionRecord{UserID: 1, UserName: "Alice", UserRole: "admin"}
	tokenRepo.userInfo[2] = model.SessionRecord{UserID: 2, UserName: "Bob", UserRole: "user"}

	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "live-a", UserID: 1, ExpiresAt: clk.Now().Add(10 * 24 * time.Hour)})
	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "live-b", UserID: 2, ExpiresAt: clk.Now().Add(30 * time.Minute)})
	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "expired", UserID: 1, ExpiresAt: clk.Now().Add(-time.Hour)})
	tokenRepo.CreateResetToken(&model.ResetToken{ID: "expired-reset", UserID: 2, ExpiresAt: clk.Now().Add(-time.Minute)})

	// Cache drift: an orphan session record whose row is long gone, plus a
	// stale read-model entry. Both must be gone after the rebuild.
	assert.NoError(t, store.Set(ctx, cache.RefreshTokenKey("orphan"), `{"user_id":9}`, time.Hour))
	assert.NoError(t, store.Set(ctx, cache.UserKey(1), "stale-read", time.Hour))

	assert.NoError(t, resync.Run(ctx))

	// Expired rows were swept from storage.
	_, err := tokenRepo.GetRefreshToken("expired")
	assert.ErrorIs(t, err, errNoRows())
	_, err = tokenRepo.GetResetToken("expired-reset")
	assert.ErrorIs(t, err, errNoRows())

	// Exactly the two live sessions survive in the cache.
	assert.Equal(t, 2, store.Len())
	_, ok, _ := store.Get(ctx, cache.RefreshTokenKey("orphan"))
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, cache.UserKey(1))
	assert.False(t, ok)

	raw, ok, _ := store.Get(ctx, cache.RefreshTokenKey("live-a"))
	assert.True(t, ok)
	var session model.SessionRecord
	assert.NoError(t, json.Unmarshal([]byte(raw), &session))
	assert.Equal(t, model.SessionRecord{UserID: 1, UserName: "Alice", UserRole: "admin"}, session)

	// TTL equals the remaining lifetime: live-b expires 30 minutes out, so
	// after 31 minutes it is gone while live-a survives.
	clk.Advance(31 * time.Minute)
	_, ok, _ = store.Get(ctx, cache.RefreshTokenKey("live-b"))
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, cache.RefreshTokenKey("live-a"))
	assert.True(t, ok)
}

// A row that expires between the sweep's timestamp and the rebuild is
// skipped rather than cached with a non-positive TTL.
func TestResyncService_Run_SkipsNonPositiveRemaining(t *testing.T) {
	clk := testClock()
	tokenRepo := newFakeTokenRepo()
	store := cache.NewMemoryStore(clk)
	resync := NewResyncService(tokenRepo, store, clk)

	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "boundary", UserID: 1, ExpiresAt: clk.Now()})

	assert.NoError(t, resync.Run(context.Background()))
	assert.Equal(t, 0, store.Len())
}

// Two consecutive passes are idempotent.
func TestResyncService_Run_Idempotent(t *testing.T) {
	clk := testClock()
	tokenRepo := newFakeTokenRepo()
	store := cache.NewMemoryStore(clk)
	resync := NewResyncService(tokenRepo, store, clk)
	ctx := context.Background()

	tokenRepo.userInfo[1] = model.SessionRecord{UserID: 1, UserName: "Alice", UserRole: "admin"}
	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "live", UserID: 1, ExpiresAt: clk.Now().Add(time.Hour)})

	assert.NoError(t, resync.Run(ctx))
	first, ok, _ := store.Get(ctx, cache.RefreshTokenKey("live"))
	assert.True(t, ok)

	assert.NoError(t, resync.Run(ctx))
	second, ok, _ := store.Get(ctx, cache.RefreshTokenKey("live"))
	assert.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Len())
}
