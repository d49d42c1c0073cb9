// file: service/resync_service.go

package service

import (
	"context"
	"encoding/json"
	"go-account-api/cache"
	"go-account-api/clock"
	"go-account-api/logger"
	"go-account-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// ResyncService reconciles the session cache with the token tables. The
// durable rows are the source of truth; the cache may accumulate orphans
// through deletion paths that bypass rotation (manual administrative
// deletes), so convergence comes from a full flush-and-rebuild rather than
// incremental diffing.
type ResyncService struct {
	tokenRepo repository.ITokenRepository
	store     cache.Store
	clk       clock.Clock
}

func NewResyncService(tokenRepo repository.ITokenRepository, store cache.Store, clk clock.Clock) *ResyncService {
	return &ResyncService{tokenRepo: tokenRepo, store: store, clk: clk}
}

// Run executes one resynchronization pass: sweep expired durable tokens,
// rebuild the session records from the surviving rows, then flush the cache
// and bulk-load the rebuilt set. Other cache prefixes lose their entries to
// the flush too; they repopulate on the next read, so the cost is a brief
// window of misses, never staleness.
func (s *ResyncService) Run(ctx context.Context) error {
	now := s.clk.Now()

	refreshSwept, err := s.tokenRepo.DeleteExpiredRefreshTokens(now)
	if err != nil {
		return err
	}
	resetSwept, err := s.tokenRepo.DeleteExpiredResetTokens(now)
	if err != nil {
		return err
	}

	sessions, err := s.tokenRepo.GetAllSessions()
	if err != nil {
		return err
	}

	entries := make([]cache.Entry, 0, len(sessions))
	for _, row := range sessions {
		// The TTL is the token's remaining lifetime, not a flat window: a
		// near-expiry token must not be re-cached for a fresh 24h.
		remaining := row.ExpiresAt.Sub(now)
		if remaining <= 0 {
			continue
		}

		data, err := json.Marshal(row.Session)
		if err != nil {
			// Better to rebuild the other sessions than none.
			logger.Log.WithError(err).WithField("token_id", row.TokenID).
				Error("Skipping session record that failed to serialize")
			continue
		}

		entries = append(entries, cache.Entry{
			Key:   cache.RefreshTokenKey(row.TokenID),
			Value: string(data),
			TTL:   remaining,
		})
	}

	if err := s.store.FlushAll(ctx); err != nil {
		return err
	}
	if err := s.store.SetMany(ctx, entries); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"refresh_tokens_swept": refreshSwept,
		"reset_tokens_swept":   resetSwept,
		"sessions_rebuilt":     len(entries),
	}).Info("Cache resynchronization completed")
	return nil
}

// Start runs the job on a fixed interval until ctx is cancelled. Failures
// are logged and the next tick retries; a failed pass never stops the
// schedule.
func (s *ResyncService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Run(ctx); err != nil {
					logger.Log.WithError(err).Error("Cache resynchronization failed")
				}
			}
		}
	}()
}
