package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"go.uber.org/zap"
)

type sessionRecord struct {
	LastActive int64 `json:"last_active"`
}

// SessionState reports the outcome of a touch
type SessionState struct {
	LastActive    int64 `json:"last_active"`
	TimeElapsed   int64 `json:"time_elapsed"`
	TimeRemaining int64 `json:"time_remaining"`
}

// SessionGuard enforces a sliding activity timeout per principal over a
// TTL-bearing key-value store. The store is injected; Redis in production,
// an in-memory map as fallback and in tests.
type SessionGuard struct {
	store   SessionStore
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewSessionGuard creates a session guard with the given timeout
func NewSessionGuard(store SessionStore, timeout time.Duration) *SessionGuard {
	return &SessionGuard{
		store:   store,
		timeout: timeout,
		now:     time.Now,
		logger:  util.GetLogger(),
	}
}

// Touch records activity for a principal. The first touch starts the
// window; touches within the timeout refresh it; a touch after the timeout
// deletes the record and returns ErrSessionExpired.
func (g *SessionGuard) Touch(ctx context.Context, principalKey string) (*SessionState, error) {
	now := g.now().Unix()

	data, err := g.store.Get(ctx, principalKey)
	if err != nil {
		return nil, fmt.Errorf("session store get: %w", err)
	}

	if data != nil {
		var record sessionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("corrupt session record: %w", err)
		}

		elapsed := now - record.LastActive
		if elapsed > int64(g.timeout.Seconds()) {
			if err := g.store.Delete(ctx, principalKey); err != nil {
				g.logger.Warn("Failed to delete expired session",
					zap.String("key", principalKey), zap.Error(err))
			}
			util.SessionsExpiredTotal.Inc()
			return nil, fmt.Errorf("%w: inactive for %ds", models.ErrSessionExpired, elapsed)
		}

		if err := g.set(ctx, principalKey, now); err != nil {
			return nil, err
		}
		return &SessionState{
			LastActive:    now,
			TimeElapsed:   elapsed,
			TimeRemaining: int64(g.timeout.Seconds()) - elapsed,
		}, nil
	}

	if err := g.set(ctx, principalKey, now); err != nil {
		return nil, err
	}
	return &SessionState{
		LastActive:    now,
		TimeRemaining: int64(g.timeout.Seconds()),
	}, nil
}

// Revoke removes a principal's session record (logout)
func (g *SessionGuard) Revoke(ctx context.Context, principalKey string) error {
	return g.store.Delete(ctx, principalKey)
}

func (g *SessionGuard) set(ctx context.Context, key string, lastActive int64) error {
	data, err := json.Marshal(sessionRecord{LastActive: lastActive})
	if err != nil {
		return err
	}
	// Store TTL is a garbage-collection backstop, kept past the timeout so
	// a touch shortly after expiry still finds the record and reports
	// ErrSessionExpired instead of silently starting a new window.
	if err := g.store.Set(ctx, key, data, 2*g.timeout); err != nil {
		return fmt.Errorf("session store set: %w", err)
	}
	return nil
}
