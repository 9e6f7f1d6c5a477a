package services

import (
	"context"

	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"go.uber.org/zap"
)

// MembershipCache remembers canonical pairs known to be connected
type MembershipCache interface {
	Has(ctx context.Context, low, high uint) (bool, error)
	Remember(ctx context.Context, low, high uint) error
	ForgetUser(ctx context.Context, userID uint, peers []uint) error
}

// VisibilityGate decides whether an actor may see or act on an owner's content
type VisibilityGate struct {
	cache MembershipCache
	log   *zap.Logger
}

// NewVisibilityGate creates a gate. cache may be nil.
func NewVisibilityGate(cache MembershipCache, log *zap.Logger) *VisibilityGate {
	return &VisibilityGate{cache: cache, log: logger.OrNop(log)}
}

// CanAccess reports whether actor is the owner or is connected to the owner
func (g *VisibilityGate) CanAccess(ctx context.Context, store *repositories.Store, actor, owner uint) (bool, error) {
	if actor == owner {
		return true, nil
	}
	low, high := CanonicalPair(actor, owner)

	if g.cache != nil {
		hit, err := g.cache.Has(ctx, low, high)
		if err != nil {
			g.log.Warn("membership cache lookup failed", zap.Uint("low", low), zap.Uint("high", high), zap.Error(err))
		} else if hit {
			return true, nil
		}
	}

	connected, err := store.Connections.ConnectionExists(low, high)
	if err != nil {
		return false, err
	}
	if connected && g.cache != nil {
		if err := g.cache.Remember(ctx, low, high); err != nil {
			g.log.Warn("membership cache write failed", zap.Uint("low", low), zap.Uint("high", high), zap.Error(err))
		}
	}
	return connected, nil
}

// Authorize is CanAccess with denial reported as a Forbidden error
func (g *VisibilityGate) Authorize(ctx context.Context, store *repositories.Store, actor, owner uint) error {
	ok, err := g.CanAccess(ctx, store, actor, owner)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden("access denied: content is visible to connections only")
	}
	return nil
}

// Forget evicts every cached pair involving userID
func (g *VisibilityGate) Forget(ctx context.Context, userID uint, peers []uint) {
	if g.cache == nil {
		return
	}
	if err := g.cache.ForgetUser(ctx, userID, peers); err != nil {
		g.log.Warn("membership cache eviction failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
