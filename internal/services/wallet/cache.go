package wallet

import (
	"context"

	"refnet/internal/models"

	"go.uber.org/zap"
)

// NoopCache never hits. It is used when Redis is disabled.
type NoopCache struct{}

func (NoopCache) GetBalance(context.Context, uint) (*models.Balance, bool, error) {
	return nil, false, nil
}
func (NoopCache) BalanceVersion(context.Context, uint) (int64, error)      { return 0, nil }
func (NoopCache) SetBalance(context.Context, models.Balance, int64) error { return nil }
func (NoopCache) InvalidateBalance(context.Context, ...uint) error        { return nil }

func (s *service) Invalidate(ctx context.Context, userIDs ...uint) {
	if len(userIDs) == 0 {
		return
	}
	if err := s.cache.InvalidateBalance(ctx, userIDs...); err != nil {
		s.logger.Warn("failed to invalidate balance cache", zap.Uints("user_ids", userIDs), zap.Error(err))
	}
}

// cachedBalance returns the cached balance, or on a miss the version to store under.
// ok is false for the version when the cache could not be read; nothing is stored then.
func (s *service) cachedBalance(ctx context.Context, userID uint) (balance *models.Balance, version int64, ok bool) {
	balance, found, err := s.cache.GetBalance(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read balance cache", zap.Uint("user_id", userID), zap.Error(err))
		return nil, 0, false
	}
	if found {
		s.metrics.RecordCacheHit(OpGetBalance)
		return balance, 0, true
	}
	s.metrics.RecordCacheMiss(OpGetBalance)

	version, err = s.cache.BalanceVersion(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read balance version", zap.Uint("user_id", userID), zap.Error(err))
		return nil, 0, false
	}
	return nil, version, true
}

func (s *service) storeBalance(ctx context.Context, balance models.Balance, version int64) {
	if err := s.cache.SetBalance(ctx, balance, version); err != nil {
		s.logger.Warn("failed to cache balance", zap.Uint("user_id", balance.UserID), zap.Error(err))
	}
}
