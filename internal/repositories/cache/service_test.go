package cache

import (
	"context"
	"testing"
	"time"

	"refnet/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheService(client, time.Minute), mr
}

func TestBalanceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, found, err := svc.GetBalance(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)

	in := models.Balance{
		UserID:    3,
		Available: decimal.RequireFromString("120.50"),
		Locked:    decimal.RequireFromString("30.00"),
		Total:     decimal.RequireFromString("150.50"),
	}
	require.NoError(t, svc.SetBalance(ctx, in, 0))

	out, found, err := svc.GetBalance(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, in.Available.Equal(out.Available))
	assert.True(t, in.Total.Equal(out.Total))
}

func TestBalanceExpiresAndInvalidates(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.NoError(t, svc.SetBalance(ctx, models.Balance{UserID: 1}, 0))
	require.NoError(t, svc.SetBalance(ctx, models.Balance{UserID: 2}, 0))

	require.NoError(t, svc.InvalidateBalance(ctx, 1))
	_, found, _ := svc.GetBalance(ctx, 1)
	assert.False(t, found)

	mr.FastForward(2 * time.Minute)
	_, found, _ = svc.GetBalance(ctx, 2)
	assert.False(t, found)
}

func TestSetBalance_DropsValueReadBeforeInvalidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// reader takes the version, then loads a balance that a writer replaces and invalidates
	version, err := svc.BalanceVersion(ctx, 5)
	require.NoError(t, err)
	stale := models.Balance{UserID: 5, Available: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)}

	require.NoError(t, svc.InvalidateBalance(ctx, 5))
	require.NoError(t, svc.SetBalance(ctx, stale, version))

	_, found, err := svc.GetBalance(ctx, 5)
	require.NoError(t, err)
	assert.False(t, found)

	fresh, err := svc.BalanceVersion(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, version+1, fresh)

	current := models.Balance{UserID: 5, Available: decimal.NewFromInt(40), Total: decimal.NewFromInt(40)}
	require.NoError(t, svc.SetBalance(ctx, current, fresh))
	out, found, err := svc.GetBalance(ctx, 5)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, current.Available.Equal(out.Available))
}

func TestInvalidateBalance_BumpsEveryVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.InvalidateBalance(ctx, 1, 2))
	require.NoError(t, svc.InvalidateBalance(ctx, 2))

	v1, err := svc.BalanceVersion(ctx, 1)
	require.NoError(t, err)
	v2, err := svc.BalanceVersion(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)
}

func TestHealthCheck(t *testing.T) {
	svc, mr := newTestService(t)
	require.NoError(t, svc.HealthCheck(context.Background()))
	mr.Close()
	assert.Error(t, svc.HealthCheck(context.Background()))
}
