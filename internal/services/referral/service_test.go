package referral

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
	"refnet/internal/repositories"
	"refnet/internal/repositories/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsers(t *testing.T, store repositories.Store, n int) []uint {
	t.Helper()
	ids := make([]uint, n)
	for i := range ids {
		u := &models.User{ReferralCode: fmt.Sprintf("CODE%02d", i), ActivationStatus: models.ActivationActivated}
		require.NoError(t, store.Users().Create(context.Background(), u))
		ids[i] = u.ID
	}
	return ids
}

// chain links ids[i] below ids[i-1].
func chain(t *testing.T, svc Service, ids []uint) {
	t.Helper()
	for i := 1; i < len(ids); i++ {
		require.NoError(t, svc.AddReferral(context.Background(), ids[i-1], ids[i]))
	}
}

func TestAddReferral_BuildsClosure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, Config{}, nil)
	ids := newUsers(t, store, 9)
	chain(t, svc, ids)

	last := ids[len(ids)-1]
	ancestors, err := store.Referrals().Ancestors(ctx, last, 100)
	require.NoError(t, err)
	require.Len(t, ancestors, DefaultMaxDepth)
	for i, edge := range ancestors {
		assert.Equal(t, i+1, edge.Level)
		assert.Equal(t, ids[len(ids)-2-i], edge.UplineID)
	}

	// The root is more than six hops above the last user.
	descendants, err := store.Referrals().Descendants(ctx, ids[0])
	require.NoError(t, err)
	for _, e := range descendants {
		assert.LessOrEqual(t, e.Level, DefaultMaxDepth)
		assert.NotEqual(t, last, e.DownlineID)
	}
}

func TestAddReferral_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, Config{}, nil)
	ids := newUsers(t, store, 3)
	chain(t, svc, ids)

	before, err := store.Referrals().Ancestors(ctx, ids[2], 6)
	require.NoError(t, err)

	err = store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		written, err := svc.AddReferralTx(ctx, tx, ids[1], ids[2])
		assert.Equal(t, 0, written)
		return err
	})
	require.NoError(t, err)

	after, err := store.Referrals().Ancestors(ctx, ids[2], 6)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAddReferral_Rejects(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, Config{}, nil)
	ids := newUsers(t, store, 3)
	chain(t, svc, ids)

	err := svc.AddReferral(ctx, ids[0], ids[0])
	assert.ErrorIs(t, err, apperrors.ErrSelfReferral)

	err = svc.AddReferral(ctx, 404, ids[1])
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// ids[0] sits above ids[2]; linking it below would close a cycle.
	err = svc.AddReferral(ctx, ids[2], ids[0])
	assert.ErrorIs(t, err, apperrors.ErrSelfReferral)
	ancestors, err := store.Referrals().Ancestors(ctx, ids[0], 6)
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestAddReferral_SecondReferrerRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, Config{}, nil)
	ids := newUsers(t, store, 4)
	x, r2, r1, u := ids[0], ids[1], ids[2], ids[3]

	require.NoError(t, svc.AddReferral(ctx, x, r2))
	require.NoError(t, svc.AddReferral(ctx, r1, u))

	err := svc.AddReferral(ctx, r2, u)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReferred)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	ancestors, err := store.Referrals().Ancestors(ctx, u, 6)
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	assert.Equal(t, r1, ancestors[0].UplineID)

	descendants, err := store.Referrals().Descendants(ctx, x)
	require.NoError(t, err)
	for _, e := range descendants {
		assert.NotEqual(t, u, e.DownlineID)
	}
}

func TestAddReferral_RejectsCycleAtMaxDepth(t *testing.T) {
	ctx := context.Background()

	for _, n := range []int{DefaultMaxDepth + 1, 2*DefaultMaxDepth + 2} {
		t.Run(fmt.Sprintf("chain of %d", n), func(t *testing.T) {
			store := memory.New()
			svc := NewService(store, Config{}, nil)
			ids := newUsers(t, store, n)
			chain(t, svc, ids)

			root, last := ids[0], ids[len(ids)-1]
			err := svc.AddReferral(ctx, last, root)
			assert.ErrorIs(t, err, apperrors.ErrSelfReferral)

			ancestors, err := store.Referrals().Ancestors(ctx, root, 100)
			require.NoError(t, err)
			assert.Empty(t, ancestors)
		})
	}
}

func TestAddReferral_ConfigurableDepth(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, Config{MaxDepth: 2}, nil)
	ids := newUsers(t, store, 4)
	chain(t, svc, ids)

	ancestors, err := store.Referrals().Ancestors(ctx, ids[3], 10)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, 2, svc.MaxDepth())
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, Config{}, nil)
	ids := newUsers(t, store, 4)
	root, a, b, c := ids[0], ids[1], ids[2], ids[3]
	require.NoError(t, svc.AddReferral(ctx, root, a))
	require.NoError(t, svc.AddReferral(ctx, a, b))
	require.NoError(t, svc.AddReferral(ctx, root, c))

	now := time.Now()
	for i, rec := range []models.CommissionRecord{
		{OrderID: "o-1", UplineID: root, DownlineID: b, Level: 2, Amount: decimal.RequireFromString("50.00"), Status: models.CommissionApproved, ApprovedAt: &now},
		{OrderID: "o-2", UplineID: root, DownlineID: b, Level: 2, Amount: decimal.RequireFromString("2.50"), Status: models.CommissionApproved, ApprovedAt: &now},
		{OrderID: "o-3", UplineID: root, DownlineID: a, Level: 1, Amount: decimal.RequireFromString("9.99"), Status: models.CommissionPending},
	} {
		rec := rec
		inserted, err := store.Commissions().InsertRecordIfAbsent(ctx, &rec)
		require.NoError(t, err, i)
		require.True(t, inserted)
	}

	overview, err := svc.Overview(ctx, root)
	require.NoError(t, err)
	require.Len(t, overview.Levels, DefaultMaxDepth)
	assert.Equal(t, 3, overview.TotalMembers)
	assert.Equal(t, "52.50", overview.TotalEarnings.StringFixed(2))

	level1 := overview.Levels[0]
	assert.Equal(t, 2, level1.Count)
	assert.True(t, level1.Earnings.IsZero(), "pending commissions are not earnings")
	assert.ElementsMatch(t, []uint{a, c}, []uint{level1.Members[0].UserID, level1.Members[1].UserID})

	level2 := overview.Levels[1]
	require.Equal(t, 1, level2.Count)
	assert.Equal(t, b, level2.Members[0].UserID)
	assert.Equal(t, "CODE02", level2.Members[0].ReferralCode)
	assert.Equal(t, "52.50", level2.Earnings.StringFixed(2))

	for _, lvl := range overview.Levels[2:] {
		assert.Zero(t, lvl.Count)
		assert.Empty(t, lvl.Members)
	}
}

func TestOverview_UnknownRoot(t *testing.T) {
	svc := NewService(memory.New(), Config{}, nil)
	_, err := svc.Overview(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
