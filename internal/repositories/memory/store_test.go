package memory

import (
	"context"
	"errors"
	"testing"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
	"refnet/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		w, err := tx.Wallets().GetOrCreateForUpdate(ctx, 7)
		require.NoError(t, err)
		w.Available = decimal.NewFromInt(10)
		require.NoError(t, tx.Wallets().Update(ctx, w))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Wallets().GetByUserID(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrWalletNotFound)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return tx.ExecuteInTransaction(ctx, func(inner repositories.Store) error {
			_, err := inner.Wallets().GetOrCreateForUpdate(ctx, 7)
			return err
		})
	})
	require.NoError(t, err)

	w, err := s.Wallets().GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, w.Available.IsZero())
}

func TestInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()

	inserted, err := s.Referrals().InsertIfAbsent(ctx, &models.ReferralEdge{UplineID: 1, DownlineID: 2, Level: 1})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Referrals().InsertIfAbsent(ctx, &models.ReferralEdge{UplineID: 1, DownlineID: 2, Level: 1})
	require.NoError(t, err)
	assert.False(t, inserted)

	rec := models.CommissionRecord{OrderID: "o-1", UplineID: 1, DownlineID: 2, Level: 1, Amount: decimal.NewFromInt(5)}
	first := rec
	inserted, err = s.Commissions().InsertRecordIfAbsent(ctx, &first)
	require.NoError(t, err)
	assert.True(t, inserted)
	second := rec
	inserted, err = s.Commissions().InsertRecordIfAbsent(ctx, &second)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestListWithdrawalsFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, user := range []uint{1, 1, 2, 1} {
		req := &models.WithdrawalRequest{
			Reference: string(rune('a' + i)),
			UserID:    user,
			Amount:    decimal.NewFromInt(1),
			Status:    models.RequestPending,
		}
		require.NoError(t, s.Requests().CreateWithdrawal(ctx, req))
	}

	items, total, err := s.Requests().ListWithdrawals(ctx, models.RequestFilter{UserID: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, uint(4), items[0].ID)
}
