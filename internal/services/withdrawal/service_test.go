package withdrawal

import (
	"context"
	"testing"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
	"refnet/internal/repositories/memory"
	"refnet/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bank = map[string]interface{}{"bank": "ACME", "account": "0012345678", "holder": "J. Doe"}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	svc     Service
	wallets wallet.Service
	userID  uint
}

// newFixture returns a user holding 300.00 available.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	u := &models.User{ReferralCode: "W1", ActivationStatus: models.ActivationActivated}
	require.NoError(t, store.Users().Create(ctx, u))

	wallets := wallet.NewService(store, nil, nil, nil)
	_, err := wallets.Credit(ctx, wallet.Entry{UserID: u.ID, Amount: d("300"), Type: models.TransactionTypeCommission, ReferenceID: "seed"})
	require.NoError(t, err)
	return &fixture{svc: NewService(store, wallets, nil), wallets: wallets, userID: u.ID}
}

func (f *fixture) balance(t *testing.T) (available, locked string) {
	t.Helper()
	b, err := f.wallets.GetBalance(context.Background(), f.userID)
	require.NoError(t, err)
	return b.Available.StringFixed(2), b.Locked.StringFixed(2)
}

func (f *fixture) reconciled(t *testing.T) {
	t.Helper()
	report, err := f.wallets.Reconcile(context.Background(), f.userID)
	require.NoError(t, err)
	assert.True(t, report.Balanced)
}

func TestCreateLocksFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("200"), BankDetails: bank})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Contains(t, req.Reference, referencePrefix)
	assert.Equal(t, "ACME", req.BankDetails["bank"])

	available, locked := f.balance(t)
	assert.Equal(t, "100.00", available)
	assert.Equal(t, "200.00", locked)
	f.reconciled(t)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("200"), BankDetails: bank})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, req.ID, " paid ")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	assert.Equal(t, "paid", approved.AdminNote)
	assert.NotNil(t, approved.ProcessedAt)

	available, locked := f.balance(t)
	assert.Equal(t, "100.00", available)
	assert.Equal(t, "0.00", locked)

	history, err := f.wallets.History(ctx, f.userID, 1, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.TransactionTypeWithdrawal, history[0].Type)
	assert.Equal(t, models.DirectionDebit, history[0].Direction)
	assert.Equal(t, models.TransactionStatusSuccess, history[0].Status)
	assert.Equal(t, "200.00", history[0].Amount.StringFixed(2))
	assert.Equal(t, req.Reference, history[0].ReferenceID)
	f.reconciled(t)
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("200"), BankDetails: bank})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, req.ID, "account closed")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)

	available, locked := f.balance(t)
	assert.Equal(t, "300.00", available)
	assert.Equal(t, "0.00", locked)

	// Rejection writes no ledger entry.
	history, err := f.wallets.History(ctx, f.userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	f.reconciled(t)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("50"), BankDetails: bank})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, req.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, req.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrRequestNotPending)
	_, err = f.svc.Reject(ctx, req.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrRequestNotPending)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = f.svc.Approve(ctx, 999, "")
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("300.01"), BankDetails: bank})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	_, err = f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("0"), BankDetails: bank})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("10")})
	assert.ErrorIs(t, err, apperrors.ErrMissingPayload)

	_, err = f.svc.Create(ctx, CreateInput{UserID: 404, Amount: d("10"), BankDetails: bank})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	available, locked := f.balance(t)
	assert.Equal(t, "300.00", available)
	assert.Equal(t, "0.00", locked)

	reqs, total, err := f.svc.List(ctx, models.RequestFilter{UserID: f.userID})
	require.NoError(t, err)
	assert.Empty(t, reqs)
	assert.Zero(t, total)
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("10"), BankDetails: bank})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, CreateInput{UserID: f.userID, Amount: d("20"), BankDetails: bank})
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, first.ID, "")
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Reference, got.Reference)

	pending, total, err := f.svc.List(ctx, models.RequestFilter{Status: models.RequestPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
