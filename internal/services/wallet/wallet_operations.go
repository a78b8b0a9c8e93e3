package wallet

import (
	"context"
	"fmt"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
	"refnet/internal/money"
	"refnet/internal/repositories"

	"github.com/shopspring/decimal"
)

// Ledger applies balance changes inside a transaction owned by the caller. Every method
// locks the wallet row first; tx must come from Store.ExecuteInTransaction.
type Ledger struct {
	metrics MetricsCollector
}

func NewLedger(metrics MetricsCollector) *Ledger {
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &Ledger{metrics: metrics}
}

// Credit adds to the available balance and appends a CREDIT entry.
func (l *Ledger) Credit(ctx context.Context, tx repositories.Store, entry Entry) (*models.WalletTransaction, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	wallet, err := tx.Wallets().GetOrCreateForUpdate(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	wallet.Available = wallet.Available.Add(entry.Amount)
	if err := tx.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}
	return l.append(ctx, tx, wallet, entry, models.DirectionCredit, nil)
}

// Debit removes from the available balance and appends a DEBIT entry.
func (l *Ledger) Debit(ctx context.Context, tx repositories.Store, entry Entry) (*models.WalletTransaction, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	wallet, err := tx.Wallets().GetOrCreateForUpdate(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	if entry.Amount.GreaterThan(wallet.Available) {
		return nil, apperrors.ErrInsufficientFunds.WithMessage(
			"insufficient available balance: have %s, need %s", wallet.Available.StringFixed(money.Scale), entry.Amount.StringFixed(money.Scale))
	}
	wallet.Available = wallet.Available.Sub(entry.Amount)
	if err := tx.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}
	return l.append(ctx, tx, wallet, entry, models.DirectionDebit, nil)
}

// MoveToLocked holds funds. No ledger entry is written.
func (l *Ledger) MoveToLocked(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) (*models.Wallet, error) {
	if !money.IsValidAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	wallet, err := tx.Wallets().GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(wallet.Available) {
		return nil, apperrors.ErrInsufficientFunds.WithMessage(
			"insufficient available balance: have %s, need %s", wallet.Available.StringFixed(money.Scale), amount.StringFixed(money.Scale))
	}
	wallet.Available = wallet.Available.Sub(amount)
	wallet.Locked = wallet.Locked.Add(amount)
	if err := tx.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// ReleaseLocked returns held funds to available. No ledger entry is written.
func (l *Ledger) ReleaseLocked(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) (*models.Wallet, error) {
	if !money.IsValidAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	wallet, err := l.lockWithHeld(ctx, tx, userID, amount)
	if err != nil {
		return nil, err
	}
	wallet.Locked = wallet.Locked.Sub(amount)
	wallet.Available = wallet.Available.Add(amount)
	if err := tx.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// FinalizeLocked removes held funds from the wallet and appends the DEBIT entry
// describing the removal.
func (l *Ledger) FinalizeLocked(ctx context.Context, tx repositories.Store, entry Entry) (*models.WalletTransaction, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	wallet, err := l.lockWithHeld(ctx, tx, entry.UserID, entry.Amount)
	if err != nil {
		return nil, err
	}
	wallet.Locked = wallet.Locked.Sub(entry.Amount)
	if err := tx.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}
	return l.append(ctx, tx, wallet, entry, models.DirectionDebit, nil)
}

// Reverse appends the opposite entry of a successful ledger entry. An entry is reversed
// at most once and reversal entries themselves cannot be reversed.
func (l *Ledger) Reverse(ctx context.Context, tx repositories.Store, transactionID uint, reason string) (*models.WalletTransaction, error) {
	original, err := tx.Wallets().GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Type == models.TransactionTypeReversal || original.Status != models.TransactionStatusSuccess {
		return nil, apperrors.ErrNotReversible
	}

	// The wallet lock serializes concurrent reversals of the same entry.
	wallet, err := tx.Wallets().GetOrCreateForUpdate(ctx, original.UserID)
	if err != nil {
		return nil, err
	}
	reversed, err := tx.Wallets().HasReversal(ctx, original.ID)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, apperrors.ErrAlreadyReversed
	}

	direction := models.DirectionCredit
	if original.Direction == models.DirectionCredit {
		direction = models.DirectionDebit
		if original.Amount.GreaterThan(wallet.Available) {
			return nil, apperrors.ErrInsufficientFunds.WithMessage(
				"cannot reverse entry %d: available balance %s is below %s", original.ID, wallet.Available.StringFixed(money.Scale), original.Amount.StringFixed(money.Scale))
		}
		wallet.Available = wallet.Available.Sub(original.Amount)
	} else {
		wallet.Available = wallet.Available.Add(original.Amount)
	}
	if err := tx.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}

	description := reason
	if description == "" {
		description = fmt.Sprintf("reversal of entry %d", original.ID)
	}
	entry := Entry{
		UserID:      original.UserID,
		Amount:      original.Amount,
		Type:        models.TransactionTypeReversal,
		ReferenceID: original.ReferenceID,
		Description: description,
	}
	return l.append(ctx, tx, wallet, entry, direction, &original.ID)
}

func (l *Ledger) lockWithHeld(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) (*models.Wallet, error) {
	wallet, err := tx.Wallets().GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(wallet.Locked) {
		return nil, apperrors.ErrInsufficientLocked.WithMessage(
			"insufficient locked balance: have %s, need %s", wallet.Locked.StringFixed(money.Scale), amount.StringFixed(money.Scale))
	}
	return wallet, nil
}

// append records the entry. BalanceAfter is the available balance once the entry applies.
func (l *Ledger) append(ctx context.Context, tx repositories.Store, wallet *models.Wallet, entry Entry, direction string, reversalOf *uint) (*models.WalletTransaction, error) {
	txn := &models.WalletTransaction{
		UserID:       entry.UserID,
		Amount:       entry.Amount,
		Direction:    direction,
		Type:         entry.Type,
		ReferenceID:  entry.ReferenceID,
		Status:       models.TransactionStatusSuccess,
		BalanceAfter: wallet.Available,
		Description:  entry.Description,
		ReversalOf:   reversalOf,
	}
	if err := tx.Wallets().CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	l.metrics.RecordLedgerEntry(txn.Type, txn.Direction, txn.Amount)
	return txn, nil
}

func validateEntry(entry Entry) error {
	if !money.IsValidAmount(entry.Amount) {
		return apperrors.ErrInvalidAmount
	}
	switch entry.Type {
	case models.TransactionTypeCommission, models.TransactionTypeWithdrawal,
		models.TransactionTypeRecharge, models.TransactionTypeReversal:
		return nil
	default:
		return apperrors.Validation("INVALID_TRANSACTION_TYPE", fmt.Sprintf("unknown transaction type %q", entry.Type))
	}
}
