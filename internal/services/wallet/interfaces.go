package wallet

import (
	"context"

	"refnet/internal/models"

	"github.com/shopspring/decimal"
)

// Service defines the main wallet service interface
type Service interface {
	// Ledger operations, each in its own transaction
	Credit(ctx context.Context, entry Entry) (decimal.Decimal, error)
	Debit(ctx context.Context, entry Entry) (decimal.Decimal, error)
	MoveToLocked(ctx context.Context, userID uint, amount decimal.Decimal) error
	ReleaseLocked(ctx context.Context, userID uint, amount decimal.Decimal) error
	FinalizeLocked(ctx context.Context, entry Entry) (*models.WalletTransaction, error)
	Reverse(ctx context.Context, transactionID uint, reason string) (*models.WalletTransaction, error)

	// Reads
	GetBalance(ctx context.Context, userID uint) (*models.Balance, error)
	History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error)
	Reconcile(ctx context.Context, userID uint) (*Reconciliation, error)

	// Ledger exposes the operations for callers that own the transaction.
	Ledger() *Ledger
	// Invalidate drops cached balances. Call it after the owning transaction commits.
	Invalidate(ctx context.Context, userIDs ...uint)
}

// BalanceCache is satisfied by cache.CacheService. SetBalance must ignore a balance whose
// version predates the latest InvalidateBalance for that user.
type BalanceCache interface {
	GetBalance(ctx context.Context, userID uint) (*models.Balance, bool, error)
	BalanceVersion(ctx context.Context, userID uint) (int64, error)
	SetBalance(ctx context.Context, balance models.Balance, version int64) error
	InvalidateBalance(ctx context.Context, userIDs ...uint) error
}
