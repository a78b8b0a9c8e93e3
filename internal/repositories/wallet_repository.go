package repositories

import (
	"context"

	"refnet/internal/models"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet and ledger persistence
type WalletRepository interface {
	// Core wallet operations
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	// GetOrCreateForUpdate creates the wallet on first use and returns it with an
	// exclusive row lock held until the surrounding transaction ends.
	GetOrCreateForUpdate(ctx context.Context, userID uint) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error

	// Ledger operations
	CreateTransaction(ctx context.Context, tx *models.WalletTransaction) error
	GetTransactionByID(ctx context.Context, id uint) (*models.WalletTransaction, error)
	HasReversal(ctx context.Context, transactionID uint) (bool, error)
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error)
	// LedgerTotal folds the user's successful entries: credits minus debits.
	LedgerTotal(ctx context.Context, userID uint) (decimal.Decimal, error)
}
