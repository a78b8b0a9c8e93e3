package wallet

import (
	"context"
	"errors"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
	"refnet/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetBalance reports zeros for users whose wallet has not been created yet.
func (s *service) GetBalance(ctx context.Context, userID uint) (*models.Balance, error) {
	cached, version, cacheable := s.cachedBalance(ctx, userID)
	if cached != nil {
		return cached, nil
	}

	start := time.Now()
	wallet, err := s.store.Wallets().GetByUserID(ctx, userID)
	s.observe(OpGetBalance, start, ignoreNotFound(err))
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			return &models.Balance{UserID: userID, Available: decimal.Zero, Locked: decimal.Zero, Total: decimal.Zero}, nil
		}
		return nil, s.fail(OpGetBalance, err, zap.Uint("user_id", userID))
	}

	balance := wallet.Balance()
	if cacheable {
		s.storeBalance(ctx, balance, version)
	}
	return &balance, nil
}

// History returns ledger entries newest first.
func (s *service) History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.store.Wallets().ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, s.fail("history", err, zap.Uint("user_id", userID))
	}
	return txs, nil
}

// Reconcile folds the ledger and compares it with the wallet. A drift is returned as
// ErrLedgerMismatch together with the report.
func (s *service) Reconcile(ctx context.Context, userID uint) (*Reconciliation, error) {
	report := &Reconciliation{UserID: userID, Available: decimal.Zero, Locked: decimal.Zero}

	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		wallet, err := tx.Wallets().GetByUserID(ctx, userID)
		switch {
		case err == nil:
			report.Available, report.Locked = wallet.Available, wallet.Locked
		case !errors.Is(err, apperrors.ErrWalletNotFound):
			return err
		}

		report.LedgerTotal, err = tx.Wallets().LedgerTotal(ctx, userID)
		return err
	})
	if err != nil {
		return nil, s.fail(OpReconcile, err, zap.Uint("user_id", userID))
	}

	report.Balanced = report.Available.Add(report.Locked).Equal(report.LedgerTotal)
	if !report.Balanced {
		s.metrics.RecordError(OpReconcile, string(apperrors.KindPersistence))
		s.logger.Error("wallet does not match its ledger",
			zap.Uint("user_id", userID),
			zap.String("available", report.Available.String()),
			zap.String("locked", report.Locked.String()),
			zap.String("ledger_total", report.LedgerTotal.String()))
		return report, apperrors.ErrLedgerMismatch.WithMessage(
			"wallet of user %d holds %s but its ledger folds to %s", userID, report.Available.Add(report.Locked), report.LedgerTotal)
	}
	return report, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, apperrors.ErrWalletNotFound) {
		return nil
	}
	return err
}
