package wallet

import (
	"context"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	store   repositories.Store
	cache   BalanceCache
	ledger  *Ledger
	logger  *zap.Logger
	metrics MetricsCollector
}

// NewService creates a new wallet service. cache, logger and metrics are optional.
func NewService(
	store repositories.Store,
	cache BalanceCache,
	log *zap.Logger,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		cache:   cache,
		ledger:  NewLedger(metrics),
		logger:  logger.OrNop(log).Named("wallet"),
		metrics: metrics,
	}
}

func (s *service) Ledger() *Ledger {
	return s.ledger
}

func (s *service) Credit(ctx context.Context, entry Entry) (decimal.Decimal, error) {
	var txn *models.WalletTransaction
	err := s.run(ctx, OpCredit, entry.UserID, func(tx repositories.Store) error {
		var err error
		txn, err = s.ledger.Credit(ctx, tx, entry)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return txn.BalanceAfter, nil
}

func (s *service) Debit(ctx context.Context, entry Entry) (decimal.Decimal, error) {
	var txn *models.WalletTransaction
	err := s.run(ctx, OpDebit, entry.UserID, func(tx repositories.Store) error {
		var err error
		txn, err = s.ledger.Debit(ctx, tx, entry)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return txn.BalanceAfter, nil
}

func (s *service) MoveToLocked(ctx context.Context, userID uint, amount decimal.Decimal) error {
	return s.run(ctx, OpMoveToLocked, userID, func(tx repositories.Store) error {
		_, err := s.ledger.MoveToLocked(ctx, tx, userID, amount)
		return err
	})
}

func (s *service) ReleaseLocked(ctx context.Context, userID uint, amount decimal.Decimal) error {
	return s.run(ctx, OpReleaseLocked, userID, func(tx repositories.Store) error {
		_, err := s.ledger.ReleaseLocked(ctx, tx, userID, amount)
		return err
	})
}

func (s *service) FinalizeLocked(ctx context.Context, entry Entry) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.run(ctx, OpFinalizeLocked, entry.UserID, func(tx repositories.Store) error {
		var err error
		txn, err = s.ledger.FinalizeLocked(ctx, tx, entry)
		return err
	})
	return txn, err
}

func (s *service) Reverse(ctx context.Context, transactionID uint, reason string) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	start := time.Now()
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		txn, err = s.ledger.Reverse(ctx, tx, transactionID, reason)
		return err
	})
	s.observe(OpReverse, start, err)
	if err != nil {
		return nil, s.fail(OpReverse, err, zap.Uint("transaction_id", transactionID))
	}

	s.Invalidate(ctx, txn.UserID)
	s.logger.Info("ledger entry reversed",
		zap.Uint("transaction_id", transactionID),
		zap.Uint("reversal_id", txn.ID),
		zap.Uint("user_id", txn.UserID),
		zap.String("amount", txn.Amount.String()))
	return txn, nil
}

// run executes one ledger operation in its own transaction and drops the cached balance
// once it has committed.
func (s *service) run(ctx context.Context, op string, userID uint, fn func(tx repositories.Store) error) error {
	start := time.Now()
	err := s.store.ExecuteInTransaction(ctx, fn)
	s.observe(op, start, err)
	if err != nil {
		return s.fail(op, err, zap.Uint("user_id", userID))
	}
	s.Invalidate(ctx, userID)
	return nil
}

func (s *service) observe(op string, start time.Time, err error) {
	s.metrics.RecordOperationDuration(op, time.Since(start))
	if err != nil {
		s.metrics.RecordOperationResult(op, "error")
		s.metrics.RecordError(op, string(apperrors.KindOf(err)))
		return
	}
	s.metrics.RecordOperationResult(op, "success")
}

// fail logs unexpected failures and hands domain errors back unchanged.
func (s *service) fail(op string, err error, fields ...zap.Field) error {
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.logger.Error("wallet operation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return apperrors.Wrap(err)
}
