// Package commission owns the per-level commission table and pays commissions up the
// referral chain when an order completes.
package commission

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/money"
	"refnet/internal/repositories"
	"refnet/internal/services/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxOrderIDLength = 64

type Service interface {
	UpsertConfig(ctx context.Context, level int, percent decimal.Decimal, active bool) (*models.CommissionConfig, error)
	DeleteConfig(ctx context.Context, level int) error
	ListConfigs(ctx context.Context) ([]models.CommissionConfig, error)

	// Distribute pays every applicable ancestor of order.UserID exactly once per order.
	Distribute(ctx context.Context, order Order) (*Distribution, error)
	RecordsForOrder(ctx context.Context, orderID string) ([]models.CommissionRecord, error)
}

type service struct {
	store    repositories.Store
	wallets  wallet.Service
	maxDepth int
	logger   *zap.Logger
	metrics  MetricsCollector
}

func NewService(
	store repositories.Store,
	wallets wallet.Service,
	maxDepth int,
	log *zap.Logger,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if maxDepth <= 0 {
		panic("max depth must be positive")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		store:    store,
		wallets:  wallets,
		maxDepth: maxDepth,
		logger:   logger.OrNop(log).Named("commission"),
		metrics:  metrics,
	}
}

func (s *service) UpsertConfig(ctx context.Context, level int, percent decimal.Decimal, active bool) (*models.CommissionConfig, error) {
	if err := s.validateLevel(level); err != nil {
		return nil, err
	}
	if !money.IsValidPercent(percent) {
		return nil, apperrors.ErrInvalidPercent
	}

	cfg := &models.CommissionConfig{Level: level, Percent: percent, Active: active}
	if err := s.store.Commissions().UpsertConfig(ctx, cfg); err != nil {
		return nil, s.fail("upsert_config", err)
	}
	s.logger.Info("commission config updated",
		zap.Int("level", level),
		zap.String("percent", percent.StringFixed(money.Scale)),
		zap.Bool("active", active))
	return cfg, nil
}

func (s *service) DeleteConfig(ctx context.Context, level int) error {
	if err := s.validateLevel(level); err != nil {
		return err
	}
	deleted, err := s.store.Commissions().DeleteConfig(ctx, level)
	if err != nil {
		return s.fail("delete_config", err)
	}
	if !deleted {
		return apperrors.ErrConfigNotFound.WithMessage("no commission config for level %d", level)
	}
	s.logger.Info("commission config deleted", zap.Int("level", level))
	return nil
}

func (s *service) ListConfigs(ctx context.Context) ([]models.CommissionConfig, error) {
	configs, err := s.store.Commissions().ListConfigs(ctx)
	if err != nil {
		return nil, s.fail("list_configs", err)
	}
	return configs, nil
}

func (s *service) Distribute(ctx context.Context, order Order) (*Distribution, error) {
	order.OrderID = strings.TrimSpace(order.OrderID)
	if order.OrderID == "" || len(order.OrderID) > maxOrderIDLength {
		return nil, apperrors.ErrInvalidOrder
	}
	if !money.IsValidAmount(order.Amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	start := time.Now()
	result := &Distribution{OrderID: order.OrderID, UserID: order.UserID, Records: []models.CommissionRecord{}, TotalCredited: decimal.Zero}

	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, order.UserID); err != nil {
			return err
		}

		ancestors, err := tx.Referrals().Ancestors(ctx, order.UserID, s.maxDepth)
		if err != nil {
			return err
		}
		if len(ancestors) == 0 {
			return nil
		}
		percents, err := activePercents(ctx, tx)
		if err != nil {
			return err
		}

		for _, edge := range ancestors {
			percent, ok := percents[edge.Level]
			if !ok {
				continue
			}
			amount := money.Percent(order.Amount, percent)
			if !amount.IsPositive() {
				continue
			}

			record := models.CommissionRecord{
				OrderID:     order.OrderID,
				UplineID:    edge.UplineID,
				DownlineID:  order.UserID,
				Level:       edge.Level,
				OrderAmount: order.Amount,
				Percent:     percent,
				Amount:      amount,
				Status:      models.CommissionPending,
			}
			inserted, err := tx.Commissions().InsertRecordIfAbsent(ctx, &record)
			if err != nil {
				return err
			}
			if !inserted {
				result.Duplicates++
				continue
			}
			result.Records = append(result.Records, record)
		}

		// Wallet rows are locked in ascending user order so that concurrent
		// distributions sharing ancestors cannot deadlock.
		sort.Slice(result.Records, func(i, j int) bool {
			return result.Records[i].UplineID < result.Records[j].UplineID
		})

		ledger := s.wallets.Ledger()
		for i := range result.Records {
			record := &result.Records[i]
			_, err := ledger.Credit(ctx, tx, wallet.Entry{
				UserID:      record.UplineID,
				Amount:      record.Amount,
				Type:        models.TransactionTypeCommission,
				ReferenceID: record.OrderID,
				Description: fmt.Sprintf("level %d commission from user %d", record.Level, record.DownlineID),
			})
			if err != nil {
				return err
			}

			now := time.Now()
			if err := tx.Commissions().MarkApproved(ctx, record.ID, now); err != nil {
				return err
			}
			record.Status = models.CommissionApproved
			record.ApprovedAt = &now
			result.TotalCredited = result.TotalCredited.Add(record.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("distribute", err, zap.String("order_id", order.OrderID), zap.Uint("user_id", order.UserID))
	}

	if len(result.Records) > 0 {
		uplines := make([]uint, 0, len(result.Records))
		for _, r := range result.Records {
			uplines = append(uplines, r.UplineID)
		}
		s.wallets.Invalidate(ctx, uplines...)
	}
	if result.Duplicates > 0 {
		s.metrics.RecordDuplicate(result.Duplicates)
	}
	s.metrics.RecordDistribution(len(result.Records), result.TotalCredited, time.Since(start))

	s.logger.Info("commission distributed",
		zap.String("order_id", order.OrderID),
		zap.Uint("user_id", order.UserID),
		zap.String("order_amount", order.Amount.StringFixed(money.Scale)),
		zap.Int("credited", len(result.Records)),
		zap.Int("duplicates", result.Duplicates),
		zap.String("total", result.TotalCredited.StringFixed(money.Scale)))
	return result, nil
}

func (s *service) RecordsForOrder(ctx context.Context, orderID string) ([]models.CommissionRecord, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperrors.ErrInvalidOrder
	}
	records, err := s.store.Commissions().ListRecordsByOrder(ctx, orderID)
	if err != nil {
		return nil, s.fail("records_for_order", err, zap.String("order_id", orderID))
	}
	return records, nil
}

func (s *service) validateLevel(level int) error {
	if level < 1 || level > s.maxDepth {
		return apperrors.ErrInvalidLevel.WithMessage("level must be between 1 and %d", s.maxDepth)
	}
	return nil
}

func (s *service) fail(op string, err error, fields ...zap.Field) error {
	s.metrics.RecordError(op, string(apperrors.KindOf(err)))
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.logger.Error("commission operation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return apperrors.Wrap(err)
}

func activePercents(ctx context.Context, tx repositories.Store) (map[int]decimal.Decimal, error) {
	configs, err := tx.Commissions().ListConfigs(ctx)
	if err != nil {
		return nil, err
	}
	percents := make(map[int]decimal.Decimal, len(configs))
	for _, c := range configs {
		if c.Active {
			percents[c.Level] = c.Percent
		}
	}
	return percents, nil
}
