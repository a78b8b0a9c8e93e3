package repositories

import (
	"context"
	"time"

	"refnet/internal/models"

	"github.com/shopspring/decimal"
)

type CommissionRepository interface {
	// Config table
	UpsertConfig(ctx context.Context, cfg *models.CommissionConfig) error
	DeleteConfig(ctx context.Context, level int) (bool, error)
	ListConfigs(ctx context.Context) ([]models.CommissionConfig, error)

	// Distribution records
	InsertRecordIfAbsent(ctx context.Context, record *models.CommissionRecord) (bool, error)
	MarkApproved(ctx context.Context, id uint, at time.Time) error
	ListRecordsByOrder(ctx context.Context, orderID string) ([]models.CommissionRecord, error)
	// ApprovedEarningsByDownline sums approved commissions paid to uplineID, keyed by the
	// downline that generated them.
	ApprovedEarningsByDownline(ctx context.Context, uplineID uint) (map[uint]decimal.Decimal, error)
}
