package commission

import (
	"time"

	"refnet/internal/models"

	"github.com/shopspring/decimal"
)

// Order is a completed, paid order reported by the order service.
type Order struct {
	OrderID string
	UserID  uint
	Amount  decimal.Decimal
}

// Distribution is the outcome of one Distribute call. Records holds only the commissions
// credited by this call; a repeated call returns none.
type Distribution struct {
	OrderID       string                    `json:"order_id"`
	UserID        uint                      `json:"user_id"`
	Records       []models.CommissionRecord `json:"records"`
	TotalCredited decimal.Decimal           `json:"total_credited"`
	Duplicates    int                       `json:"duplicates"`
}

// MetricsCollector records distribution outcomes.
type MetricsCollector interface {
	RecordDistribution(credited int, total decimal.Decimal, duration time.Duration)
	RecordDuplicate(count int)
	RecordError(operation, errType string)
}

type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordDistribution(int, decimal.Decimal, time.Duration) {}
func (n *NoopMetricsCollector) RecordDuplicate(int)                                    {}
func (n *NoopMetricsCollector) RecordError(string, string)                             {}
