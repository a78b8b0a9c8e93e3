package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry describes one balance-affecting ledger entry.
type Entry struct {
	UserID      uint
	Amount      decimal.Decimal
	Type        string
	ReferenceID string
	Description string
}

// Reconciliation compares a wallet with the fold of its ledger.
type Reconciliation struct {
	UserID      uint            `json:"user_id"`
	Available   decimal.Decimal `json:"available"`
	Locked      decimal.Decimal `json:"locked"`
	LedgerTotal decimal.Decimal `json:"ledger_total"`
	Balanced    bool            `json:"balanced"`
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Cache metrics
	RecordCacheHit(key string)
	RecordCacheMiss(key string)

	// Ledger metrics
	RecordLedgerEntry(txType, direction string, amount decimal.Decimal)
	RecordError(operation, errType string)
}
