package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration)     {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)              {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                             {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                            {}
func (n *NoopMetricsCollector) RecordLedgerEntry(string, string, decimal.Decimal) {}
func (n *NoopMetricsCollector) RecordError(string, string)                        {}
