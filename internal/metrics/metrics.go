// Package metrics exposes Prometheus collectors for the ledger, the commission engine
// and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "refnet"

// Collector implements wallet.MetricsCollector and commission.MetricsCollector.
type Collector struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	ledgerEntries     *prometheus.CounterVec
	ledgerVolume      *prometheus.CounterVec
	errors            *prometheus.CounterVec

	distributions      prometheus.Counter
	commissionsPaid    prometheus.Counter
	commissionVolume   prometheus.Counter
	commissionDupes    prometheus.Counter
	distributeDuration prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wallet_operation_duration_seconds",
			Help:      "Duration of wallet operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_operations_total",
			Help:      "Wallet operations by result",
		}, []string{"operation", "result"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_cache_lookups_total",
			Help:      "Balance cache lookups by outcome",
		}, []string{"key", "outcome"}),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Ledger entries written",
		}, []string{"type", "direction"}),
		ledgerVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_volume_total",
			Help:      "Sum of ledger entry amounts",
		}, []string{"type", "direction"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed operations by error kind",
		}, []string{"operation", "kind"}),

		distributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_distributions_total",
			Help:      "Completed distribute calls",
		}),
		commissionsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commissions_credited_total",
			Help:      "Commission records credited to uplines",
		}),
		commissionVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_volume_total",
			Help:      "Sum of credited commissions",
		}),
		commissionDupes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_duplicates_total",
			Help:      "Commission records skipped because they already existed",
		}),
		distributeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commission_distribute_duration_seconds",
			Help:      "Duration of distribute calls",
			Buckets:   prometheus.DefBuckets,
		}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		c.operationDuration, c.operationResults, c.cacheLookups, c.ledgerEntries, c.ledgerVolume, c.errors,
		c.distributions, c.commissionsPaid, c.commissionVolume, c.commissionDupes, c.distributeDuration,
		c.httpRequests, c.httpDuration,
	)
	return c
}

// Wallet

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordOperationResult(operation, result string) {
	c.operationResults.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordCacheHit(key string) {
	c.cacheLookups.WithLabelValues(key, "hit").Inc()
}

func (c *Collector) RecordCacheMiss(key string) {
	c.cacheLookups.WithLabelValues(key, "miss").Inc()
}

func (c *Collector) RecordLedgerEntry(txType, direction string, amount decimal.Decimal) {
	c.ledgerEntries.WithLabelValues(txType, direction).Inc()
	c.ledgerVolume.WithLabelValues(txType, direction).Add(amount.InexactFloat64())
}

func (c *Collector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

// Commission

func (c *Collector) RecordDistribution(credited int, total decimal.Decimal, d time.Duration) {
	c.distributions.Inc()
	c.commissionsPaid.Add(float64(credited))
	c.commissionVolume.Add(total.InexactFloat64())
	c.distributeDuration.Observe(d.Seconds())
}

func (c *Collector) RecordDuplicate(count int) {
	c.commissionDupes.Add(float64(count))
}

// Middleware counts requests by route pattern.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		path := ctx.Route().Path
		if path == "" {
			path = "unknown"
		}
		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		c.httpRequests.WithLabelValues(ctx.Method(), path, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(ctx.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
