package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "frontdesk_"

	resultSuccess = "success"
)

var (
	registerOnce sync.Once

	bookingOps *prometheus.CounterVec

	activityTotal   *prometheus.CounterVec
	activityLatency *prometheus.HistogramVec

	dedupScanTotal      *prometheus.CounterVec
	dedupScanLatency    *prometheus.HistogramVec
	dedupComparisons    prometheus.Histogram
	dedupTruncatedTotal prometheus.Counter

	importRowsTotal *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		bookingOps = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "booking_ops_total",
				Help: "Total booking operations by op and result",
			},
			[]string{"op", "result"},
		)

		activityTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "activity_compute_total",
				Help: "Total daily activity computations by result",
			},
			[]string{"result"},
		)
		activityLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "activity_compute_latency_seconds",
				Help:    "Daily activity computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		dedupScanTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dedup_scan_total",
				Help: "Total duplicate scans by result",
			},
			[]string{"result"},
		)
		dedupScanLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dedup_scan_latency_seconds",
				Help:    "Duplicate scan latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		dedupComparisons = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dedup_scan_comparisons",
				Help:    "Pairwise comparisons performed per duplicate scan",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
		)
		dedupTruncatedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "dedup_scan_truncated_total",
				Help: "Duplicate scans cut short by the time budget",
			},
		)

		importRowsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_rows_total",
				Help: "Spreadsheet import rows by outcome",
			},
			[]string{"outcome"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			bookingOps,
			activityTotal,
			activityLatency,
			dedupScanTotal,
			dedupScanLatency,
			dedupComparisons,
			dedupTruncatedTotal,
			importRowsTotal,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// IncBookingOp counts a booking operation.
func IncBookingOp(op, result string) {
	if result == "" {
		result = resultSuccess
	}
	if bookingOps != nil {
		bookingOps.WithLabelValues(op, result).Inc()
	}
}

// ObserveActivity records a daily activity computation.
func ObserveActivity(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if activityTotal != nil {
		activityTotal.WithLabelValues(result).Inc()
	}
	if activityLatency != nil {
		activityLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveDedupScan records a duplicate scan run.
func ObserveDedupScan(result string, seconds float64, comparisons int) {
	if result == "" {
		result = resultSuccess
	}
	if dedupScanTotal != nil {
		dedupScanTotal.WithLabelValues(result).Inc()
	}
	if dedupScanLatency != nil {
		dedupScanLatency.WithLabelValues(result).Observe(seconds)
	}
	if dedupComparisons != nil && comparisons > 0 {
		dedupComparisons.Observe(float64(comparisons))
	}
}

// IncDedupTruncated counts a budget-truncated scan.
func IncDedupTruncated() {
	if dedupTruncatedTotal != nil {
		dedupTruncatedTotal.Inc()
	}
}

// AddImportRows counts imported and skipped spreadsheet rows.
func AddImportRows(imported, skipped int) {
	if importRowsTotal == nil {
		return
	}
	if imported > 0 {
		importRowsTotal.WithLabelValues("imported").Add(float64(imported))
	}
	if skipped > 0 {
		importRowsTotal.WithLabelValues("skipped").Add(float64(skipped))
	}
}

// ObserveExport records a report export.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}
