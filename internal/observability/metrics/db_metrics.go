package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "bookings_active",
			Help: "Bookings not cancelled or deleted",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM bookings WHERE status NOT IN ('cancelled','deleted')")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "bookings_uncollected",
			Help: "Active bookings with no collected payment",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM bookings WHERE status NOT IN ('cancelled','deleted') AND collected_amount <= 0")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
