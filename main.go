package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"frontdesk-cloud/internal/audit"
	"frontdesk-cloud/internal/auth"
	bookingapp "frontdesk-cloud/internal/booking/application"
	bookingrepo "frontdesk-cloud/internal/booking/infrastructure/postgres"
	bookinghttp "frontdesk-cloud/internal/booking/interfaces/http"
	dedupapp "frontdesk-cloud/internal/dedup/application"
	dedup "frontdesk-cloud/internal/dedup/domain"
	deduphttp "frontdesk-cloud/internal/dedup/interfaces/http"
	"frontdesk-cloud/internal/importer"
	occupancyapp "frontdesk-cloud/internal/occupancy/application"
	occupancyhttp "frontdesk-cloud/internal/occupancy/interfaces/http"
	"frontdesk-cloud/internal/observability/metrics"
	reportsapp "frontdesk-cloud/internal/reports/application"
	reportsinterfaces "frontdesk-cloud/internal/reports/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	policy, err := bookingapp.LoadPolicy()
	if err != nil {
		logger.Fatalf("policy config error: %v", err)
	}

	repo := bookingrepo.NewRepository(db)

	bookingService, err := bookingapp.NewService(repo, policy, bookingapp.SystemClock{})
	if err != nil {
		logger.Fatalf("booking service error: %v", err)
	}
	bookingHandler, err := bookinghttp.NewHandler(bookingService, auditRepo)
	if err != nil {
		logger.Fatalf("booking handler error: %v", err)
	}

	occupancyService, err := occupancyapp.NewService(repo)
	if err != nil {
		logger.Fatalf("occupancy service error: %v", err)
	}
	occupancyHandler, err := occupancyhttp.NewHandler(occupancyService)
	if err != nil {
		logger.Fatalf("occupancy handler error: %v", err)
	}

	detector := dedup.NewDetector(
		dedup.WithMaxPerGuest(policy.Dedup.MaxPerGuest),
		dedup.WithCheckInTolerance(policy.Dedup.CheckInToleranceDays),
		dedup.WithTimeBudget(policy.Dedup.TimeBudget),
		dedup.WithProgress(policy.Dedup.ProgressInterval, func(guests int) {
			logger.Printf("dedup scan progress: guests=%d", guests)
		}),
	)
	scanService, err := dedupapp.NewScanService(repo, detector, logger)
	if err != nil {
		logger.Fatalf("dedup scan service error: %v", err)
	}
	dedupHandler, err := deduphttp.NewHandler(scanService)
	if err != nil {
		logger.Fatalf("dedup handler error: %v", err)
	}

	bookingImporter, err := importer.NewImporter(repo, policy)
	if err != nil {
		logger.Fatalf("importer error: %v", err)
	}
	importHandler, err := importer.NewHandler(bookingImporter, auditRepo)
	if err != nil {
		logger.Fatalf("import handler error: %v", err)
	}

	reportService, err := reportsapp.NewService(occupancyService)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}
	reportHandler, err := reportsinterfaces.NewHandler(reportService)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	authPolicy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), authPolicy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/bookings", bookingHandler)
	mux.Handle("/api/v1/bookings/", bookingHandler)
	mux.Handle("/api/v1/occupancy", occupancyHandler)
	mux.Handle("/api/v1/occupancy/range", occupancyHandler)
	mux.Handle("/api/v1/duplicates", dedupHandler)
	mux.Handle("/api/v1/duplicates/scan", dedupHandler)
	mux.Handle("/api/v1/imports/bookings", importHandler)
	mux.Handle("/api/v1/reports/revenue.xlsx", reportHandler)
	mux.Handle("/api/v1/reports/revenue.pdf", reportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}
