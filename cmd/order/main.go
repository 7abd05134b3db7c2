package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	ordercfg "github.com/ruslanbektulqinov01/e-commerce/internal/config"
	"github.com/ruslanbektulqinov01/e-commerce/internal/httpserver"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
	"github.com/ruslanbektulqinov01/e-commerce/internal/mykafka"
	"github.com/ruslanbektulqinov01/e-commerce/internal/repo"
	"github.com/ruslanbektulqinov01/e-commerce/internal/service"
	pkgdb "github.com/ruslanbektulqinov01/e-commerce/pkg/db"
	"github.com/ruslanbektulqinov01/e-commerce/pkg/logging"
	loggingmw "github.com/ruslanbektulqinov01/e-commerce/pkg/middleware/logging"
	"github.com/ruslanbektulqinov01/e-commerce/pkg/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := ordercfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if cfg.DBMigrate {
		if err := models.Migrate(db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	_, shutdownTracing, err := observability.SetupTracingSDK(context.Background(), cfg.OtelEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Warn("tracing_disabled", "error", err)
	}

	var events service.Publisher = service.NoopPublisher{}
	var producer *mykafka.Producer
	if cfg.EventsEnabled() {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		events = producer
	} else {
		logger.Info("order_events_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	svc := &service.OrderService{
		Repo:   &repo.GormRepo{DB: db},
		Events: events,
		Topic:  cfg.OrderEventsTopic,
	}
	handler := &httpserver.OrderHTTP{Svc: svc}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:   handler,
		JWTSecret:      cfg.JWTAccessSecret,
		DB:             db,
		OrderRateLimit: cfg.OrderRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("order_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing_shutdown_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("order_stopped")
}
