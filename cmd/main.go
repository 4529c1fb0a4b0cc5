package main

import (
	"context"
	"credit-report-engine/internal/api"
	"credit-report-engine/internal/api/handler"
	"credit-report-engine/internal/api/middleware"
	"credit-report-engine/internal/batch"
	"credit-report-engine/internal/config"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/event"
	"credit-report-engine/internal/infrastructure/database/mongodb"
	"credit-report-engine/internal/infrastructure/database/postgres"
	"credit-report-engine/internal/infrastructure/logging"
	"credit-report-engine/internal/render"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title Credit Report Engine API
// @version 1.0
// @description Builds borrower credit reports from loan and repayment history and renders them as JSON, CSV or PDF.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	accessor, closeStore, err := initializeDataAccessor(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	rabbitMQConn := setupRabbitMQ(cfg, logger)
	publisher := initializePublisher(cfg, rabbitMQConn, logger)

	reportHandler, err := initializeReportHandler(cfg, accessor, publisher, logger)
	if err != nil {
		logger.Error("Failed to initialize report pipeline", "error", err)
		os.Exit(1)
	}

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	sweepJob := batch.NewStaleReportSweepJob(cfg.Report.OutputDir, cfg.Batch.MaxFileAge, logger)
	cronScheduler := startBatchJobs(cfg, logger, sweepJob)
	router := api.SetupRouter(rateLimiter, reportHandler, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rateLimiter, rabbitMQConn, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed(), "driver", cfg.Database.Driver)

	return cfg, logger
}

// initializeDataAccessor connects the configured store and returns the accessor
// over it together with a function that releases the connection.
func initializeDataAccessor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (report.DataAccessor, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres, "":
		logger.Info("Initializing database connection pool...")
		dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		accessor := report.NewRepositoryAccessor(
			postgres.NewBorrowerRepository(dbPool, logger),
			postgres.NewLoanRepository(dbPool, logger),
			postgres.NewRepaymentRepository(dbPool, logger),
		)
		return accessor, func() {
			logger.Info("Closing database connection pool...")
			dbPool.Close()
		}, nil

	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.Database.Mongo, logger)
		if err != nil {
			return nil, nil, err
		}
		accessor := mongodb.NewAccessor(client.Database(cfg.Database.Mongo.Database), logger)
		return accessor, func() {
			logger.Info("Disconnecting MongoDB client...")
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error("Failed to disconnect MongoDB client gracefully", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q, expected %s or %s", cfg.Database.Driver, config.DriverPostgres, config.DriverMongo)
}

func initializeReportHandler(cfg *config.Config, accessor report.DataAccessor, publisher event.ReportPublisher, logger *slog.Logger) (*handler.ReportHandler, error) {
	logger.Info("Initializing application components...")
	scorer, err := report.ScoreModelByName(cfg.Report.ScoreModel)
	if err != nil {
		return nil, err
	}
	theme, err := render.NewTheme(cfg.Report)
	if err != nil {
		return nil, err
	}
	logger.Info("Report pipeline configured", "score_model", scorer.Name(), "output_dir", cfg.Report.OutputDir)

	reportService := report.NewReportService(accessor, scorer, logger)
	renderers := render.NewSet(
		render.NewCSVRenderer(logger),
		render.NewDocumentRenderer(theme, logger),
	)
	exporter := render.NewExporter(cfg.Report.OutputDir, logger)
	return handler.NewReportHandler(reportService, renderers, exporter, publisher, logger), nil
}

func initializePublisher(cfg *config.Config, rabbitConn *amqp.Connection, logger *slog.Logger) event.ReportPublisher {
	if rabbitConn == nil {
		logger.Info("Report events disabled, using no-op publisher.")
		return event.NopPublisher{}
	}
	publisher, err := event.NewRabbitMQEventPublisher(event.AMQPConnection(rabbitConn), cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Warn("Failed to initialize RabbitMQ publisher, report events disabled", "error", err)
		return event.NopPublisher{}
	}
	return publisher
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rateLimiter *middleware.RateLimiterMiddleware, rabbitConn *amqp.Connection,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	shutdownHTTPServer(srv, serverErrors, logger)
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	closeRabbitMQConnection(rabbitConn, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
		return
	}
	if rabbitConn.IsClosed() {
		logger.Info("RabbitMQ connection already closed, skipping close.")
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := rabbitConn.Close(); err != nil {
		logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
	} else {
		logger.Info("RabbitMQ connection closed.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, sweepJob *batch.StaleReportSweepJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.SweepSchedule
	if scheduleSpec == "" {
		scheduleSpec = "*/30 * * * *"
		logger.Warn("Stale report sweep schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.Timeout
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "StaleReportSweep")
		jobLogger.Info("Cron triggered: Running stale report sweep.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if removed, runErr := sweepJob.Run(ctx); runErr != nil {
			jobLogger.Error("Stale report sweep finished with error", slog.Int("removed", removed), slog.Any("error", runErr))
		} else {
			jobLogger.Info("Stale report sweep finished successfully.", slog.Int("removed", removed))
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule stale report sweep", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled stale report sweep", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func connectRabbitMQ(uri string, retryCount int, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		if i < retryCount {
			time.Sleep(time.Duration(i*2) * time.Second)
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

// setupRabbitMQ returns nil when events are disabled or the broker is
// unreachable; report generation does not depend on the broker.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		return nil
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("RabbitMQ enabled but no URL configured, report events disabled")
		return nil
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL, 5, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil
	}
	return conn
}
