package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/bridgeforms/cmd/mainconfig"
	"github.com/wolfman30/bridgeforms/internal/api/router"
	"github.com/wolfman30/bridgeforms/internal/app/bootstrap"
	appconfig "github.com/wolfman30/bridgeforms/internal/config"
	"github.com/wolfman30/bridgeforms/internal/http/handlers"
	"github.com/wolfman30/bridgeforms/internal/observability/metrics"
	"github.com/wolfman30/bridgeforms/internal/pipeline"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

func main() {
	// Local development reads .env; deployed environments set real variables.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting bridgeforms API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create HTTP server. WriteTimeout covers a calendar call plus an email
	// send plus the fallback write.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.CalendarTimeout + cfg.EmailTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "cors", cfg.AllowedOrigins())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildHandler wires providers, pipelines and routes. The returned cleanup
// releases the Redis connection if one was opened.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	cleanup := func() {}

	var awsCfg *aws.Config
	if cfg.NeedsAWS() {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, cleanup, fmt.Errorf("load AWS config: %w", err)
		}
		awsCfg = &loaded
	}

	sender, err := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	scheduler, err := bootstrap.BuildScheduler(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	recorder, err := bootstrap.BuildRecorder(cfg, awsCfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	builder, err := bootstrap.BuildMessageBuilder(cfg)
	if err != nil {
		return nil, cleanup, err
	}

	metricsHandler, submissionMetrics := setupSubmissionMetrics()

	contactPipeline, err := pipeline.NewContactPipeline(pipeline.ContactConfig{
		Sender:    sender,
		Recorder:  recorder,
		Builder:   builder,
		FromEmail: cfg.ContactFromEmail,
		FromName:  cfg.ContactFromName,
		To:        cfg.ContactTo,
		Bcc:       cfg.ContactBcc,
		Logger:    logger,
		Metrics:   submissionMetrics,
	})
	if err != nil {
		return nil, cleanup, err
	}
	bookingPipeline, err := pipeline.NewBookingPipeline(pipeline.BookingConfig{
		Sender:        sender,
		Scheduler:     scheduler,
		Recorder:      recorder,
		Builder:       builder,
		FromEmail:     cfg.BookingFromEmail,
		FromName:      cfg.BookingFromName,
		Bcc:           cfg.BookingBcc,
		OperatorEmail: cfg.OperatorEmail,
		Logger:        logger,
		Metrics:       submissionMetrics,
	})
	if err != nil {
		return nil, cleanup, err
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		cleanup = func() { _ = redisClient.Close() }
	}
	limiter := bootstrap.BuildRateLimiter(ctx, cfg, redisClient, logger)

	origins := cfg.AllowedOrigins()
	r := router.New(&router.Config{
		Logger:             logger,
		Submissions:        handlers.NewSubmissionHandler(contactPipeline, bookingPipeline, logger),
		System:             handlers.NewSystemHandler("bridgeforms", cfg.Env, origins),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: origins,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		Limiter:            limiter,
	})
	return r, cleanup, nil
}

func setupSubmissionMetrics() (http.Handler, *metrics.SubmissionMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewSubmissionMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}
