// @title Mergington Activities API
// @version 1.0
// @description List extracurricular activities and manage their rosters.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activitysignup/config"
	_ "activitysignup/docs"
	"activitysignup/internal/adapters/email"
	httpdelivery "activitysignup/internal/delivery/http"
	"activitysignup/internal/delivery/http/controllers"
	"activitysignup/internal/delivery/http/middleware"
	"activitysignup/internal/domain"
	"activitysignup/internal/repository/memory"
	"activitysignup/internal/repository/postgres"
	redisstore "activitysignup/internal/repository/redis"
	"activitysignup/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, ping, closer, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	logger.Info("activity store ready", "store", cfg.Store)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	activityService := services.NewActivityService(repo, emailService, logger)

	mux := httpdelivery.NewRouter(
		controllers.NewActivityController(logger, activityService),
		controllers.NewHealthController(logger, ping),
	)
	handler := middleware.LoggingMiddleware(logger, middleware.MetricsMiddleware(middleware.CORS(cfg.AllowedOrigins, mux)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("activity-signup listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the configured activity repository, seeding it on first use.
func openStore(ctx context.Context, cfg *config.Config) (domain.ActivityRepository, func(context.Context) error, io.Closer, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, domain.SeedActivities()); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return postgres.NewActivityRepository(db), db.PingContext, db, nil

	case config.StoreRedis:
		client := redisstore.NewClient(redisstore.Config{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		if err := redisstore.Seed(ctx, client, domain.SeedActivities()); err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redisstore.NewActivityRepository(client), ping, client, nil

	case config.StoreMemory:
		return memory.NewActivityRepository(domain.SeedActivities()), nil, nopCloser{}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown activity store %q", cfg.Store)
	}
}
