package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/api"
	"github.com/gmllt/talentboard/internal/auth"
	"github.com/gmllt/talentboard/internal/config"
	"github.com/gmllt/talentboard/internal/events"
	"github.com/gmllt/talentboard/internal/logging"
	"github.com/gmllt/talentboard/internal/metrics"
	"github.com/gmllt/talentboard/internal/store"
	"github.com/gmllt/talentboard/internal/store/postgres"
	"github.com/gmllt/talentboard/internal/store/s3store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendS3:
		client, err := s3store.NewClient(ctx, cfg.Store.S3)
		if err != nil {
			return nil, err
		}
		st := s3store.New(client, cfg.Store.S3, logger.Named("s3"))
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendPostgres:
		return postgres.New(cfg.Store.Postgres.URL)
	default:
		logger.Warn("using the in-memory store; data is lost on exit")
		return store.NewMemory(), nil
	}
}

func openPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.Events.NATSURL == "" {
		return events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.Events.NATSURL)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing events to NATS", zap.String("url", cfg.Events.NATSURL))
	return pub, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}
	defer st.Close()

	pub, err := openPublisher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init events: %w", err)
	}
	defer pub.Close()

	users := make(map[string]string, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		users[u.Username] = u.PasswordHash
	}
	if len(users) == 0 {
		logger.Warn("no users configured; nobody can log in")
	}

	srv := api.New(api.Options{
		Store: st,
		Auth: auth.NewService(auth.Options{
			SigningKey: cfg.Auth.SigningKey,
			Issuer:     cfg.Auth.Issuer,
			AccessTTL:  cfg.Auth.AccessTTL,
			RefreshTTL: cfg.Auth.RefreshTTL,
			Users:      users,
		}),
		Events:  pub,
		Metrics: metrics.New(),
		Logger:  logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("talentboard server starting",
			zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Store.Backend))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
