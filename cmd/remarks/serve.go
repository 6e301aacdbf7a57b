package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphabot-ai/remarks/internal/auth"
	"github.com/alphabot-ai/remarks/internal/comment"
	"github.com/alphabot-ai/remarks/internal/config"
	httpapp "github.com/alphabot-ai/remarks/internal/http"
	"github.com/alphabot-ai/remarks/internal/rate"
	"github.com/alphabot-ai/remarks/internal/store"
	"github.com/alphabot-ai/remarks/internal/store/gormstore"
	"github.com/alphabot-ai/remarks/internal/store/sqlite"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the HTTP API server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg := config.Load()
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	log.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return log, nil
}

func openStore(cfg config.Config, log logrus.FieldLogger) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		st, err := gormstore.Open(cfg.MySQLDSN, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		st, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

func newLimiter(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (rate.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		return rate.NewMemory(), func() {}, nil
	}
	client, err := rate.DialRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect redis")
	}
	return rate.NewRedis(client, log), func() { _ = client.Close() }, nil
}

func runServer(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer st.Close()

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	authSvc := auth.NewService(st, auth.Options{
		Secret:     cfg.TokenSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}, log)
	server := httpapp.NewServer(comment.NewService(st, log), authSvc, limiter, cfg, log)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "db_driver": cfg.DBDriver}).Info("remarks listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server error")
	case <-stop:
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
