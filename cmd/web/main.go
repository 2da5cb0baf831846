package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/auth"
	"github.com/justsurfingit/jobboard-web/internal/config"
	"github.com/justsurfingit/jobboard-web/internal/database"
	"github.com/justsurfingit/jobboard-web/internal/handlers"
	"github.com/justsurfingit/jobboard-web/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Environment Variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 2. Session storage
	slots, closer, err := sessionSlots(ctx, cfg)
	if err != nil {
		log.Fatalf("session backend %s: %v", cfg.SessionBackend, err)
	}
	defer closer.Close()

	// 3. API client
	client, err := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout})
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	// 4. Router
	router := handlers.NewRouter(client, handlers.RouterConfig{
		Slots:          slots,
		CookieName:     cfg.SessionCookie,
		CookieSecure:   cfg.CookieSecure,
		SessionTTL:     cfg.SessionTTL,
		CORSOrigins:    cfg.CORSOrigins,
		WorkspaceLimit: cfg.WorkspaceLimit,
		WorkspaceIdle:  cfg.WorkspaceIdle,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("web server starting", "port", cfg.Port, "api", cfg.APIBaseURL, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// sessionSlots opens the configured session backend. The returned closer
// releases connections and stops the sweeper.
func sessionSlots(ctx context.Context, cfg *config.Config) (auth.SlotFactory, io.Closer, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return auth.RedisSlots(rdb, cfg.SessionTTL), rdb, nil

	case config.BackendPostgres, config.BackendSQLite:
		db, err := database.Connect(cfg.SessionBackend, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sweeper := scheduler.New(cfg.SweepSpec, scheduler.ExpiredRows(db))
		if err := sweeper.Start(ctx); err != nil {
			return nil, nil, err
		}
		return auth.GormSlots(db, cfg.SessionTTL), closerFunc(func() error {
			sweeper.Stop()
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}), nil

	default:
		slog.Info("using file session slots", "dir", cfg.SessionDir)
		sweeper := scheduler.New(cfg.SweepSpec, scheduler.StaleFiles(cfg.SessionDir, cfg.SessionTTL))
		if err := sweeper.Start(ctx); err != nil {
			return nil, nil, err
		}
		return auth.FileSlots(cfg.SessionDir), closerFunc(func() error {
			sweeper.Stop()
			return nil
		}), nil
	}
}
