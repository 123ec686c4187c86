package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Blaxzter/secret-santa/internal/config"
	"github.com/Blaxzter/secret-santa/internal/http/router"
	"github.com/Blaxzter/secret-santa/internal/infrastructure/nower"
	"github.com/Blaxzter/secret-santa/internal/infrastructure/randomizer"
	"github.com/Blaxzter/secret-santa/internal/infrastructure/tokener"
	"github.com/Blaxzter/secret-santa/internal/repository"
	"github.com/Blaxzter/secret-santa/internal/service"
)

// connectBackoff паузы перед попытками подключения к БД.
var connectBackoff = []time.Duration{0, time.Second, 2 * time.Second, 5 * time.Second}

// App владеет HTTP-сервером и хранилищем.
type App struct {
	cfg    config.Config
	server *http.Server
	repo   *repository.Storage
}

// New применяет миграции, подключается к БД и собирает HTTP-сервер.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := runMigrations(cfg.Database); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	pool, err := connectWithRetry(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool, nower.New())
	trMgr := manager.Must(trmpgx.NewDefaultFactory(pool))
	svc := service.New(repo, cfg, trMgr, randomizer.New(), tokener.New())

	handler := router.New(svc, loadSwaggerSpec(cfg.Swagger.SpecPath), cfg.CORS.AllowedOrigin)

	return &App{
		cfg:  cfg,
		repo: repo,
		server: &http.Server{
			Addr:         ":" + cfg.HTTP.Port,
			Handler:      handler.Router(),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
	}, nil
}

// Run блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	defer a.repo.Close()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", a.server.Addr,
			"draw_max_attempts", a.cfg.Draw.MaxAttempts, "draw_min_participants", a.cfg.Draw.MinParticipants)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Даём текущим запросам завершиться
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.Shutdown)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func loadSwaggerSpec(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to load swagger spec", "path", path, "error", err)
		return nil
	}
	return data
}

func runMigrations(cfg config.DatabaseConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if version, dirty, err := m.Version(); err == nil {
		slog.Info("database schema is up to date", "version", version, "dirty", dirty)
	}
	return nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolCfg.MinConns = cfg.MinConnections
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	return poolCfg, nil
}

// connectWithRetry создаёт пул и проверяет соединение, повторяя попытки по connectBackoff.
func connectWithRetry(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt, delay := range connectBackoff {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		slog.Warn("failed to connect to database, retrying", "attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("connect db: %w", lastErr)
}
