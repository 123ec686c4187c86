package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Blaxzter/secret-santa/internal/app"
	"github.com/Blaxzter/secret-santa/internal/config"
	"github.com/Blaxzter/secret-santa/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.MustLoad()
	cleanup, err := setupLogger(cfg)
	if err != nil {
		log.Fatalf("setup logger: %v", err)
	}
	defer cleanup()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to init app", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("application stopped")
}

// setupLogger ставит JSON-логгер по умолчанию, обёрнутый в logging.LoggerImpl.
// Возвращаемая функция закрывает файл логов, если он открывался.
func setupLogger(cfg config.Config) (func(), error) {
	writer, closer, err := logWriter(cfg.Logging.Output)
	if err != nil {
		return nil, err
	}

	handler := slog.Handler(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(slog.New(logging.NewLoggerImpl(handler)))

	return func() {
		if closer != nil {
			_ = closer.Close()
		}
	}, nil
}

// logWriter stdout, stderr или путь до файла (директория создаётся при необходимости).
func logWriter(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "stdout", "":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
