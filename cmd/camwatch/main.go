// cmd/camwatch/main.go
package main

import (
	"context"
	"log"

	"github.com/mfreeman451/camwatch/pkg/config"
	"github.com/mfreeman451/camwatch/pkg/core"
	"github.com/mfreeman451/camwatch/pkg/lifecycle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	server, err := core.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", zap.Error(err))
		return err
	}

	opts := &lifecycle.ServiceOptions{
		ServiceName: "camwatch",
		Service:     server,
		ListenAddr:  cfg.ListenAddr,
		Handler:     server.Handler(),
		Logger:      logger,
	}

	return lifecycle.RunService(context.Background(), opts)
}

func newLogger(logLevel string) *zap.Logger {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		// Fallback to basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
