package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dashpulse/clients"
	"dashpulse/config"
	"dashpulse/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.IsProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if result := cfg.Validate(); !result.Valid {
		for _, verr := range result.Errors {
			logger.Error("invalid configuration",
				zap.String("field", verr.Field),
				zap.String("reason", verr.Message),
			)
		}
		os.Exit(1)
	}

	c := clients.NewClients(logger, cfg)

	render := app.NewLogRenderTarget(logger)
	signalSrc := app.StaticThemeSignal{Theme: app.ThemeDark}

	engine := app.NewEngine(logger, cfg, c, render, signalSrc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx); err != nil {
		logger.Fatal("engine exited", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
