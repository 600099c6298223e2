// Package main is the entry point for the interactive book viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/app"
	"github.com/Faultbox/bookmock/internal/config"
	"github.com/Faultbox/bookmock/internal/engine/window"
	"github.com/Faultbox/bookmock/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== bookmock viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		window.ShowError("bookmock", fmt.Sprintf("The viewer could not start:\n\n%v", err))
		logger.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		window.ShowError("bookmock", err.Error())
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
