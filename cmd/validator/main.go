package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
	"github.com/LucasjsSilva/data-set-repositorios/internal/validator"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	v, err := validator.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create validator: %v", err)
	}

	if err := v.Start(); err != nil {
		v.Stop()
		logger.Fatalf("Failed to start validator: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	v.Stop()
}
