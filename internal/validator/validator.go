// Package validator consumes the collected-record stream and routes
// each record to a complete or partial queue after re-checking it
// against the upstream platform.
package validator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
)

// Validator is the record validation service
type Validator struct {
	config    *config.Config
	checker   *Checker
	processor *Processor
	nc        *nats.Conn
	sub       *nats.Subscription
	log       *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a new Validator instance
func New(cfg *config.Config, logger *log.Logger) (*Validator, error) {
	if cfg.NATSUrl == "" {
		return nil, fmt.Errorf("NATS_URL is required for the validator service")
	}

	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	checker, err := NewChecker(cfg)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create checker: %w", err)
	}

	if logger == nil {
		logger = log.Default()
	}

	processor := NewProcessor(cfg, checker, nc, logger)

	ctx, cancel := context.WithCancel(context.Background())

	return &Validator{
		config:    cfg,
		checker:   checker,
		processor: processor,
		nc:        nc,
		log:       logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start begins processing messages from the record stream
func (v *Validator) Start() error {
	v.log.Info("Starting validator service...")
	v.log.Infof("Subscribing to subject: %s", v.config.SourceSubject)
	v.log.Infof("Complete records will be sent to: %s", v.config.CompleteSubject)
	v.log.Infof("Partial records will be sent to: %s", v.config.PartialSubject)

	// Drain any records queued before the service came up
	if err := v.ProcessExistingMessages(); err != nil {
		return fmt.Errorf("failed to process existing messages: %w", err)
	}

	sub, err := v.nc.Subscribe(v.config.SourceSubject, func(msg *nats.Msg) {
		v.wg.Add(1)
		go func() {
			defer v.wg.Done()

			if err := v.processor.ProcessMessage(v.ctx, msg); err != nil {
				v.log.Errorf("Error processing message: %v", err)
			}
		}()
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", v.config.SourceSubject, err)
	}

	v.sub = sub
	v.log.Info("Validator service started successfully")
	return nil
}

// ProcessExistingMessages processes any records already queued on the
// source subject at startup.
func (v *Validator) ProcessExistingMessages() error {
	if !v.config.ProcessStartupMessages {
		v.log.Info("Startup message processing disabled, skipping...")
		return nil
	}

	v.log.Infof("Processing existing messages from queue: %s", v.config.SourceSubject)

	sub, err := v.nc.SubscribeSync(v.config.SourceSubject)
	if err != nil {
		return fmt.Errorf("failed to create sync subscription for startup processing: %w", err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			v.log.Warnf("Failed to unsubscribe during startup processing: %v", err)
		}
	}()

	processedCount := 0
	timeout := 1 * time.Second // short timeout to detect an empty queue

	for {
		msg, err := sub.NextMsg(timeout)
		if err != nil {
			if err == nats.ErrTimeout {
				v.log.Infof("No more existing messages found. Processed %d messages during startup.", processedCount)
				break
			}
			return fmt.Errorf("error receiving message during startup processing: %w", err)
		}

		if err := v.processor.ProcessMessage(v.ctx, msg); err != nil {
			v.log.Errorf("Error processing startup message: %v", err)
			// Continue processing other messages even if one fails
		} else {
			processedCount++
		}
	}

	return nil
}

// Stop gracefully shuts down the validator service
func (v *Validator) Stop() {
	v.log.Info("Stopping validator service...")

	v.cancel()

	if v.sub != nil {
		if err := v.sub.Unsubscribe(); err != nil {
			v.log.Warnf("Failed to unsubscribe: %v", err)
		}
	}

	v.wg.Wait()

	if v.nc != nil {
		v.nc.Close()
	}

	v.log.Info("Validator service stopped")
}

// Wait blocks until the service is stopped
func (v *Validator) Wait() {
	<-v.ctx.Done()
}
