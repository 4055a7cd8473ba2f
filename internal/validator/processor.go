package validator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/LucasjsSilva/data-set-repositorios/internal/collector"
	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
)

// Processor routes collected records to the complete or partial queue.
type Processor struct {
	config  *config.Config
	checker *Checker
	nc      *nats.Conn
	log     *log.Logger
}

// NewProcessor creates a new Processor instance
func NewProcessor(cfg *config.Config, checker *Checker, nc *nats.Conn, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{
		config:  cfg,
		checker: checker,
		nc:      nc,
		log:     logger,
	}
}

// ProcessMessage parses a record message and routes it. Records with
// both enrichment passes filled whose repository still exists upstream
// go to the complete subject; everything else goes to the partial
// subject. Checker failures degrade to partial rather than dropping
// the record.
func (p *Processor) ProcessMessage(ctx context.Context, msg *nats.Msg) error {
	var record collector.Record
	if err := json.Unmarshal(msg.Data, &record); err != nil {
		return fmt.Errorf("failed to unmarshal record message: %w", err)
	}

	if record.Owner == "" || record.Name == "" {
		return fmt.Errorf("record message is missing repository identity")
	}

	p.log.Debugf("Processing record: %s/%s", record.Owner, record.Name)

	complete := isComplete(&record)
	if complete {
		exists, err := p.checker.RepositoryExists(ctx, record.Owner, record.Name)
		if err != nil {
			p.log.Warnf("Could not verify %s/%s upstream: %v", record.Owner, record.Name, err)
			complete = false
		} else if !exists {
			p.log.Infof("Repository %s/%s no longer exists upstream", record.Owner, record.Name)
			complete = false
		}
	}

	targetSubject := p.config.PartialSubject
	if complete {
		targetSubject = p.config.CompleteSubject
	}

	if err := p.nc.Publish(targetSubject, msg.Data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", targetSubject, err)
	}

	p.log.Debugf("Routed %s/%s to %s", record.Owner, record.Name, targetSubject)
	return nil
}

// isComplete reports whether both enrichment passes filled the record:
// the owner profile sets the type, and a populated repository always
// has at least one contributor when the stats pass succeeded.
func isComplete(r *collector.Record) bool {
	return r.OwnerType != "" && r.Contributors > 0
}
