package validator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/LucasjsSilva/data-set-repositorios/internal/collector"
	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
)

// Checker verifies collected records against the upstream platform.
type Checker struct {
	config   *config.Config
	ghClient *github.Client
}

// NewChecker creates a new Checker instance sharing the rotated
// credential set with the collector.
func NewChecker(cfg *config.Config) (*Checker, error) {
	rotator, err := collector.NewTokenRotator(cfg.Tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create token rotator: %w", err)
	}

	httpClient := &http.Client{Transport: &oauth2.Transport{Source: rotator}}
	ghClient := github.NewClient(httpClient)

	return &Checker{
		config:   cfg,
		ghClient: ghClient,
	}, nil
}

// RepositoryExists reports whether owner/name still resolves upstream.
// A 404 is a definitive no; any other failure is returned as an error.
func (c *Checker) RepositoryExists(ctx context.Context, owner, name string) (bool, error) {
	_, resp, err := c.ghClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check repository %s/%s: %w", owner, name, err)
	}

	return true, nil
}
