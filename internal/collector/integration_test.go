//go:build integration
// +build integration

package collector

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
)

func TestIntegrationCollectLive(t *testing.T) {
	// Skip unless real credentials are configured
	tokens := os.Getenv("GITHUB_TOKENS")
	if tokens == "" {
		t.Skip("Skipping integration test: GITHUB_TOKENS environment variable required")
	}

	cfg := &config.Config{
		Tokens:            strings.Split(tokens, ","),
		Languages:         []string{"Go"},
		Pages:             1,
		PerPage:           2,
		ItemDelay:         time.Second,
		RateLimitCooldown: 60 * time.Second,
		LanguageCooldown:  time.Second,
	}

	c, err := New(cfg, log.New(os.Stderr))
	if err != nil {
		t.Fatalf("Failed to create collector: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records := c.Collect(ctx, "Go")
	if len(records) == 0 {
		t.Fatal("Expected at least one record from a live search")
	}

	for _, record := range records {
		if record.Name == "" || record.Owner == "" {
			t.Errorf("Record missing identity: %+v", record)
		}
		if record.Stars == 0 {
			t.Errorf("Top-starred repository %s/%s reports zero stars", record.Owner, record.Name)
		}
	}

	t.Logf("Collected %d live records", len(records))
}
