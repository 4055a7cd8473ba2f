package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v57/github"
	"github.com/nats-io/nats.go"
	"golang.org/x/oauth2"

	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
	"github.com/LucasjsSilva/data-set-repositorios/internal/exporter"
)

// Collector gathers repository metadata for the configured languages
// and accumulates it into one dataset.
type Collector struct {
	cfg      *config.Config
	rotator  *TokenRotator
	ghClient *github.Client
	nc       *nats.Conn
	throttle Throttler
	log      *log.Logger
}

// New creates a Collector. It refuses to start without credentials and
// connects to NATS only when record streaming is configured.
func New(cfg *config.Config, logger *log.Logger) (*Collector, error) {
	rotator, err := NewTokenRotator(cfg.Tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create token rotator: %w", err)
	}

	// oauth2.NewClient would wrap the source in ReuseTokenSource and
	// pin the first token; building the transport directly keeps the
	// per-request rotation.
	httpClient := &http.Client{Transport: &oauth2.Transport{Source: rotator}}
	ghClient := github.NewClient(httpClient)

	var nc *nats.Conn
	if cfg.NATSUrl != "" {
		nc, err = nats.Connect(cfg.NATSUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
	}

	if logger == nil {
		logger = log.Default()
	}

	return &Collector{
		cfg:      cfg,
		rotator:  rotator,
		ghClient: ghClient,
		nc:       nc,
		throttle: NewFixedThrottle(cfg.ItemDelay),
		log:      logger,
	}, nil
}

// Run collects every configured language in order and writes the
// dataset exactly once at the end of the run. A run that collects
// nothing reports so and writes no file.
func (c *Collector) Run(ctx context.Context) error {
	var dataset []Record

	for i, language := range c.cfg.Languages {
		records := c.Collect(ctx, language)
		if len(records) > 0 {
			dataset = append(dataset, records...)

			if i < len(c.cfg.Languages)-1 {
				c.log.Infof("Cooling down %s before next language", c.cfg.LanguageCooldown)
				if err := c.throttle.Pause(ctx, c.cfg.LanguageCooldown); err != nil {
					return err
				}
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if len(dataset) == 0 {
		c.log.Info("No repositories collected")
		return nil
	}

	rows := make([][]string, 0, len(dataset))
	for i := range dataset {
		rows = append(rows, dataset[i].CSVRow())
	}

	writer := exporter.NewCSVWriter(c.cfg.OutputFile)
	if err := writer.Write(CSVHeader(), rows); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	c.log.Infof("Wrote %d records to %s", len(dataset), c.cfg.OutputFile)
	return nil
}

// Collect pages through the search results for one language and
// returns the enriched records in platform order. Page failures cost
// that page only; a rate-limit response additionally triggers the
// configured cooldown before the next page is attempted.
func (c *Collector) Collect(ctx context.Context, language string) []Record {
	c.log.Infof("Starting collection for language: %s", language)

	query := fmt.Sprintf("language:%s", language)
	var records []Record

	for page := 1; page <= c.cfg.Pages; page++ {
		result, resp, err := c.ghClient.Search.Repositories(ctx, query, &github.SearchOptions{
			Sort:  "stars",
			Order: "desc",
			ListOptions: github.ListOptions{
				Page:    page,
				PerPage: c.cfg.PerPage,
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return records
			}
			if isRateLimited(err, resp) {
				c.log.Warnf("Rate limited on %s page %d, cooling down %s", language, page, c.cfg.RateLimitCooldown)
				if pauseErr := c.throttle.Pause(ctx, c.cfg.RateLimitCooldown); pauseErr != nil {
					return records
				}
				continue
			}
			c.log.Errorf("Search failed for %s page %d: %v", language, page, err)
			continue
		}

		for _, repo := range result.Repositories {
			record := c.buildRecord(ctx, repo, language)
			records = append(records, record)

			if c.nc != nil {
				if err := c.publishRecord(record); err != nil {
					c.log.Errorf("Failed to publish record %s/%s: %v", record.Owner, record.Name, err)
				}
			}

			if err := c.throttle.Wait(ctx); err != nil {
				return records
			}
		}
	}

	c.log.Infof("Collected %d repositories for %s", len(records), language)
	return records
}

// Close cleanly shuts down the collector
func (c *Collector) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

// buildRecord creates the base record from search-result fields and
// merges in the owner and stats enrichments. Enrichment failures are
// logged and leave the affected fields at their defaults.
func (c *Collector) buildRecord(ctx context.Context, repo *github.Repository, language string) Record {
	record := Record{
		Name:       repo.GetName(),
		Owner:      repo.GetOwner().GetLogin(),
		Language:   repo.GetLanguage(),
		Stars:      repo.GetStargazersCount(),
		Forks:      repo.GetForksCount(),
		Watchers:   repo.GetWatchersCount(),
		OpenIssues: repo.GetOpenIssuesCount(),
		CreatedAt:  repo.GetCreatedAt().Time,
		UpdatedAt:  repo.GetUpdatedAt().Time,
		SizeKB:     repo.GetSize(),
	}
	if record.Language == "" {
		record.Language = language
	}

	profile, err := c.ownerProfile(ctx, record.Owner)
	if err != nil {
		c.log.Debugf("Owner profile unavailable for %s: %v", record.Owner, err)
	} else {
		record.OwnerType = profile.Type
		record.OwnerPublicRepos = profile.PublicRepos
		record.OwnerLocation = profile.Location
	}

	stats := c.repoStats(ctx, record.Owner, record.Name)
	record.Subscribers = stats.Subscribers
	record.CommitsLastYear = stats.LastYearCommits
	record.Contributors = stats.Contributors
	record.ClosedIssues = stats.ClosedIssues
	record.PullRequests = stats.PullRequests

	return record
}

// publishRecord streams a record to the configured NATS subject.
func (c *Collector) publishRecord(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := c.nc.Publish(c.cfg.NATSSubject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}

	return nil
}

// isRateLimited reports whether a failed search response is the
// platform's rate-limit signal (403 in any of its variants).
func isRateLimited(err error, resp *github.Response) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}
	return resp != nil && resp.StatusCode == http.StatusForbidden
}
