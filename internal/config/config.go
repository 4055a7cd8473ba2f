package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultLanguages is the language list used when LANGUAGES is unset,
// ordered by how the dataset is usually consumed.
var DefaultLanguages = []string{
	"JavaScript", "Python", "Java", "Go", "TypeScript",
	"C++", "Ruby", "PHP", "C#", "Swift",
}

// Config holds the application configuration
type Config struct {
	Tokens     []string
	Languages  []string
	Pages      int
	PerPage    int
	OutputFile string

	// Pacing between API calls
	ItemDelay         time.Duration
	RateLimitCooldown time.Duration
	LanguageCooldown  time.Duration

	// Optional record streaming
	NATSUrl     string
	NATSSubject string

	// Optional scheduled-daemon mode
	CronSchedule string
	RunOnStartup bool

	// Validator specific configuration
	SourceSubject          string
	CompleteSubject        string
	PartialSubject         string
	ProcessStartupMessages bool
}

// Load loads configuration from environment variables. A .env file in
// the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Tokens:          splitList(os.Getenv("GITHUB_TOKENS")),
		Languages:       splitList(os.Getenv("LANGUAGES")),
		OutputFile:      os.Getenv("OUTPUT_FILE"),
		NATSUrl:         os.Getenv("NATS_URL"),
		NATSSubject:     os.Getenv("NATS_SUBJECT"),
		CronSchedule:    os.Getenv("CRON_SCHEDULE"),
		SourceSubject:   os.Getenv("SOURCE_SUBJECT"),
		CompleteSubject: os.Getenv("COMPLETE_SUBJECT"),
		PartialSubject:  os.Getenv("PARTIAL_SUBJECT"),
	}

	var err error
	if cfg.Pages, err = intEnv("PAGES", 5); err != nil {
		return nil, err
	}
	if cfg.PerPage, err = intEnv("PER_PAGE", 100); err != nil {
		return nil, err
	}
	if cfg.ItemDelay, err = durationEnv("ITEM_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitCooldown, err = durationEnv("RATE_LIMIT_COOLDOWN", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.LanguageCooldown, err = durationEnv("LANGUAGE_COOLDOWN", 300*time.Second); err != nil {
		return nil, err
	}

	// Set defaults
	if len(cfg.Languages) == 0 {
		cfg.Languages = append([]string(nil), DefaultLanguages...)
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "repository_dataset.csv"
	}
	if cfg.NATSSubject == "" {
		cfg.NATSSubject = "dataset.records"
	}
	if cfg.SourceSubject == "" {
		// The validator consumes what the collector publishes.
		cfg.SourceSubject = cfg.NATSSubject
	}
	if cfg.CompleteSubject == "" {
		cfg.CompleteSubject = "dataset.records.complete"
	}
	if cfg.PartialSubject == "" {
		cfg.PartialSubject = "dataset.records.partial"
	}

	// Validate required fields
	if len(cfg.Tokens) == 0 {
		return nil, fmt.Errorf("GITHUB_TOKENS environment variable is required (comma-separated access tokens)")
	}
	if cfg.Pages < 1 {
		return nil, fmt.Errorf("PAGES must be at least 1")
	}
	if cfg.PerPage < 1 || cfg.PerPage > 100 {
		return nil, fmt.Errorf("PER_PAGE must be between 1 and 100")
	}

	// Check if we should run on startup
	if os.Getenv("RUN_ON_STARTUP") == "true" {
		cfg.RunOnStartup = true
	}

	// Check if we should process startup messages (default: true)
	if os.Getenv("PROCESS_STARTUP_MESSAGES") == "false" {
		cfg.ProcessStartupMessages = false
	} else {
		cfg.ProcessStartupMessages = true
	}

	return cfg, nil
}

// splitList parses a comma-separated environment value, dropping empty
// entries and surrounding whitespace.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func intEnv(name string, fallback int) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return n, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 1s or 2m: %w", name, err)
	}
	return d, nil
}
