package validator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
)

func TestNewChecker(t *testing.T) {
	cfg := &config.Config{
		Tokens: []string{"test-token"},
	}

	checker, err := NewChecker(cfg)
	if err != nil {
		t.Fatalf("Expected no error creating checker, got: %v", err)
	}

	if checker == nil {
		t.Fatal("Expected checker to be created, got nil")
	}

	if checker.config != cfg {
		t.Error("Expected checker config to match input config")
	}

	if checker.ghClient == nil {
		t.Error("Expected GitHub client to be initialized")
	}
}

func TestNewCheckerWithoutTokens(t *testing.T) {
	if _, err := NewChecker(&config.Config{}); err == nil {
		t.Error("Expected error creating checker without credentials, got nil")
	}
}

func TestRepositoryExists(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{"repository present", http.StatusOK, true, false},
		{"repository gone", http.StatusNotFound, false, false},
		{"platform failure", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					fmt.Fprint(w, `{"name":"widget","owner":{"login":"octocat"}}`)
				} else {
					fmt.Fprint(w, `{"message":"error"}`)
				}
			}))
			defer server.Close()

			checker, err := NewChecker(&config.Config{Tokens: []string{"test-token"}})
			if err != nil {
				t.Fatalf("Failed to create checker: %v", err)
			}
			checker.ghClient.BaseURL = mustParseURL(server.URL + "/")

			exists, err := checker.RepositoryExists(context.Background(), "octocat", "widget")

			if tt.wantErr {
				if err == nil {
					t.Error("RepositoryExists() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("RepositoryExists() unexpected error: %v", err)
			}
			if exists != tt.want {
				t.Errorf("RepositoryExists() = %v, want %v", exists, tt.want)
			}
		})
	}
}

func mustParseURL(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse URL %s: %v", rawURL, err))
	}
	return u
}
