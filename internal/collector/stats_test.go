package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRepoStats(t *testing.T) {
	// Participation series longer than a year: only the trailing 52
	// weeks count.
	series := make([]int, 60)
	wantCommits := 0
	for i := range series {
		series[i] = i + 1
		if i >= len(series)-participationWeeks {
			wantCommits += i + 1
		}
	}

	mux := http.NewServeMux()
	registerStatsHandlers(mux, statsFixture{
		subscribers:   3,
		participation: series,
		contributors:  []int{100, 100},
		closedIssues:  4,
		pullRequests:  5,
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, throttle := newTestCollector(t, server.URL, testConfig())

	stats := c.repoStats(context.Background(), "octocat", "widget")

	if stats.Subscribers != 3 {
		t.Errorf("Subscribers = %d, want 3", stats.Subscribers)
	}
	if stats.LastYearCommits != wantCommits {
		t.Errorf("LastYearCommits = %d, want %d", stats.LastYearCommits, wantCommits)
	}
	if stats.Contributors != 200 {
		t.Errorf("Contributors = %d, want 200", stats.Contributors)
	}
	if stats.ClosedIssues != 4 {
		t.Errorf("ClosedIssues = %d, want 4", stats.ClosedIssues)
	}
	if stats.PullRequests != 5 {
		t.Errorf("PullRequests = %d, want 5", stats.PullRequests)
	}

	// One throttled wait per non-empty contributor page.
	if throttle.waitCount() != 2 {
		t.Errorf("Throttle waits = %d, want 2", throttle.waitCount())
	}
}

func TestRepoStatsAllEndpointsFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, _ := newTestCollector(t, server.URL, testConfig())

	stats := c.repoStats(context.Background(), "octocat", "widget")

	if stats != (RepoStats{}) {
		t.Errorf("repoStats() with failing endpoints = %+v, want all zero defaults", stats)
	}
}

func TestRepoStatsParticipationPending(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/widget/stats/participation", func(w http.ResponseWriter, r *http.Request) {
		// The platform answers 202 while the series is being computed.
		w.WriteHeader(http.StatusAccepted)
	})
	registerStatsHandlers(mux, statsFixture{
		subscribers:  1,
		contributors: []int{2},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, _ := newTestCollector(t, server.URL, testConfig())

	stats := c.repoStats(context.Background(), "octocat", "widget")

	if stats.LastYearCommits != 0 {
		t.Errorf("LastYearCommits = %d, want 0 for a pending series", stats.LastYearCommits)
	}
	if stats.Subscribers != 1 || stats.Contributors != 2 {
		t.Errorf("Remaining stats = %+v, want subscribers 1 and contributors 2", stats)
	}
}

func TestCountContributorsTermination(t *testing.T) {
	tests := []struct {
		name       string
		pages      map[int]int // page -> entries; missing pages answer 500
		emptyAfter int         // pages beyond this answer an empty list instead
		wantCount  int
		wantReason pageTermination
	}{
		{
			name:       "exhausted on empty page",
			pages:      map[int]int{1: 100, 2: 100},
			emptyAfter: 2,
			wantCount:  200,
			wantReason: pageExhausted,
		},
		{
			name:       "aborted on failed page",
			pages:      map[int]int{1: 100},
			emptyAfter: -1,
			wantCount:  100,
			wantReason: pageAborted,
		},
		{
			name:       "empty repository",
			pages:      map[int]int{},
			emptyAfter: 0,
			wantCount:  0,
			wantReason: pageExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/octocat/widget/contributors", func(w http.ResponseWriter, r *http.Request) {
				page := pageParam(r)
				if n, ok := tt.pages[page]; ok {
					writeJSON(w, userListJSON(n))
					return
				}
				if tt.emptyAfter >= 0 && page > tt.emptyAfter {
					writeJSON(w, userListJSON(0))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			c, _ := newTestCollector(t, server.URL, testConfig())

			count, reason := c.countContributors(context.Background(), "octocat", "widget")

			if count != tt.wantCount {
				t.Errorf("countContributors() count = %d, want %d", count, tt.wantCount)
			}
			if reason != tt.wantReason {
				t.Errorf("countContributors() reason = %v, want %v", reason, tt.wantReason)
			}
		})
	}
}

func TestSumLastWeeks(t *testing.T) {
	tests := []struct {
		name   string
		series []int
		weeks  int
		want   int
	}{
		{"empty series", nil, 52, 0},
		{"shorter than window", []int{1, 2, 3}, 52, 6},
		{"exactly the window", onesWeeks(52), 52, 52},
		{"longer than window", append([]int{100, 100}, onesWeeks(52)...), 52, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sumLastWeeks(tt.series, tt.weeks); got != tt.want {
				t.Errorf("sumLastWeeks() = %d, want %d", got, tt.want)
			}
		})
	}
}
