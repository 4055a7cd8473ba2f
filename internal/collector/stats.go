package collector

import (
	"context"
	"time"

	"github.com/google/go-github/v57/github"
)

const (
	// closedIssueWindow is the trailing window for the closed-issue count.
	closedIssueWindow = 180 * 24 * time.Hour

	// participationWeeks caps the weekly commit series at one year.
	participationWeeks = 52

	// contributorPageSize is fixed regardless of the search page size.
	contributorPageSize = 100
)

// RepoStats aggregates the activity statistics for one repository.
// Every field degrades to 0 on its own failure without aborting the
// remaining lookups.
type RepoStats struct {
	Subscribers     int
	LastYearCommits int
	Contributors    int
	ClosedIssues    int
	PullRequests    int
}

// pageTermination says why a pagination loop stopped. A non-success
// response and a genuinely empty page both terminate the loop, but are
// logged distinctly since a transient error is otherwise
// indistinguishable from true exhaustion.
type pageTermination int

const (
	pageExhausted pageTermination = iota
	pageAborted
)

func (t pageTermination) String() string {
	if t == pageAborted {
		return "aborted"
	}
	return "exhausted"
}

// repoStats fetches subscriber, commit-participation, contributor,
// closed-issue, and pull-request counts for one repository.
func (c *Collector) repoStats(ctx context.Context, owner, repo string) RepoStats {
	var stats RepoStats

	subscribers, _, err := c.ghClient.Activity.ListWatchers(ctx, owner, repo, &github.ListOptions{
		PerPage: contributorPageSize,
	})
	if err != nil {
		c.log.Debugf("Subscribers unavailable for %s/%s: %v", owner, repo, err)
	} else {
		stats.Subscribers = len(subscribers)
	}

	// A 202 means the platform is still computing the series; treated
	// as no data like any other failure.
	participation, _, err := c.ghClient.Repositories.ListParticipation(ctx, owner, repo)
	if err != nil {
		c.log.Debugf("Commit participation unavailable for %s/%s: %v", owner, repo, err)
	} else if participation != nil {
		stats.LastYearCommits = sumLastWeeks(participation.All, participationWeeks)
	}

	count, reason := c.countContributors(ctx, owner, repo)
	stats.Contributors = count
	c.log.Debugf("Contributor pagination for %s/%s %s after %d entries", owner, repo, reason, count)

	since := time.Now().UTC().Add(-closedIssueWindow)
	issues, _, err := c.ghClient.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
		State: "closed",
		Since: since,
	})
	if err != nil {
		c.log.Debugf("Closed issues unavailable for %s/%s: %v", owner, repo, err)
	} else {
		// First page only; a known undercount for popular repositories.
		stats.ClosedIssues = len(issues)
	}

	pulls, _, err := c.ghClient.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State: "all",
	})
	if err != nil {
		c.log.Debugf("Pull requests unavailable for %s/%s: %v", owner, repo, err)
	} else {
		// Same first-page caveat as closed issues.
		stats.PullRequests = len(pulls)
	}

	return stats
}

// countContributors pages through the contributors list with a fixed
// page size, throttling between pages. The loop terminates on the
// first empty page (exhausted) or the first failed request (aborted);
// the accumulated count is returned either way.
func (c *Collector) countContributors(ctx context.Context, owner, repo string) (int, pageTermination) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{Page: 1, PerPage: contributorPageSize},
	}

	total := 0
	for {
		contributors, _, err := c.ghClient.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return total, pageAborted
		}
		if len(contributors) == 0 {
			return total, pageExhausted
		}

		total += len(contributors)
		opts.Page++

		if err := c.throttle.Wait(ctx); err != nil {
			return total, pageAborted
		}
	}
}

// sumLastWeeks sums the trailing weeks entries of a weekly series,
// or the whole series when it is shorter.
func sumLastWeeks(series []int, weeks int) int {
	if len(series) > weeks {
		series = series[len(series)-weeks:]
	}
	total := 0
	for _, n := range series {
		total += n
	}
	return total
}
