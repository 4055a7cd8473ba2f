package collector

import (
	"strconv"
	"time"
)

// Record is one row of the final dataset. Search-result fields are
// filled when the record is created; the owner and stats fields are
// merged in by the two enrichment passes. Counts default to 0 and text
// fields to empty when an enrichment call fails.
type Record struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Language string `json:"language,omitempty"`

	Stars       int `json:"stars"`
	Forks       int `json:"forks"`
	Watchers    int `json:"watchers"`
	Subscribers int `json:"subscribers"`

	OpenIssues      int `json:"open_issues"`
	ClosedIssues    int `json:"closed_issues"`
	PullRequests    int `json:"pull_requests"`
	CommitsLastYear int `json:"commits_last_year"`
	Contributors    int `json:"contributors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	SizeKB    int       `json:"size_kb"`

	OwnerType        string `json:"owner_type,omitempty"`
	OwnerPublicRepos int    `json:"owner_public_repos"`
	OwnerLocation    string `json:"owner_location,omitempty"`
}

// CSVHeader is the column order of the output artifact.
func CSVHeader() []string {
	return []string{
		"name", "owner", "language",
		"stars", "forks", "watchers", "subscribers",
		"open_issues", "closed_issues", "pull_requests",
		"commits_last_year", "contributors",
		"created_at", "updated_at", "size_kb",
		"owner_type", "owner_public_repos", "owner_location",
	}
}

// CSVRow renders the record in CSVHeader order. Timestamps use RFC 3339.
func (r *Record) CSVRow() []string {
	return []string{
		r.Name, r.Owner, r.Language,
		strconv.Itoa(r.Stars), strconv.Itoa(r.Forks),
		strconv.Itoa(r.Watchers), strconv.Itoa(r.Subscribers),
		strconv.Itoa(r.OpenIssues), strconv.Itoa(r.ClosedIssues),
		strconv.Itoa(r.PullRequests), strconv.Itoa(r.CommitsLastYear),
		strconv.Itoa(r.Contributors),
		r.CreatedAt.Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339),
		strconv.Itoa(r.SizeKB),
		r.OwnerType, strconv.Itoa(r.OwnerPublicRepos), r.OwnerLocation,
	}
}
