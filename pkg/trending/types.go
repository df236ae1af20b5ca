// Package trending holds the trending feed data model, the read-only feed
// client and the pure derivation of render-ready rows.
package trending

// Entry is one repository in a trending feed document, as served by the
// data service. Optional cumulative counters stay nil when the feed omits them.
type Entry struct {
	RepoName        string        `json:"repo_name"`
	RepoURL         string        `json:"repo_url"`
	Description     string        `json:"description"`
	Language        string        `json:"language"`
	Stars           int           `json:"stars"`
	StargazersCount *int          `json:"stargazers_count,omitempty"`
	ForksCount      *int          `json:"forks_count,omitempty"`
	OpenIssuesCount *int          `json:"open_issues_count,omitempty"`
	WatchersCount   *int          `json:"watchers_count,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
	License         *License      `json:"license,omitempty"`
	Contributors    []Contributor `json:"contributors,omitempty"`
	Topics          []string      `json:"topics,omitempty"`
}

// Contributor is a repository contributor as listed in the feed
type Contributor struct {
	Login     string `json:"login,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

// License is the repository license summary
type License struct {
	Key    string `json:"key,omitempty"`
	Name   string `json:"name,omitempty"`
	SPDXID string `json:"spdx_id,omitempty"`
}

// Row is a render-ready view of an Entry. Rows are derived, never edited.
type Row struct {
	Rank            int
	RepoName        string
	Owner           string
	Name            string
	URL             string
	Description     string
	LanguageLabel   string
	Stars           int
	StarsSuffix     string
	Stargazers      *int
	Forks           *int
	OpenIssues      *int
	HasContributors bool
	AvatarURLs      []string
	VisibleTopics   []string
	IsLastRow       bool
}

// IntPtr returns a pointer to v, handy for optional counters
func IntPtr(v int) *int {
	return &v
}
