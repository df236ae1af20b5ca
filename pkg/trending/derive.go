package trending

import "strings"

const (
	// OtherLanguage labels entries whose language is missing
	OtherLanguage = "Other"

	// MaxVisibleTopics is how many topic tokens a row shows
	MaxVisibleTopics = 3
)

// SplitRepoName splits "owner/name" on the first slash. A name without a
// slash yields an empty owner and the whole string as name.
func SplitRepoName(repoName string) (owner, name string) {
	parts := strings.SplitN(repoName, "/", 2)
	if len(parts) < 2 {
		return "", repoName
	}
	return parts[0], parts[1]
}

// LanguageLabel returns the language or OtherLanguage when it is empty
func LanguageLabel(language string) string {
	if language == "" {
		return OtherLanguage
	}
	return language
}

// VisibleTopics returns a copy of at most the first MaxVisibleTopics topics
func VisibleTopics(topics []string) []string {
	n := min(len(topics), MaxVisibleTopics)
	visible := make([]string, n)
	copy(visible, topics[:n])
	return visible
}

// Derive builds the row for the entry at position index of a list of total
// entries fetched for range r. It never touches the entry.
func Derive(entry Entry, index, total int, r Range) Row {
	owner, name := SplitRepoName(entry.RepoName)

	var avatars []string
	for _, c := range entry.Contributors {
		avatars = append(avatars, c.AvatarURL)
	}

	return Row{
		Rank:            index + 1,
		RepoName:        entry.RepoName,
		Owner:           owner,
		Name:            name,
		URL:             entry.RepoURL,
		Description:     entry.Description,
		LanguageLabel:   LanguageLabel(entry.Language),
		Stars:           entry.Stars,
		StarsSuffix:     r.Suffix(),
		Stargazers:      copyInt(entry.StargazersCount),
		Forks:           copyInt(entry.ForksCount),
		OpenIssues:      copyInt(entry.OpenIssuesCount),
		HasContributors: len(entry.Contributors) > 0,
		AvatarURLs:      avatars,
		VisibleTopics:   VisibleTopics(entry.Topics),
		IsLastRow:       index == total-1,
	}
}

// DeriveAll derives rows for entries in their original (server ranked) order
func DeriveAll(entries []Entry, r Range) []Row {
	rows := make([]Row, len(entries))
	for i, entry := range entries {
		rows[i] = Derive(entry, i, len(entries), r)
	}
	return rows
}

// DeriveTop derives rows for at most the first limit entries. The last
// returned row is marked as the last row. A limit <= 0 returns every entry.
func DeriveTop(entries []Entry, r Range, limit int) []Row {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return DeriveAll(entries, r)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
