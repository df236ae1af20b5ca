// Package urlutils provides URL helper functions.
package urlutils

import (
	"net/url"
	"strings"
)

// IsValidURL checks if a URL is absolute with a scheme and host
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// GitHubRepoURL returns the canonical github.com URL for "owner/name"
func GitHubRepoURL(repoName string) string {
	return "https://github.com/" + strings.Trim(repoName, "/")
}
