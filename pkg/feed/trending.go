package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ghtrending/ghtrending/pkg/trending"
	"github.com/ghtrending/ghtrending/pkg/urlutils"
)

// TrendingLink is the page a trending feed points back to
const TrendingLink = "https://github.com/trending"

// NewTrendingGenerator creates a generator titled for range r
func NewTrendingGenerator(r trending.Range) *Generator {
	return NewGenerator(
		fmt.Sprintf("GitHub Trending - %s", r.Label()),
		fmt.Sprintf("Most starred GitHub repositories, %s", strings.ToLower(r.Label())),
		TrendingLink,
		"ghtrending",
	)
}

// ItemsFromRows converts ranked rows into feed items. Readers sort entries by
// date, so each rank is published one second after the previous one.
func ItemsFromRows(rows []trending.Row, r trending.Range, generatedAt time.Time) ([]Item, error) {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		content, err := RowContent(row)
		if err != nil {
			return nil, fmt.Errorf("failed to render content for %s: %w", row.RepoName, err)
		}

		link := row.URL
		if link == "" {
			link = urlutils.GitHubRepoURL(row.RepoName)
		}

		items = append(items, Item{
			Title:       fmt.Sprintf("#%d %s (★ %d %s)", row.Rank, row.RepoName, row.Stars, row.StarsSuffix),
			Link:        link,
			Description: row.Description,
			Content:     content,
			Author:      row.Owner,
			Created:     generatedAt.Add(-time.Duration(row.Rank) * time.Second),
			ID:          fmt.Sprintf("%s#%s-%s", link, r.Key(), generatedAt.UTC().Format("2006-01-02")),
		})
	}
	return items, nil
}

// RowContent builds the HTML body of a feed entry
func RowContent(row trending.Row) (string, error) {
	var nodes []*html.Node

	if row.Description != "" {
		nodes = append(nodes, element(atom.P, nil, text(row.Description)))
	}

	facts := element(atom.Ul, nil,
		element(atom.Li, nil, text("Language: "+row.LanguageLabel)),
		element(atom.Li, nil, text(fmt.Sprintf("Stars: %d %s", row.Stars, row.StarsSuffix))),
	)
	if row.Stargazers != nil {
		facts.AppendChild(element(atom.Li, nil, text(fmt.Sprintf("Stargazers: %d", *row.Stargazers))))
	}
	if row.Forks != nil {
		facts.AppendChild(element(atom.Li, nil, text(fmt.Sprintf("Forks: %d", *row.Forks))))
	}
	if row.OpenIssues != nil {
		facts.AppendChild(element(atom.Li, nil, text(fmt.Sprintf("Open issues: %d", *row.OpenIssues))))
	}
	nodes = append(nodes, facts)

	if len(row.VisibleTopics) > 0 {
		topics := element(atom.P, nil, text("Topics: "))
		for i, topic := range row.VisibleTopics {
			if i > 0 {
				topics.AppendChild(text(" "))
			}
			topics.AppendChild(element(atom.Code, nil, text(topic)))
		}
		nodes = append(nodes, topics)
	}

	if row.HasContributors {
		avatars := element(atom.P, nil)
		for _, avatar := range row.AvatarURLs {
			avatars.AppendChild(element(atom.Img, []html.Attribute{
				{Key: "src", Val: avatar},
				{Key: "width", Val: "20"},
				{Key: "height", Val: "20"},
				{Key: "alt", Val: "contributor"},
			}))
		}
		nodes = append(nodes, avatars)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
