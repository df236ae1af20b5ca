package trending

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary describes the star distribution of one fetched list
type Summary struct {
	Count        int
	TotalStars   int
	MeanStars    float64
	MedianStars  float64
	TopLanguages []LanguageCount
}

// LanguageCount is how many entries of a list share a language label
type LanguageCount struct {
	Label string
	Count int
}

// Summarize computes a Summary. An empty list yields a zero Summary.
func Summarize(entries []Entry) Summary {
	summary := Summary{Count: len(entries)}
	if len(entries) == 0 {
		return summary
	}

	data := make(stats.Float64Data, 0, len(entries))
	counts := make(map[string]int)
	for _, e := range entries {
		summary.TotalStars += e.Stars
		data = append(data, float64(e.Stars))
		counts[LanguageLabel(e.Language)]++
	}

	// Errors only occur for empty input, which is handled above
	summary.MeanStars, _ = stats.Mean(data)
	summary.MedianStars, _ = stats.Median(data)

	for label, count := range counts {
		summary.TopLanguages = append(summary.TopLanguages, LanguageCount{Label: label, Count: count})
	}
	sort.Slice(summary.TopLanguages, func(i, j int) bool {
		a, b := summary.TopLanguages[i], summary.TopLanguages[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	})
	if len(summary.TopLanguages) > 3 {
		summary.TopLanguages = summary.TopLanguages[:3]
	}

	return summary
}
