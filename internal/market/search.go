package market

import (
	"context"
	"sort"
	"strings"
)

// Match scores, highest first: exact name, name prefix, any-word prefix,
// substring, then an in-order character subsequence as the loosest tier.
// Anything else is excluded from the results.
const (
	scoreExact       = 100
	scorePrefix      = 75
	scoreWordPrefix  = 50
	scoreContains    = 25
	scoreSubsequence = 10
)

// Search fuzzy-matches a name fragment against the cached catalog and returns
// the highest-ranked items with their current price. Queries shorter than two
// characters return nothing without touching the catalog or the network.
func (c *Client) Search(ctx context.Context, query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return nil
	}

	entries := c.catalogEntries(ctx)

	type scored struct {
		result SearchResult
		score  int
	}
	var matches []scored
	for id, entry := range entries {
		score := matchScore(strings.ToLower(entry.Name), query)
		if score == 0 {
			continue
		}
		matches = append(matches, scored{
			result: SearchResult{
				ID:     id,
				Name:   entry.Name,
				Price:  entry.Price,
				Volume: entry.Volume,
				Icon:   entry.Icon,
			},
			score: score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].result.Name < matches[j].result.Name
	})

	limit := c.cfg.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = m.result
	}
	return results
}

func matchScore(name, query string) int {
	switch {
	case name == query:
		return scoreExact
	case strings.HasPrefix(name, query):
		return scorePrefix
	}
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, query) {
			return scoreWordPrefix
		}
	}
	if strings.Contains(name, query) {
		return scoreContains
	}
	if subsequenceMatch(name, query) {
		return scoreSubsequence
	}
	return 0
}

// subsequenceMatch reports whether every query character appears in the name
// in order. This lets near-miss names like "Runite ore" surface for "rune"
// while names sharing no ordered letters stay excluded.
func subsequenceMatch(name, query string) bool {
	want := []rune(query)
	i := 0
	for _, r := range name {
		if i < len(want) && r == want[i] {
			i++
		}
	}
	return i == len(want)
}
