package keywords

import (
	"sort"
	"strings"
)

const (
	// MaxWords is the longest n-gram counted.
	MaxWords = 5
	// TopN bounds each ranked list.
	TopN = 30
)

// Result is one ranked keyword or phrase.
type Result struct {
	Keyword   string  `json:"keyword"`
	Count     int     `json:"count"`
	Total     int     `json:"total"`
	Density   float64 `json:"density"`
	WordCount int     `json:"wordCount"`
}

// Group is the ranked list for one n-gram length.
type Group struct {
	Words    int      `json:"words"`
	Keywords []Result `json:"keywords"`
}

// minCount returns how often an n-gram must occur to be reported.
func minCount(n int) int {
	if n == 1 {
		return 2
	}
	return 1
}

// Count builds the ranked n-gram lists for n = 1..MaxWords over tokens.
// Density is relative to len(tokens). Ties keep first-seen order.
func Count(tokens []string) []Group {
	total := len(tokens)
	groups := make([]Group, 0, MaxWords)
	for n := 1; n <= MaxWords; n++ {
		groups = append(groups, Group{Words: n, Keywords: rank(tokens, n, total)})
	}
	return groups
}

func rank(tokens []string, n, total int) []Result {
	if total == 0 || len(tokens) < n {
		return []Result{}
	}

	counts := make(map[string]int)
	var order []string
	for i := 0; i+n <= len(tokens); i++ {
		gram := strings.Join(tokens[i:i+n], " ")
		if counts[gram] == 0 {
			order = append(order, gram)
		}
		counts[gram]++
	}

	results := make([]Result, 0, len(order))
	threshold := minCount(n)
	for _, gram := range order {
		c := counts[gram]
		if c < threshold {
			continue
		}
		results = append(results, Result{
			Keyword:   gram,
			Count:     c,
			Total:     total,
			Density:   float64(c) / float64(total) * 100,
			WordCount: n,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Count > results[j].Count
	})
	if len(results) > TopN {
		results = results[:TopN]
	}
	return results
}
