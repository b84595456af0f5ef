package search

import "sort"

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// similarity maps edit distance into [0,1], 1 meaning identical.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(longest)
}

type fuzzyCandidate struct {
	term  string
	score float64
}

// fuzzyMatches returns up to max vocabulary terms whose similarity to token
// is at least cutoff, excluding the exact token. Results are ordered by
// descending similarity with a lexicographic tie-break for determinism.
func fuzzyMatches(vocab []string, token string, cutoff float64, max int) []string {
	var candidates []fuzzyCandidate
	for _, term := range vocab {
		if term == token {
			continue
		}
		if s := similarity(term, token); s >= cutoff {
			candidates = append(candidates, fuzzyCandidate{term: term, score: s})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].term < candidates[j].term
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	matches := make([]string, len(candidates))
	for i, c := range candidates {
		matches[i] = c.term
	}
	return matches
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
