package search

import (
	"strings"
	"unicode/utf8"
)

// BuildRAGContext retrieves for the query and flattens the hits into a
// single prompt context string bounded by the configured cap.
func (e *Engine) BuildRAGContext(query string, topK int, categoryFilter string) string {
	results := e.Retrieve(query, topK, categoryFilter)
	return e.buildContext(results)
}

// Truncate shortens s to at most max bytes plus an ellipsis, backing up to a
// rune boundary so multi-byte text is never split mid-rune.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// ContextFromResults flattens an already-retrieved result set, for callers
// that also need the hits themselves.
func (e *Engine) ContextFromResults(results []ScoredDocument) string {
	return e.buildContext(results)
}

// buildContext renders ranked hits as "[category] content" lines. Each entry
// is trimmed according to its similarity, then whole entries are dropped in
// rank order once the global cap would be exceeded.
func (e *Engine) buildContext(results []ScoredDocument) string {
	var entries []string
	for _, result := range results {
		if result.Similarity <= e.limits.ContextFloor {
			continue
		}

		maxLen := e.limits.LowTrim
		if result.Similarity > e.limits.HighScore {
			maxLen = e.limits.HighTrim
		} else if result.Similarity > e.limits.MidScore {
			maxLen = e.limits.MidTrim
		}

		content := Truncate(result.Document.Content, maxLen)
		entries = append(entries, "["+result.Document.Category+"] "+content)
	}

	var b strings.Builder
	for i, entry := range entries {
		extra := len(entry)
		if i > 0 {
			extra++ // joining newline
		}
		if b.Len()+extra > e.limits.ContextCap {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(entry)
	}
	return b.String()
}
