package search

import (
	"math"
	"sort"
	"strings"

	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

// snapshot holds one fully-built generation of the index. A snapshot is
// immutable after construction; rebuilds create a fresh one and swap a single
// reference so readers never observe partial state.
type snapshot struct {
	docs     []knowledge.Document
	inverted map[string][]int
	vectors  []map[string]float64
	docFreq  map[string]int
	vocab    []string

	titleTokens []map[string]struct{}
	keywordSets []map[string]struct{}
}

func emptySnapshot() *snapshot {
	return &snapshot{
		inverted: make(map[string][]int),
		docFreq:  make(map[string]int),
	}
}

// buildSnapshot indexes the corpus: inverted index, document frequencies and
// TF-IDF weighted sparse vectors with keyword and title boosting.
func buildSnapshot(docs []knowledge.Document, norm *textproc.Normalizer, w Weights) *snapshot {
	snap := emptySnapshot()
	if len(docs) == 0 {
		return snap
	}

	snap.docs = make([]knowledge.Document, len(docs))
	copy(snap.docs, docs)
	snap.vectors = make([]map[string]float64, len(docs))
	snap.titleTokens = make([]map[string]struct{}, len(docs))
	snap.keywordSets = make([]map[string]struct{}, len(docs))

	tokenized := make([][]string, len(docs))

	for i, doc := range docs {
		blob := doc.Title + " " + doc.Content + " " + strings.Join(doc.Keywords, " ")
		tokens := norm.Normalize(blob)
		tokenized[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			snap.docFreq[token]++
			snap.inverted[token] = append(snap.inverted[token], i)
		}

		titleSet := make(map[string]struct{})
		for _, token := range norm.Normalize(doc.Title) {
			titleSet[token] = struct{}{}
		}
		snap.titleTokens[i] = titleSet

		// Declared keywords match both as whole phrases and as their
		// individual normalized tokens, so a multi-word keyword like
		// "data science" still boosts the tokens the query produces.
		keywordSet := make(map[string]struct{})
		for _, keyword := range doc.Keywords {
			keywordSet[strings.ToLower(strings.TrimSpace(keyword))] = struct{}{}
			for _, token := range norm.Normalize(keyword) {
				keywordSet[token] = struct{}{}
			}
		}
		snap.keywordSets[i] = keywordSet
	}

	totalDocs := float64(len(docs))
	for i := range docs {
		tokens := tokenized[i]
		vector := make(map[string]float64)
		if len(tokens) == 0 {
			snap.vectors[i] = vector
			continue
		}

		counts := make(map[string]int, len(tokens))
		for _, token := range tokens {
			counts[token]++
		}

		total := float64(len(tokens))
		for token, count := range counts {
			tf := float64(count) / total
			idf := 0.0
			if df := snap.docFreq[token]; df > 0 {
				idf = totalDocs / float64(df)
			}

			multiplier := 1.0
			if _, ok := snap.keywordSets[i][token]; ok {
				multiplier = w.KeywordBoost
			} else if _, ok := snap.titleTokens[i][token]; ok {
				multiplier = w.TitleBoost
			}

			if weight := tf * idf * multiplier; weight > 0 {
				vector[token] = weight
			}
		}
		snap.vectors[i] = vector
	}

	snap.vocab = make([]string, 0, len(snap.inverted))
	for token := range snap.inverted {
		snap.vocab = append(snap.vocab, token)
	}
	sort.Strings(snap.vocab)

	return snap
}

// cosine computes cosine similarity between two sparse vectors.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for token, wa := range small {
		if wb, ok := large[token]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for _, w := range a {
		normA += w * w
	}
	for _, w := range b {
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
