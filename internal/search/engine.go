package search

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

// ScoredDocument is one retrieval hit: the document, its normalized
// similarity in [0,1] and the query terms that matched it.
type ScoredDocument struct {
	Document   *knowledge.Document
	Similarity float64
	Matched    []string
}

// Stats describes the current index for health endpoints.
type Stats struct {
	DocumentCount  int    `json:"document_count"`
	VocabularySize int    `json:"vocabulary_size"`
	IndexType      string `json:"index_type"`
}

// Engine is the retrieval core: it owns the index snapshot and scores
// queries against it. Reads never block each other; LoadDocuments builds a
// fresh snapshot off to the side and swaps it in under the lock.
type Engine struct {
	mu      sync.RWMutex
	snap    *snapshot
	norm    *textproc.Normalizer
	weights Weights
	limits  Limits
	logger  *logrus.Entry
}

func NewEngine(norm *textproc.Normalizer, tuning Tuning, logger *logrus.Entry) *Engine {
	return &Engine{
		snap:    emptySnapshot(),
		norm:    norm,
		weights: tuning.Weights,
		limits:  tuning.Limits,
		logger:  logger,
	}
}

// LoadDocuments replaces the entire corpus and rebuilds the index. Safe to
// call at runtime for hot rebuilds; in-flight queries keep scoring against
// the previous snapshot.
func (e *Engine) LoadDocuments(docs []knowledge.Document) bool {
	snap := buildSnapshot(docs, e.norm, e.weights)

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()

	e.logger.Infof("Indexed %d documents, vocabulary size %d", len(snap.docs), len(snap.vocab))
	return true
}

func (e *Engine) snapshot() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Documents returns a copy of the currently indexed corpus.
func (e *Engine) Documents() []knowledge.Document {
	snap := e.snapshot()
	docs := make([]knowledge.Document, len(snap.docs))
	copy(docs, snap.docs)
	return docs
}

// Retrieve scores every candidate document against the query and returns up
// to topK hits above the relevance floor, best first. An empty or
// all-stopword query yields no results, not an error; the same goes for a
// category filter that excludes every document.
func (e *Engine) Retrieve(query string, topK int, categoryFilter string) []ScoredDocument {
	tokens := e.norm.Normalize(query)
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	snap := e.snapshot()
	if len(snap.docs) == 0 {
		return nil
	}

	scores := make(map[int]float64)
	matched := make(map[int]map[string]struct{})

	note := func(idx int, term string, points float64) {
		scores[idx] += points
		if matched[idx] == nil {
			matched[idx] = make(map[string]struct{})
		}
		matched[idx][term] = struct{}{}
	}

	inCategory := func(idx int) bool {
		return categoryFilter == "" || snap.docs[idx].Category == categoryFilter
	}

	// Exact keyword scoring through the inverted index.
	for _, token := range tokens {
		for _, idx := range snap.inverted[token] {
			if !inCategory(idx) {
				continue
			}
			switch {
			case contains(snap.keywordSets[idx], token):
				note(idx, token, e.weights.KeywordHit)
			case contains(snap.titleTokens[idx], token):
				note(idx, token, e.weights.TitleHit)
			default:
				note(idx, token, e.weights.ContentHit)
			}
		}
	}

	// Fuzzy scoring over near-matches in the vocabulary.
	for _, token := range tokens {
		for _, term := range fuzzyMatches(snap.vocab, token, e.weights.FuzzyCutoff, e.weights.MaxFuzzy) {
			for _, idx := range snap.inverted[term] {
				if inCategory(idx) {
					note(idx, term, e.weights.FuzzyHit)
				}
			}
		}
	}

	// Vector similarity: IDF-weighted query vector against document vectors.
	queryVector := make(map[string]float64, len(tokens))
	totalDocs := float64(len(snap.docs))
	for _, token := range tokens {
		weight := 1.0
		if df := snap.docFreq[token]; df > 0 {
			weight = totalDocs / float64(df)
		}
		queryVector[token] = weight
	}
	for idx := range snap.docs {
		if !inCategory(idx) {
			continue
		}
		if sim := cosine(queryVector, snap.vectors[idx]); sim > 0 {
			scores[idx] += sim * e.weights.CosineScale
		}
	}

	// Rank: score descending, original document order as a stable tie-break.
	order := make([]int, 0, len(scores))
	for idx := range scores {
		order = append(order, idx)
	}
	sort.Slice(order, func(i, j int) bool {
		if scores[order[i]] != scores[order[j]] {
			return scores[order[i]] > scores[order[j]]
		}
		return order[i] < order[j]
	})

	results := make([]ScoredDocument, 0, topK)
	for _, idx := range order {
		if len(results) >= topK {
			break
		}
		sim := clamp(scores[idx]/e.weights.ScoreScale, 0, 1)
		if sim < e.weights.RelevanceFloor {
			continue
		}
		results = append(results, ScoredDocument{
			Document:   &snap.docs[idx],
			Similarity: sim,
			Matched:    sortedTerms(matched[idx]),
		})
	}
	return results
}

// Stats reports index size for status endpoints.
func (e *Engine) Stats() Stats {
	snap := e.snapshot()
	return Stats{
		DocumentCount:  len(snap.docs),
		VocabularySize: len(snap.vocab),
		IndexType:      "tfidf-keyword",
	}
}

func contains(set map[string]struct{}, token string) bool {
	_, ok := set[token]
	return ok
}

func sortedTerms(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	terms := make([]string, 0, len(set))
	for term := range set {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
