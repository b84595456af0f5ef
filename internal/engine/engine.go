package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/portfolio-assistant/backend/internal/cache"
	"github.com/portfolio-assistant/backend/internal/classifier"
	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/internal/provider"
	"github.com/portfolio-assistant/backend/internal/search"
	"github.com/portfolio-assistant/backend/internal/session"
	"github.com/portfolio-assistant/backend/internal/storage"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

// historyDepth bounds the per-session exchanges kept for prompt continuity.
const historyDepth = 5

// Answer is the engine's reply to one question.
type Answer struct {
	SessionID string   `json:"session_id"`
	Response  string   `json:"response"`
	Category  string   `json:"category"`
	Topics    []string `json:"suggested_topics,omitempty"`
	Source    string   `json:"source"`
	Cached    bool     `json:"cached"`
}

// Stats aggregates the component stats for admin endpoints.
type Stats struct {
	Index    search.Stats      `json:"index"`
	Sessions session.Stats     `json:"sessions"`
	Cache    *cache.Stats      `json:"cache,omitempty"`
	Storage  string            `json:"storage"`
	Metrics  *metrics.Snapshot `json:"metrics,omitempty"`
}

// ReloadFunc re-reads the knowledge corpus for Rebuild.
type ReloadFunc func() []knowledge.Document

// Engine wires classification, retrieval, sessions and generation into the
// ask pipeline.
type Engine struct {
	norm      *textproc.Normalizer
	retriever *search.Engine
	class     *classifier.Classifier
	sessions  *session.Manager
	cache     *cache.ResponseCache
	providers []provider.LLMProvider
	store     storage.DocumentStore
	reload    ReloadFunc
	metrics   *metrics.Collector
	topK      int
	logger    *logrus.Entry

	historyMu sync.Mutex
	history   map[string][]provider.Exchange
}

// Options carries the engine's collaborators. Cache and Providers may be
// nil/empty; the engine then answers from templates.
type Options struct {
	Normalizer *textproc.Normalizer
	Retriever  *search.Engine
	Classifier *classifier.Classifier
	Sessions   *session.Manager
	Cache      *cache.ResponseCache
	Providers  []provider.LLMProvider
	Store      storage.DocumentStore
	Reload     ReloadFunc
	Metrics    *metrics.Collector
	TopK       int
	Logger     *logrus.Entry
}

func New(opts Options) *Engine {
	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}
	e := &Engine{
		norm:      opts.Normalizer,
		retriever: opts.Retriever,
		class:     opts.Classifier,
		sessions:  opts.Sessions,
		cache:     opts.Cache,
		providers: opts.Providers,
		store:     opts.Store,
		reload:    opts.Reload,
		metrics:   opts.Metrics,
		topK:      topK,
		logger:    opts.Logger,
		history:   make(map[string][]provider.Exchange),
	}
	// exchange history lives exactly as long as its session
	e.sessions.OnEvict(e.dropHistory)
	return e
}

// Ask answers one question within a session. An empty sessionID starts a new
// session; the returned Answer carries the id to continue it.
func (e *Engine) Ask(ctx context.Context, sessionID, question string) Answer {
	start := time.Now()
	defer e.metrics.Time("ask_duration_ms", start)
	e.metrics.Inc("questions_total")

	sess, sid := e.sessions.GetOrCreate(sessionID)
	e.sessions.CountQuestion()
	sess.RecordQuestion(question)

	category := e.class.Classify(question, sess)
	log := e.logger.WithFields(logrus.Fields{"session": sid, "category": category})

	// Sensitive, malformed and too-short questions are answered from
	// templates without touching the index.
	if !retrievable(category) {
		sess.RecordCategory(category)
		e.metrics.Inc("answers_template")
		log.Debug("answering from template, retrieval skipped")
		return Answer{
			SessionID: sid,
			Response:  provider.TemplateResponse(category),
			Category:  category,
			Source:    "template",
		}
	}

	if answer, ok := e.cachedAnswer(sid, question, category); ok {
		sess.RecordCategory(category)
		e.metrics.Inc("answers_cache")
		log.Debug("cache hit")
		return answer
	}

	filter := ""
	if classifier.IsTopic(category) {
		filter = classifier.BaseCategory(category)
	}
	results := e.retriever.Retrieve(question, e.topK, filter)
	ragContext := e.retriever.ContextFromResults(results)
	topics := e.retriever.SuggestRelatedTopics(question, category)

	for _, result := range results {
		sess.Mention(result.Matched...)
	}

	prompt := provider.BuildPrompt(question, ragContext, category, e.exchanges(sid))
	response, source := e.generate(ctx, log, prompt, category)

	sess.RecordCategory(category)
	e.pushExchange(sid, question, response)

	answer := Answer{
		SessionID: sid,
		Response:  response,
		Category:  category,
		Topics:    topics,
		Source:    source,
	}
	e.storeAnswer(question, category, answer)
	return answer
}

// generate walks the provider chain and falls back to the template answer
// when every provider fails.
func (e *Engine) generate(ctx context.Context, log *logrus.Entry, prompt, category string) (string, string) {
	for _, p := range e.providers {
		response, err := p.Generate(ctx, prompt)
		if err != nil {
			e.metrics.Inc("provider_failures")
			log.WithError(err).WithField("provider", p.Name()).Warn("provider failed, trying next")
			continue
		}
		e.metrics.Inc("answers_" + p.Name())
		return response, p.Name()
	}
	e.metrics.Inc("answers_template")
	return provider.TemplateResponse(category), "template"
}

// Search exposes raw retrieval for the search endpoint.
func (e *Engine) Search(query string, topK int, categoryFilter string) []search.ScoredDocument {
	if topK <= 0 {
		topK = e.topK
	}
	return e.retriever.Retrieve(query, topK, categoryFilter)
}

// Topics exposes topic suggestion for the topics endpoint.
func (e *Engine) Topics(query, category string) []string {
	return e.retriever.SuggestRelatedTopics(query, category)
}

// Rebuild reloads the corpus, swaps the index and persists the fresh set.
func (e *Engine) Rebuild() (search.Stats, error) {
	docs := e.reload()
	e.retriever.LoadDocuments(docs)
	if err := e.store.ReplaceAll(docs); err != nil {
		e.logger.WithError(err).Warn("persisting rebuilt corpus failed")
		return e.retriever.Stats(), err
	}
	e.logger.WithField("documents", len(docs)).Info("index rebuilt")
	return e.retriever.Stats(), nil
}

func (e *Engine) Stats() Stats {
	stats := Stats{
		Index:    e.retriever.Stats(),
		Sessions: e.sessions.Stats(),
		Storage:  e.store.Name(),
	}
	if e.cache != nil {
		cs := e.cache.Stats()
		stats.Cache = &cs
	}
	if e.metrics != nil {
		e.metrics.SetGauge("active_sessions", float64(stats.Sessions.ActiveSessions))
		snap := e.metrics.Snapshot()
		stats.Metrics = &snap
	}
	return stats
}

// cachedAnswer serves repeated questions from the response cache. Follow-ups
// depend on session state and are never cached.
func (e *Engine) cachedAnswer(sid, question, category string) (Answer, bool) {
	if e.cache == nil || strings.HasSuffix(category, "_followup") {
		return Answer{}, false
	}
	cached, ok := e.cache.Get(e.cacheKey(question, category))
	if !ok {
		return Answer{}, false
	}
	return Answer{
		SessionID: sid,
		Response:  cached.Response,
		Category:  cached.Category,
		Topics:    cached.Topics,
		Source:    "cache",
		Cached:    true,
	}, true
}

func (e *Engine) storeAnswer(question, category string, answer Answer) {
	if e.cache == nil || answer.Source == "template" || strings.HasSuffix(category, "_followup") {
		return
	}
	e.cache.Set(e.cacheKey(question, category), cache.Answer{
		Response: answer.Response,
		Category: answer.Category,
		Topics:   answer.Topics,
	})
}

func (e *Engine) cacheKey(question, category string) string {
	return category + "|" + e.norm.Clean(question)
}

func (e *Engine) exchanges(sid string) []provider.Exchange {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	past := e.history[sid]
	out := make([]provider.Exchange, len(past))
	copy(out, past)
	return out
}

func (e *Engine) dropHistory(sid string) {
	e.historyMu.Lock()
	delete(e.history, sid)
	e.historyMu.Unlock()
}

func (e *Engine) pushExchange(sid, question, response string) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	past := append(e.history[sid], provider.Exchange{Question: question, Response: response})
	if len(past) > historyDepth {
		past = past[len(past)-historyDepth:]
	}
	e.history[sid] = past
}

// retrievable reports whether a category goes through retrieval and
// generation rather than a canned template.
func retrievable(category string) bool {
	switch {
	case category == classifier.CategoryGibberish,
		category == classifier.CategoryUnclear,
		strings.HasPrefix(category, "personal_"):
		return false
	}
	return true
}
