package engine_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/portfolio-assistant/backend/internal/cache"
	"github.com/portfolio-assistant/backend/internal/classifier"
	"github.com/portfolio-assistant/backend/internal/engine"
	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/internal/provider"
	"github.com/portfolio-assistant/backend/internal/search"
	"github.com/portfolio-assistant/backend/internal/session"
	"github.com/portfolio-assistant/backend/internal/storage"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

// Mocks

type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLMProvider) Name() string {
	return "mock"
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", true)
}

func newTestEngine(t *testing.T, providers ...provider.LLMProvider) *engine.Engine {
	t.Helper()

	norm := textproc.NewNormalizer()
	retriever := search.NewEngine(norm, search.DefaultTuning(), testLogger())
	retriever.LoadDocuments(knowledge.FallbackCorpus())

	return engine.New(engine.Options{
		Normalizer: norm,
		Retriever:  retriever,
		Classifier: classifier.New(norm, testLogger()),
		Sessions:   session.NewManager(session.DefaultConfig(), testLogger()),
		Cache:      cache.New(time.Minute, 100),
		Providers:  providers,
		Store:      storage.NewMemoryStore(),
		Reload:     knowledge.FallbackCorpus,
		TopK:       3,
		Logger:     testLogger(),
	})
}

func TestAskTopicQuestion(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.Anything).Return("jawaban tentang python", nil)

	eng := newTestEngine(t, mockProvider)
	answer := eng.Ask(context.Background(), "", "ceritakan tentang python")

	assert.NotEmpty(t, answer.SessionID)
	assert.Equal(t, "keahlian", answer.Category)
	assert.Equal(t, "jawaban tentang python", answer.Response)
	assert.Equal(t, "mock", answer.Source)
	assert.False(t, answer.Cached)
	assert.NotEmpty(t, answer.Topics)
	mockProvider.AssertCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAskPromptCarriesContext(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return("ok", nil)

	eng := newTestEngine(t, mockProvider)
	eng.Ask(context.Background(), "", "ceritakan tentang python")

	prompt := mockProvider.Calls[0].Arguments.String(1)
	assert.Contains(t, prompt, "[keahlian]", "retrieved context must be in the prompt")
}

func TestAskPersonalBypassesRetrieval(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	eng := newTestEngine(t, mockProvider)

	answer := eng.Ask(context.Background(), "", "siapa nama pacarmu?")

	assert.Equal(t, "personal_relationship", answer.Category)
	assert.Equal(t, "template", answer.Source)
	assert.Contains(t, answer.Response, "privasi")
	mockProvider.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAskGibberishBypassesRetrieval(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	eng := newTestEngine(t, mockProvider)

	answer := eng.Ask(context.Background(), "", "asdf qwerty zxcvbn")

	assert.Equal(t, classifier.CategoryGibberish, answer.Category)
	assert.Equal(t, "template", answer.Source)
	mockProvider.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAskProviderFailureFallsBackToTemplate(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	eng := newTestEngine(t, mockProvider)
	answer := eng.Ask(context.Background(), "", "ceritakan tentang python")

	assert.Equal(t, "template", answer.Source)
	assert.NotEmpty(t, answer.Response)
}

func TestAskProviderChainFallsThrough(t *testing.T) {
	failing := new(MockLLMProvider)
	failing.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("down"))

	working := new(MockLLMProvider)
	working.On("Generate", mock.Anything, mock.Anything).Return("jawaban cadangan", nil)

	eng := newTestEngine(t, failing, working)
	answer := eng.Ask(context.Background(), "", "ceritakan tentang python")

	assert.Equal(t, "jawaban cadangan", answer.Response)
	failing.AssertCalled(t, "Generate", mock.Anything, mock.Anything)
	working.AssertCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAskCachesRepeatedQuestions(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.Anything).Return("jawaban", nil)

	eng := newTestEngine(t, mockProvider)

	first := eng.Ask(context.Background(), "", "apa skill programming kamu")
	second := eng.Ask(context.Background(), first.SessionID, "apa skill programming kamu")

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, "cache", second.Source)
	assert.Equal(t, first.Response, second.Response)
	mockProvider.AssertNumberOfCalls(t, "Generate", 1)
}

func TestAskSessionContinuity(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.Anything).Return("jawaban", nil)

	eng := newTestEngine(t, mockProvider)

	first := eng.Ask(context.Background(), "", "apa keahlian kamu")
	assert.Equal(t, "keahlian", first.Category)

	followup := eng.Ask(context.Background(), first.SessionID, "terus gimana dengan yang lain?")
	assert.Equal(t, first.SessionID, followup.SessionID)
	assert.Equal(t, "keahlian_followup", followup.Category)
}

func TestAskFollowupNotCached(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.Anything).Return("jawaban", nil)

	eng := newTestEngine(t, mockProvider)

	first := eng.Ask(context.Background(), "", "apa keahlian kamu")
	f1 := eng.Ask(context.Background(), first.SessionID, "terus gimana dengan yang lain?")
	f2 := eng.Ask(context.Background(), first.SessionID, "terus gimana dengan yang lain?")

	assert.False(t, f1.Cached)
	assert.False(t, f2.Cached)
}

func TestAskExpiredSessionDropsExchangeHistory(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	var prompts []string
	mockProvider.On("Generate", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		prompts = append(prompts, args.String(1))
	}).Return("jawaban", nil)

	norm := textproc.NewNormalizer()
	retriever := search.NewEngine(norm, search.DefaultTuning(), testLogger())
	retriever.LoadDocuments(knowledge.FallbackCorpus())

	cfg := session.DefaultConfig()
	cfg.Timeout = 5 * time.Millisecond
	eng := engine.New(engine.Options{
		Normalizer: norm,
		Retriever:  retriever,
		Classifier: classifier.New(norm, testLogger()),
		Sessions:   session.NewManager(cfg, testLogger()),
		Providers:  []provider.LLMProvider{mockProvider},
		Store:      storage.NewMemoryStore(),
		Reload:     knowledge.FallbackCorpus,
		TopK:       3,
		Logger:     testLogger(),
	})

	first := eng.Ask(context.Background(), "", "ceritakan tentang python")
	time.Sleep(20 * time.Millisecond)

	second := eng.Ask(context.Background(), first.SessionID, "apa saja proyek kamu")
	assert.Equal(t, first.SessionID, second.SessionID)

	if assert.Len(t, prompts, 2) {
		assert.NotContains(t, prompts[1], "ceritakan tentang python",
			"exchanges from the expired session must not reach the new prompt")
	}
}

func TestRebuild(t *testing.T) {
	eng := newTestEngine(t)

	stats, err := eng.Rebuild()
	assert.NoError(t, err)
	assert.Equal(t, len(knowledge.FallbackCorpus()), stats.DocumentCount)
}

func TestSearchAndTopics(t *testing.T) {
	eng := newTestEngine(t)

	results := eng.Search("python", 0, "")
	assert.NotEmpty(t, results)

	topics := eng.Topics("python", "keahlian")
	assert.NotEmpty(t, topics)
}

func TestStats(t *testing.T) {
	eng := newTestEngine(t)
	eng.Ask(context.Background(), "", "asdf qwerty zxcvbn")

	stats := eng.Stats()
	assert.Equal(t, len(knowledge.FallbackCorpus()), stats.Index.DocumentCount)
	assert.Equal(t, 1, stats.Sessions.TotalQuestions)
	assert.Equal(t, "memory", stats.Storage)
	assert.NotNil(t, stats.Cache)
}

func TestStatsCarriesMetrics(t *testing.T) {
	mockProvider := new(MockLLMProvider)
	mockProvider.On("Generate", mock.Anything, mock.Anything).Return("jawaban", nil)

	norm := textproc.NewNormalizer()
	retriever := search.NewEngine(norm, search.DefaultTuning(), testLogger())
	retriever.LoadDocuments(knowledge.FallbackCorpus())

	eng := engine.New(engine.Options{
		Normalizer: norm,
		Retriever:  retriever,
		Classifier: classifier.New(norm, testLogger()),
		Sessions:   session.NewManager(session.DefaultConfig(), testLogger()),
		Cache:      cache.New(time.Minute, 100),
		Providers:  []provider.LLMProvider{mockProvider},
		Store:      storage.NewMemoryStore(),
		Reload:     knowledge.FallbackCorpus,
		Metrics:    metrics.NewCollector(),
		TopK:       3,
		Logger:     testLogger(),
	})

	first := eng.Ask(context.Background(), "", "ceritakan tentang python")
	repeat := eng.Ask(context.Background(), "", "ceritakan tentang python")
	assert.False(t, first.Cached)
	assert.True(t, repeat.Cached)

	stats := eng.Stats()
	if assert.NotNil(t, stats.Metrics) {
		assert.Equal(t, int64(2), stats.Metrics.Counters["questions_total"])
		assert.Equal(t, int64(1), stats.Metrics.Counters["answers_cache"])
		assert.Equal(t, int64(1), stats.Metrics.Counters["answers_mock"])
		assert.Equal(t, 2, stats.Metrics.Histograms["ask_duration_ms"].Count)
		assert.Equal(t, float64(2), stats.Metrics.Gauges["active_sessions"])
	}
}
