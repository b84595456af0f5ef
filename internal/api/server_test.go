package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/portfolio-assistant/backend/internal/api"
	"github.com/portfolio-assistant/backend/internal/cache"
	"github.com/portfolio-assistant/backend/internal/classifier"
	"github.com/portfolio-assistant/backend/internal/engine"
	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/search"
	"github.com/portfolio-assistant/backend/internal/session"
	"github.com/portfolio-assistant/backend/internal/storage"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", true)
}

// newTestServer builds a server on the full stack with no AI providers, so
// every generated answer comes from templates.
func newTestServer(t *testing.T, opts api.Options) *api.Server {
	t.Helper()

	norm := textproc.NewNormalizer()
	retriever := search.NewEngine(norm, search.DefaultTuning(), testLogger())
	retriever.LoadDocuments(knowledge.FallbackCorpus())

	eng := engine.New(engine.Options{
		Normalizer: norm,
		Retriever:  retriever,
		Classifier: classifier.New(norm, testLogger()),
		Sessions:   session.NewManager(session.DefaultConfig(), testLogger()),
		Cache:      cache.New(time.Minute, 100),
		Store:      storage.NewMemoryStore(),
		Reload:     knowledge.FallbackCorpus,
		TopK:       3,
		Logger:     testLogger(),
	})

	return api.NewServer(eng, testLogger(), opts)
}

func doRequest(t *testing.T, server *api.Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk(t *testing.T) {
	server := newTestServer(t, api.Options{})

	body := []byte(`{"question": "ceritakan tentang python"}`)
	rec := doRequest(t, server, http.MethodPost, "/api/v1/ask", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var answer engine.Answer
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.NotEmpty(t, answer.SessionID)
	assert.Equal(t, "keahlian", answer.Category)
	assert.NotEmpty(t, answer.Response)
}

func TestHandleAskValidation(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/ask", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/ask", []byte(`{"question": ""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/ask", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAskKeepsSession(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/ask", []byte(`{"question": "apa keahlian kamu"}`))
	var first engine.Answer
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	body, _ := json.Marshal(map[string]string{
		"question":   "terus gimana dengan yang lain?",
		"session_id": first.SessionID,
	})
	rec = doRequest(t, server, http.MethodPost, "/api/v1/ask", body)

	var second engine.Answer
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "keahlian_followup", second.Category)
}

func TestHandleSearch(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/search?q=python", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response api.SearchResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "python", response.Query)
	assert.NotEmpty(t, response.Results)
	for _, result := range response.Results {
		assert.LessOrEqual(t, len(result.Text), 203)
	}
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTopics(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/topics?q=python&category=keahlian", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response api.TopicsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Topics)
}

func TestHandleStats(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats engine.Stats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, len(knowledge.FallbackCorpus()), stats.Index.DocumentCount)
}

func TestHandleRebuild(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/rebuild", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/rebuild", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, api.Options{})

	rec := doRequest(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var health api.HealthResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, len(knowledge.FallbackCorpus()), health.Documents)
}

func TestCORSHeaders(t *testing.T) {
	server := newTestServer(t, api.Options{AllowedOrigin: "https://portfolio.example"})

	rec := doRequest(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, "https://portfolio.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doRequest(t, server, http.MethodOptions, "/api/v1/ask", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiting(t *testing.T) {
	server := newTestServer(t, api.Options{RateLimitRPS: 1, RateLimitBurst: 2})

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := doRequest(t, server, http.MethodGet, "/health", nil)
		codes[rec.Code]++
	}

	assert.Equal(t, 2, codes[http.StatusOK], "burst of 2 must pass")
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}
