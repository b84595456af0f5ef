package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/portfolio-assistant/backend/internal/engine"
	"github.com/portfolio-assistant/backend/internal/search"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux

	allowedOrigin  string
	requestTimeout time.Duration
	limiter        *ipLimiter
	startTime      time.Time
}

type Options struct {
	AllowedOrigin  string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

func NewServer(eng *engine.Engine, logger *logrus.Entry, opts Options) *Server {
	s := &Server{
		Engine:         eng,
		Logger:         logger,
		Router:         http.NewServeMux(),
		allowedOrigin:  opts.AllowedOrigin,
		requestTimeout: opts.RequestTimeout,
		startTime:      time.Now(),
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/ask", s.handleAsk)
	s.Router.HandleFunc("/api/v1/search", s.handleSearch)
	s.Router.HandleFunc("/api/v1/topics", s.handleTopics)
	s.Router.HandleFunc("/api/v1/stats", s.handleStats)
	s.Router.HandleFunc("/api/v1/rebuild", s.handleRebuild)
	s.Router.HandleFunc("/health", s.handleHealth)
	s.Router.HandleFunc("/rag-status", s.handleRAGStatus)
}

// Handler wraps the router with the middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	return s.corsMiddleware(h)
}

func (s *Server) Start(port string) error {
	s.Logger.Infof("Starting API Server on %s", port)
	return http.ListenAndServe(port, s.Handler())
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultView `json:"results"`
}

type SearchResultView struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Score    float64  `json:"score"`
	Matched  []string `json:"matched,omitempty"`
	Text     string   `json:"snippet"`
}

type TopicsResponse struct {
	Query  string   `json:"query"`
	Topics []string `json:"topics"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Uptime    string `json:"uptime"`
	Questions int64  `json:"questions_answered"`
}

// Handlers

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Question  string `json:"question"`
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if req.Question == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Question is required"})
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	answer := s.Engine.Ask(ctx, req.SessionID, req.Question)
	jsonResponse(w, http.StatusOK, answer)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	topK, _ := strconv.Atoi(r.URL.Query().Get("top_k"))
	hits := s.Engine.Search(query, topK, r.URL.Query().Get("category"))

	response := SearchResponse{
		Query:   query,
		Results: make([]SearchResultView, len(hits)),
	}

	for i, hit := range hits {
		txt := search.Truncate(hit.Document.Content, 200)
		response.Results[i] = SearchResultView{
			ID:       hit.Document.ID,
			Category: hit.Document.Category,
			Title:    hit.Document.Title,
			Score:    hit.Similarity,
			Matched:  hit.Matched,
			Text:     txt,
		}
	}

	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	topics := s.Engine.Topics(query, r.URL.Query().Get("category"))
	jsonResponse(w, http.StatusOK, TopicsResponse{Query: query, Topics: topics})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, http.StatusOK, s.Engine.Stats())
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.Engine.Rebuild()
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{"status": "rebuilt", "index": stats})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()
	resp := HealthResponse{
		Status:    "ok",
		Documents: stats.Index.DocumentCount,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}
	if stats.Metrics != nil {
		resp.Questions = stats.Metrics.Counters["questions_total"]
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleRAGStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.Engine.Stats())
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
