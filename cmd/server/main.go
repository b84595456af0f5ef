package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-assistant/backend/internal/api"
	"github.com/portfolio-assistant/backend/internal/cache"
	"github.com/portfolio-assistant/backend/internal/classifier"
	"github.com/portfolio-assistant/backend/internal/config"
	"github.com/portfolio-assistant/backend/internal/engine"
	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/internal/provider"
	"github.com/portfolio-assistant/backend/internal/search"
	"github.com/portfolio-assistant/backend/internal/session"
	"github.com/portfolio-assistant/backend/internal/storage"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

func main() {
	// Setup Logging
	_ = godotenv.Load()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "portfolio-assistant")

	entry.Info("Starting Portfolio Assistant API Service")

	// 1. Config
	cfg := config.Load()

	// 2. Storage
	store := storage.Open(storage.Config{
		Backend:    cfg.Storage.Backend,
		SQLitePath: cfg.Storage.SQLitePath,
	}, entry)
	defer store.Close()

	// 3. Knowledge corpus: data file first, persisted copy second,
	// built-in fallback last.
	var paths []string
	if cfg.Knowledge.DataPath != "" {
		paths = []string{cfg.Knowledge.DataPath}
	}
	loadCorpus := func() []knowledge.Document {
		return knowledge.Load(paths, store, entry)
	}
	docs := loadCorpus()
	if err := store.ReplaceAll(docs); err != nil {
		entry.WithError(err).Warn("Persisting corpus failed, continuing in memory")
	}

	// 4. Retrieval
	var normOpts []textproc.Option
	if cfg.Retrieval.EnableStemming {
		normOpts = append(normOpts, textproc.WithStemming())
	}
	norm := textproc.NewNormalizer(normOpts...)

	tuning, err := search.LoadTuning(cfg.Retrieval.TuningPath)
	if err != nil {
		entry.WithError(err).Warn("Tuning file unreadable, using defaults")
		tuning = search.DefaultTuning()
	}

	retriever := search.NewEngine(norm, tuning, entry)
	retriever.LoadDocuments(docs)

	// 5. Sessions
	sessions := session.NewManager(session.Config{
		Timeout:         cfg.Session.Timeout,
		MaxSessions:     cfg.Session.MaxSessions,
		CleanupInterval: cfg.Session.CleanupInterval,
	}, entry)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Start(ctx)

	// 6. Response cache
	var responseCache *cache.ResponseCache
	if cfg.Cache.Enabled {
		responseCache = cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}

	// 7. Engine
	eng := engine.New(engine.Options{
		Normalizer: norm,
		Retriever:  retriever,
		Classifier: classifier.New(norm, entry),
		Sessions:   sessions,
		Cache:      responseCache,
		Providers:  buildProviders(cfg, entry),
		Store:      store,
		Reload:     loadCorpus,
		Metrics:    metrics.NewCollector(),
		TopK:       cfg.Retrieval.TopK,
		Logger:     entry,
	})

	// 8. API Server
	server := api.NewServer(eng, entry, api.Options{
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	entry.Infof("Portfolio Assistant API ready on %s", cfg.Server.Port)
	if err := server.Start(cfg.Server.Port); err != nil {
		entry.Fatal(err)
	}
}

func buildProviders(cfg *config.Config, log *logrus.Entry) []provider.LLMProvider {
	var providers []provider.LLMProvider

	gemini := func() {
		if cfg.AI.GeminiAPIKey != "" {
			providers = append(providers, provider.NewGeminiProvider(cfg.AI.GeminiBaseURL, cfg.AI.GeminiModel, cfg.AI.GeminiAPIKey))
		}
	}
	openai := func() {
		if cfg.AI.OpenAIAPIKey != "" {
			providers = append(providers, provider.NewOpenAIProvider(cfg.AI.OpenAIBaseURL, cfg.AI.OpenAIModel, cfg.AI.OpenAIAPIKey))
		}
	}

	// AI_PROVIDER picks which provider is tried first.
	if cfg.AI.Provider == "openai" {
		openai()
		gemini()
	} else {
		gemini()
		openai()
	}

	if len(providers) == 0 {
		log.Warn("No AI provider configured, answering from templates only")
	} else {
		names := make([]string, len(providers))
		for i, p := range providers {
			names[i] = p.Name()
		}
		log.Infof("AI providers configured: %v", names)
	}
	return providers
}
