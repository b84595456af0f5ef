package storage

import (
	"github.com/sirupsen/logrus"

	"github.com/portfolio-assistant/backend/internal/knowledge"
)

// DocumentStore persists the knowledge corpus between restarts. The engine
// works entirely from its in-memory index; the store only replaces the data
// file when that file is absent.
type DocumentStore interface {
	ReplaceAll(docs []knowledge.Document) error
	LoadAll() ([]knowledge.Document, error)
	Name() string
	Close() error
}

// Config selects the storage backend.
type Config struct {
	Backend    string // "sqlite" or "memory"
	SQLitePath string
}

// Open probes the configured backend and falls back to the in-memory store
// when it is unavailable. Storage failure is never fatal: the assistant must
// always come up with some corpus.
func Open(cfg Config, logger *logrus.Entry) DocumentStore {
	if cfg.Backend == "sqlite" {
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Warn("SQLite storage unavailable, falling back to memory")
		} else {
			logger.Infof("Using sqlite document store at %s", cfg.SQLitePath)
			return store
		}
	}
	return NewMemoryStore()
}
