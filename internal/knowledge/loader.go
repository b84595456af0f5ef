package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DefaultSearchPaths lists the locations tried for the portfolio data file,
// relative to the working directory.
var DefaultSearchPaths = []string{
	"data/portfolio.json",
	filepath.Join("backend", "data", "portfolio.json"),
	"portfolio.json",
}

// LoadFromFile reads and validates a JSON corpus file.
func LoadFromFile(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}

	valid := docs[:0]
	for _, doc := range docs {
		if doc.ID == "" || doc.Content == "" {
			continue
		}
		if doc.Category == "" {
			doc.Category = "general"
		}
		valid = append(valid, doc)
	}
	return valid, nil
}

// Store is the subset of the persistence layer the loader consults when no
// data file is usable.
type Store interface {
	LoadAll() ([]Document, error)
	Name() string
}

// Load resolves the corpus: each search path in order, then whatever the
// store (may be nil) holds from a previous run, then the built-in fallback.
// The engine always ends up with some corpus; a missing or corrupt file is
// never fatal.
func Load(paths []string, store Store, logger *logrus.Entry) []Document {
	if len(paths) == 0 {
		paths = DefaultSearchPaths
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		docs, err := LoadFromFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.WithError(err).Warnf("Skipping unreadable knowledge file %s", path)
			}
			continue
		}
		if len(docs) == 0 {
			logger.Warnf("Knowledge file %s exists but holds no documents", path)
			continue
		}
		logger.Infof("Loaded %d documents from %s", len(docs), path)
		return docs
	}

	if store != nil {
		if stored, err := store.LoadAll(); err == nil && len(stored) > 0 {
			logger.Infof("Loaded %d documents from %s store", len(stored), store.Name())
			return stored
		}
	}

	logger.Warn("No portfolio data found, using built-in fallback corpus")
	return FallbackCorpus()
}
