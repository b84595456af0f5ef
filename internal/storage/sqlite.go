package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/portfolio-assistant/backend/internal/knowledge"
)

// SQLiteStore persists the corpus in a single SQLite file so a deployment
// without the portfolio data file can still restart with its last corpus.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "data/portfolio.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		keywords TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// ReplaceAll swaps the stored corpus wholesale inside one transaction.
func (s *SQLiteStore) ReplaceAll(docs []knowledge.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO documents (id, category, title, content, keywords) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		keywords, err := json.Marshal(doc.Keywords)
		if err != nil {
			return fmt.Errorf("failed to encode keywords for %s: %w", doc.ID, err)
		}
		if _, err := stmt.Exec(doc.ID, doc.Category, doc.Title, doc.Content, string(keywords)); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadAll() ([]knowledge.Document, error) {
	rows, err := s.db.Query("SELECT id, category, title, content, keywords FROM documents ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []knowledge.Document
	for rows.Next() {
		var doc knowledge.Document
		var keywords string
		if err := rows.Scan(&doc.ID, &doc.Category, &doc.Title, &doc.Content, &keywords); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &doc.Keywords); err != nil {
			return nil, fmt.Errorf("failed to decode keywords: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
