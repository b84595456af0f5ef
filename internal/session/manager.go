package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config bounds the session store.
type Config struct {
	Timeout         time.Duration
	MaxSessions     int
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:         60 * time.Minute,
		MaxSessions:     1000,
		CleanupInterval: 5 * time.Minute,
	}
}

// Stats summarizes the session store for admin endpoints.
type Stats struct {
	ActiveSessions int `json:"active_sessions"`
	TotalSessions  int `json:"total_sessions"`
	TotalQuestions int `json:"total_questions"`
}

// Manager owns all live sessions. Expired sessions are dropped by a periodic
// cleanup loop started with Start.
type Manager struct {
	cfg     Config
	logger  *logrus.Entry
	onEvict func(id string)

	mu       sync.RWMutex
	sessions map[string]*Session

	statsMu        sync.Mutex
	totalSessions  int
	totalQuestions int
}

func NewManager(cfg Config, logger *logrus.Entry) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// OnEvict registers a callback fired whenever a session leaves the store
// (expiry, cap eviction, or replacement of an expired id), so collaborators
// holding per-session state can release it. The callback runs with the
// manager's lock held and must not call back into the manager.
func (m *Manager) OnEvict(fn func(id string)) {
	m.mu.Lock()
	m.onEvict = fn
	m.mu.Unlock()
}

func (m *Manager) notifyEvictLocked(id string) {
	if m.onEvict != nil {
		m.onEvict(id)
	}
}

// Start runs the expiry loop until the context is cancelled.
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// GetOrCreate returns the session for id, creating one when id is empty or
// unknown. The returned id is always usable for subsequent requests.
func (m *Manager) GetOrCreate(id string) (*Session, string) {
	if id != "" {
		m.mu.RLock()
		sess, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok && !m.expired(sess) {
			return sess, id
		}
	}

	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		if !m.expired(sess) {
			return sess, id
		}
		// the id is being reused; state attached to the dead session
		// must not leak into the new one
		delete(m.sessions, id)
		m.notifyEvictLocked(id)
	}
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.evictOldestLocked()
	}
	sess := newSession(id, time.Now())
	m.sessions[id] = sess

	m.statsMu.Lock()
	m.totalSessions++
	m.statsMu.Unlock()

	return sess, id
}

// Get returns the live session for id, or nil if unknown or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || m.expired(sess) {
		return nil
	}
	return sess
}

// CountQuestion feeds the aggregate counters.
func (m *Manager) CountQuestion() {
	m.statsMu.Lock()
	m.totalQuestions++
	m.statsMu.Unlock()
}

func (m *Manager) Stats() Stats {
	m.mu.RLock()
	active := 0
	for _, sess := range m.sessions {
		if !m.expired(sess) {
			active++
		}
	}
	m.mu.RUnlock()

	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return Stats{
		ActiveSessions: active,
		TotalSessions:  m.totalSessions,
		TotalQuestions: m.totalQuestions,
	}
}

func (m *Manager) expired(sess *Session) bool {
	return time.Since(sess.lastActive()) > m.cfg.Timeout
}

func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if m.expired(sess) {
			delete(m.sessions, id)
			m.notifyEvictLocked(id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Infof("Cleaned up %d expired sessions", removed)
	}
}

// evictOldestLocked drops the least recently active session to stay within
// the configured cap. Caller holds m.mu.
func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, sess := range m.sessions {
		at := sess.lastActive()
		if oldestID == "" || at.Before(oldestAt) {
			oldestID = id
			oldestAt = at
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		m.notifyEvictLocked(oldestID)
	}
}
