package session

import (
	"strings"
	"sync"
	"time"
)

// Tone labels the overall mood of a conversation.
type Tone string

const (
	ToneNeutral     Tone = "neutral"
	ToneCurious     Tone = "curious"
	ToneEngaged     Tone = "engaged"
	ToneChallenging Tone = "challenging"
)

const historyWindow = 10

var challengeMarkers = []string{"masa", "masak", "yakin", "really", "cuma", "hanya", "only", "doang"}

// Transition records a topic change within a conversation.
type Transition struct {
	From string
	To   string
	At   time.Time
}

// Session tracks one visitor's conversational state: last topic, mentioned
// entities, a bounded question history and topic transitions. All accessors
// lock internally; concurrent requests on the same session serialize here.
type Session struct {
	ID string

	mu            sync.Mutex
	createdAt     time.Time
	lastActivity  time.Time
	lastCategory  string
	mentioned     map[string]struct{}
	history       []string
	transitions   []Transition
	tone          Tone
	questionCount int
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		createdAt:    now,
		lastActivity: now,
		mentioned:    make(map[string]struct{}),
		tone:         ToneNeutral,
	}
}

// RecordQuestion appends the question to the bounded history, recomputes the
// tone and refreshes the activity timestamp.
func (s *Session) RecordQuestion(question string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, question)
	if len(s.history) > historyWindow {
		s.history = s.history[len(s.history)-historyWindow:]
	}
	s.questionCount++
	s.lastActivity = time.Now()
	s.tone = s.recomputeTone(question)
}

// RecordCategory registers the resolved topic of the latest question,
// appending a transition when the topic changed.
func (s *Session) RecordCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category == "" {
		return
	}
	if s.lastCategory != "" && s.lastCategory != category {
		s.transitions = append(s.transitions, Transition{
			From: s.lastCategory,
			To:   category,
			At:   time.Now(),
		})
	}
	s.lastCategory = category
}

// Mention adds entities (matched terms, technologies) to the session's
// mentioned-item set.
func (s *Session) Mention(items ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if item != "" {
			s.mentioned[strings.ToLower(item)] = struct{}{}
		}
	}
}

func (s *Session) LastCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCategory
}

func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]string, len(s.history))
	copy(history, s.history)
	return history
}

func (s *Session) MentionedItems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]string, 0, len(s.mentioned))
	for item := range s.mentioned {
		items = append(items, item)
	}
	return items
}

func (s *Session) TransitionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transitions)
}

// LastTransition returns the most recent topic transition, if any.
func (s *Session) LastTransition() (Transition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.transitions) == 0 {
		return Transition{}, false
	}
	return s.transitions[len(s.transitions)-1], true
}

func (s *Session) Tone() Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone
}

func (s *Session) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionCount
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// recomputeTone is called with the lock held.
func (s *Session) recomputeTone(question string) Tone {
	lower := strings.ToLower(question)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return ToneChallenging
		}
	}
	if len(s.history) >= 3 {
		return ToneEngaged
	}
	if len(s.history) >= 1 {
		return ToneCurious
	}
	return ToneNeutral
}
