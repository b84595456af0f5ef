package classifier

import (
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/portfolio-assistant/backend/internal/session"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

// Classifier assigns a category label to a raw query, optionally consulting
// per-session conversational state for follow-up detection and continuity
// bonuses. It never fails: every query resolves to some category.
type Classifier struct {
	norm           *textproc.Normalizer
	logger         *logrus.Entry
	staleness      time.Duration
	maxTransitions int
}

// Option adjusts the classifier's context-decay gates.
type Option func(*Classifier)

// WithStaleness overrides how old the latest topic transition may be before
// follow-up context is considered spent.
func WithStaleness(d time.Duration) Option {
	return func(c *Classifier) { c.staleness = d }
}

// WithMaxTransitions overrides how many topic hops a conversation may take
// before follow-up context is considered spent.
func WithMaxTransitions(n int) Option {
	return func(c *Classifier) { c.maxTransitions = n }
}

func New(norm *textproc.Normalizer, logger *logrus.Entry, opts ...Option) *Classifier {
	c := &Classifier{
		norm:           norm,
		logger:         logger,
		staleness:      5 * time.Minute,
		maxTransitions: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify runs the ordered decision rules; the order is a deliberate
// priority, not incidental. state may be nil for stateless classification.
func (c *Classifier) Classify(query string, state *session.Session) string {
	cleaned := c.norm.Clean(query)
	tokens := c.norm.Normalize(query)

	// 1. Gibberish, unless a whitelisted short term vouches for the query.
	if !c.hasWhitelistedTerm(cleaned) && c.looksLikeGibberish(cleaned, tokens) {
		return CategoryGibberish
	}

	// 2. Recruitment pitch.
	for _, pattern := range recruitmentPatterns {
		if pattern.MatchString(cleaned) {
			return CategoryRecruitment
		}
	}

	// 3. Follow-up, gated on live conversational context.
	if category, ok := c.detectFollowup(cleaned, state); ok {
		return category
	}

	// 4. Personal-sensitive sub-categories outrank topic matching so privacy
	// redirection never loses to an incidental technical keyword.
	for _, sub := range personalSubcategories {
		for _, keyword := range sub.keywords {
			if containsKeyword(cleaned, tokens, keyword) {
				return "personal_" + sub.name
			}
		}
	}

	// 5. Generic topic matching.
	if category := c.topicCategory(cleaned, tokens, state); category != "" {
		return category
	}

	// 6. Length fallback.
	if len(tokens) < 3 {
		return CategoryUnclear
	}
	return CategoryGeneral
}

// Related reports whether category b naturally continues a conversation
// about category a: identical, adjacent, or the follow-up form.
func Related(a, b string) bool {
	a, b = BaseCategory(a), BaseCategory(b)
	if a == "" || b == "" || a == b {
		return true
	}
	for _, adj := range adjacency[a] {
		if adj == b {
			return true
		}
	}
	return false
}

// BaseCategory strips the follow-up suffix and collapses personal
// sub-categories to "personal".
func BaseCategory(category string) string {
	category = strings.TrimSuffix(category, "_followup")
	if strings.HasPrefix(category, "personal_") {
		return "personal"
	}
	return category
}

// IsTopic reports whether the category is a retrievable topic rather than a
// control label (gibberish, recruitment, unclear).
func IsTopic(category string) bool {
	base := BaseCategory(category)
	for _, cat := range topicCategories {
		if cat.name == base {
			return true
		}
	}
	return base == CategoryGeneral
}

func (c *Classifier) hasWhitelistedTerm(cleaned string) bool {
	for _, word := range strings.Fields(cleaned) {
		if _, ok := shortTermWhitelist[strings.Trim(word, ".,?!-")]; ok {
			return true
		}
	}
	return false
}

func (c *Classifier) looksLikeGibberish(cleaned string, tokens []string) bool {
	if cleaned == "" {
		return false
	}
	if len(strings.Fields(cleaned)) < 2 && !c.hasDomainTerm(tokens) {
		return true
	}
	if maxConsonantRun(cleaned) >= 4 {
		return true
	}
	if ratio, alpha := vowelRatio(cleaned); alpha > 0 && ratio < 0.1 {
		return true
	}
	return false
}

func (c *Classifier) hasDomainTerm(tokens []string) bool {
	for _, token := range tokens {
		for _, cat := range topicCategories {
			for _, keyword := range cat.keywords {
				if token == keyword {
					return true
				}
			}
		}
	}
	return false
}

func (c *Classifier) detectFollowup(cleaned string, state *session.Session) (string, bool) {
	if state == nil || state.HistoryLen() == 0 {
		return "", false
	}
	last := BaseCategory(state.LastCategory())
	if last == "" || !IsTopic(last) {
		return "", false
	}

	matched := false
	for _, pattern := range followupPatterns {
		if pattern.MatchString(cleaned) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	if !c.contextStillRelevant(state) {
		return "", false
	}

	// A follow-up that clearly jumped to an unrelated topic is not a
	// follow-up.
	if tentative := c.scoreTopics(cleaned, nil, nil); tentative != "" && !Related(tentative, last) {
		return "", false
	}

	return last + "_followup", true
}

// contextStillRelevant models conversational decay: context is spent after
// too many topic hops or when the latest hop is stale.
func (c *Classifier) contextStillRelevant(state *session.Session) bool {
	if state.TransitionCount() > c.maxTransitions {
		return false
	}
	if last, ok := state.LastTransition(); ok {
		if time.Since(last.At) > c.staleness {
			return false
		}
	}
	return true
}

func (c *Classifier) topicCategory(cleaned string, tokens []string, state *session.Session) string {
	var lastCategory string
	var mentioned []string
	if state != nil {
		lastCategory = BaseCategory(state.LastCategory())
		mentioned = state.MentionedItems()
	}
	return c.scoreTopics(cleaned, tokens, &topicScoringContext{
		lastCategory: lastCategory,
		mentioned:    mentioned,
	})
}

type topicScoringContext struct {
	lastCategory string
	mentioned    []string
}

// scoreTopics scores every topic category by keyword overlap: 1 for a single
// word, 2 for a phrase, +1 continuity with the previous category, +0.5 per
// mentioned item overlapping the category's keyword list. Ties resolve to
// the earlier-declared category.
func (c *Classifier) scoreTopics(cleaned string, tokens []string, sctx *topicScoringContext) string {
	if tokens == nil {
		tokens = strings.Fields(cleaned)
	}
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		tokenSet[token] = struct{}{}
	}

	best := ""
	bestScore := 0.0
	for _, cat := range topicCategories {
		score := 0.0
		for _, keyword := range cat.keywords {
			if strings.Contains(keyword, " ") {
				if strings.Contains(cleaned, keyword) {
					score += 2
				}
			} else if _, ok := tokenSet[keyword]; ok {
				score += 1
			}
		}
		if sctx != nil {
			if cat.name == sctx.lastCategory {
				score += 1
			}
			for _, item := range sctx.mentioned {
				for _, keyword := range cat.keywords {
					if item == keyword {
						score += 0.5
						break
					}
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat.name
		}
	}
	return best
}

func containsKeyword(cleaned string, tokens []string, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(cleaned, keyword)
	}
	for _, token := range tokens {
		if token == keyword {
			return true
		}
	}
	// Short sensitive keywords can fall under the normalizer's length
	// filter, so check raw fields too.
	for _, field := range strings.Fields(cleaned) {
		if strings.Trim(field, ".,?!-") == keyword {
			return true
		}
	}
	return false
}

func maxConsonantRun(text string) int {
	run, longest := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) && !isVowel(r) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func vowelRatio(text string) (float64, int) {
	vowels, alpha := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		alpha++
		if isVowel(r) {
			vowels++
		}
	}
	if alpha == 0 {
		return 0, 0
	}
	return float64(vowels) / float64(alpha), alpha
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
