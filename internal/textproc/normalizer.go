package textproc

import (
	"regexp"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

var (
	urlPattern        = regexp.MustCompile(`https?://[^\s]+`)
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stopwords is a small fixed set for the corpus language (Indonesian with
// mixed-in English).
var stopwords = map[string]struct{}{
	"dan": {}, "atau": {}, "yang": {}, "dengan": {}, "dalam": {}, "untuk": {},
	"pada": {}, "dari": {}, "oleh": {}, "akan": {}, "adalah": {}, "dapat": {},
	"telah": {}, "sudah": {}, "belum": {}, "tidak": {}, "bukan": {}, "juga": {},
	"lebih": {}, "sangat": {}, "paling": {}, "saja": {}, "hanya": {}, "masih": {},
	"jadi": {}, "bisa": {}, "harus": {}, "itu": {}, "ini": {}, "saya": {},
	"anda": {}, "dia": {}, "mereka": {}, "kita": {}, "kami": {}, "tentang": {},
	"seperti": {}, "antara": {}, "melalui": {}, "selama": {}, "sebelum": {},
	"sesudah": {}, "the": {}, "and": {}, "for": {}, "with": {}, "about": {},
	"what": {}, "your": {}, "you": {}, "are": {}, "have": {},
}

const minTokenLength = 3

// Normalizer turns raw text into a sequence of search tokens. It is pure and
// safe for concurrent use.
type Normalizer struct {
	enableStemming bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStemming enables snowball stemming for English tokens. Off by default
// since the corpus is mostly Indonesian.
func WithStemming() Option {
	return func(n *Normalizer) { n.enableStemming = true }
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize lowercases the input, strips URLs, emails and punctuation,
// splits on whitespace and drops stopwords, short tokens and purely numeric
// tokens. Empty input yields an empty slice.
func (n *Normalizer) Normalize(text string) []string {
	cleaned := n.Clean(text)
	if cleaned == "" {
		return nil
	}

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, ".,?!-")
		if len(token) < minTokenLength {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if isNumeric(token) {
			continue
		}
		if n.enableStemming {
			token = snowballeng.Stem(token, false)
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Clean normalizes text without tokenizing: lowercase, no URLs or emails,
// punctuation reduced to the whitelist ".,?!-", single spaces.
func (n *Normalizer) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '?' || r == '!' || r == '-':
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(b.String(), " "))
}

func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
