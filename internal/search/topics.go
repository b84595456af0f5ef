package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// topicPrefixPattern strips generic category words from document titles so
// "keahlian python & data science" suggests as "Python & Data Science".
var topicPrefixPattern = regexp.MustCompile(`^(keahlian|pengalaman|proyek|project|hobi|profil)\s+`)

// fallbackTopics pads suggestions when retrieval finds too few, keyed by the
// detected query category.
var fallbackTopics = map[string][]string{
	"keahlian":   {"Python & Data Science", "Web Development", "Algoritma"},
	"proyek":     {"Rush Hour Puzzle Solver", "Little Alchemy Search", "Iq Puzzler Pro"},
	"pengalaman": {"Asisten Praktikum", "Komunitas Teknologi", "Datathon"},
	"personal":   {"Street Food Jakarta", "Novel Fantasy", "Musik Oldies"},
	"general":    {"Keahlian Teknis", "Project Highlights", "Hobi Dan Interests"},
}

// SuggestRelatedTopics derives short human-readable topic labels from the
// documents ranked for the query. category (may be empty) selects the
// fallback list used to pad the result up to the limit.
func (e *Engine) SuggestRelatedTopics(query, category string) []string {
	limit := e.limits.TopicLimit
	results := e.Retrieve(query, limit+2, "")

	type weighted struct {
		label string
		score float64
		order int
	}
	byLabel := make(map[string]*weighted)
	var labels []*weighted

	for _, result := range results {
		if result.Similarity <= e.limits.TopicFloor {
			continue
		}
		label := cleanTopicTitle(result.Document.Title)
		if label == "" {
			continue
		}
		if entry, ok := byLabel[label]; ok {
			entry.score += result.Similarity
			continue
		}
		entry := &weighted{label: label, score: result.Similarity, order: len(labels)}
		byLabel[label] = entry
		labels = append(labels, entry)
	}

	sort.Slice(labels, func(i, j int) bool {
		if labels[i].score != labels[j].score {
			return labels[i].score > labels[j].score
		}
		return labels[i].order < labels[j].order
	})

	topics := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, entry := range labels {
		if len(topics) >= limit {
			break
		}
		topics = append(topics, entry.label)
		seen[entry.label] = struct{}{}
	}

	if len(topics) < limit {
		for _, topic := range fallbackTopicsFor(category) {
			if len(topics) >= limit {
				break
			}
			if _, dup := seen[topic]; dup {
				continue
			}
			topics = append(topics, topic)
			seen[topic] = struct{}{}
		}
	}
	return topics
}

func fallbackTopicsFor(category string) []string {
	category = strings.TrimSuffix(category, "_followup")
	if strings.HasPrefix(category, "personal_") {
		category = "personal"
	}
	if topics, ok := fallbackTopics[category]; ok {
		return topics
	}
	return fallbackTopics["general"]
}

func cleanTopicTitle(title string) string {
	title = strings.TrimSpace(strings.ToLower(title))
	title = topicPrefixPattern.ReplaceAllString(title, "")
	return titleCase(title)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
