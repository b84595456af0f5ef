package search

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights controls retrieval scoring. The defaults are empirically chosen
// against the portfolio corpus and encode no principled calibration; retune
// them against real query logs before trusting them elsewhere.
type Weights struct {
	KeywordHit     float64 `yaml:"keyword_hit"`
	TitleHit       float64 `yaml:"title_hit"`
	ContentHit     float64 `yaml:"content_hit"`
	FuzzyHit       float64 `yaml:"fuzzy_hit"`
	FuzzyCutoff    float64 `yaml:"fuzzy_cutoff"`
	MaxFuzzy       int     `yaml:"max_fuzzy"`
	CosineScale    float64 `yaml:"cosine_scale"`
	KeywordBoost   float64 `yaml:"keyword_boost"`
	TitleBoost     float64 `yaml:"title_boost"`
	ScoreScale     float64 `yaml:"score_scale"`
	RelevanceFloor float64 `yaml:"relevance_floor"`
}

// Limits bounds the context builder and topic suggester output.
type Limits struct {
	ContextCap   int     `yaml:"context_cap"`
	ContextFloor float64 `yaml:"context_floor"`
	HighScore    float64 `yaml:"high_score"`
	MidScore     float64 `yaml:"mid_score"`
	HighTrim     int     `yaml:"high_trim"`
	MidTrim      int     `yaml:"mid_trim"`
	LowTrim      int     `yaml:"low_trim"`
	TopicFloor   float64 `yaml:"topic_floor"`
	TopicLimit   int     `yaml:"topic_limit"`
}

// Tuning bundles all retrieval knobs for loading from a single YAML file.
type Tuning struct {
	Weights Weights `yaml:"weights"`
	Limits  Limits  `yaml:"limits"`
}

func DefaultWeights() Weights {
	return Weights{
		KeywordHit:     5.0,
		TitleHit:       3.0,
		ContentHit:     1.0,
		FuzzyHit:       0.5,
		FuzzyCutoff:    0.8,
		MaxFuzzy:       3,
		CosineScale:    2.0,
		KeywordBoost:   3.0,
		TitleBoost:     2.0,
		ScoreScale:     10.0,
		RelevanceFloor: 0.1,
	}
}

func DefaultLimits() Limits {
	return Limits{
		ContextCap:   800,
		ContextFloor: 0.2,
		HighScore:    0.7,
		MidScore:     0.4,
		HighTrim:     300,
		MidTrim:      150,
		LowTrim:      100,
		TopicFloor:   0.3,
		TopicLimit:   3,
	}
}

func DefaultTuning() Tuning {
	return Tuning{Weights: DefaultWeights(), Limits: DefaultLimits()}
}

// LoadTuning reads tuning overrides from a YAML file. A missing file is not
// an error; defaults are returned so the engine always starts.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tuning, nil
		}
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return DefaultTuning(), fmt.Errorf("failed to parse tuning file: %w", err)
	}
	return tuning, nil
}
