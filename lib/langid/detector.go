package langid

import (
	"fmt"
	"log"
)

// Config defines detector parameters
type Config struct {
	Languages               []Candidate // candidate languages, all supported languages if empty
	MinimumRelativeDistance float64     // minimal lead of the best language over the runner-up, in [0, 1)
	Preload                 bool        // load all models at construction instead of on first use
	Source                  ModelSource // models source, embedded models if nil
}

// Detector identifies the language of a text among the configured candidates.
// It is immutable after construction and safe for concurrent use.
type Detector struct {
	languages   LanguageSet
	minDistance float64
	preloaded   bool
	store       *modelStore
}

// NewDetector makes a detector from the config. It fails with *ConfigError if the config
// has a single distinct language or a bad distance, and with *UnknownLanguageError if a
// candidate name can't be resolved. With Preload set all models are loaded in parallel
// and the combined load error is returned.
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.MinimumRelativeDistance < 0 || cfg.MinimumRelativeDistance >= 1 {
		return nil, &ConfigError{Reason: fmt.Sprintf("minimum relative distance %v is out of [0, 1) range", cfg.MinimumRelativeDistance)}
	}

	langs := make([]Language, 0, len(cfg.Languages))
	for _, c := range cfg.Languages {
		l, err := c.resolve()
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	set := NewLanguageSet(langs...)
	switch len(set) {
	case 0:
		set = All()
	case 1:
		return nil, &ConfigError{Reason: fmt.Sprintf("at least two languages are required, got %s only", set[0])}
	}

	src := cfg.Source
	if src == nil {
		src = EmbeddedSource()
	}

	res := &Detector{
		languages:   set,
		minDistance: cfg.MinimumRelativeDistance,
		preloaded:   cfg.Preload,
		store:       newModelStore(src, set),
	}
	if cfg.Preload {
		if err := res.store.preload(set); err != nil {
			return nil, fmt.Errorf("failed to preload models: %w", err)
		}
		log.Printf("[DEBUG] preloaded %d language models", res.store.loaded())
	}
	return res, nil
}

// DetectBest returns the most likely language of the text. It returns false if the text has
// no letters, all candidate models failed, or the best language doesn't lead the runner-up
// by the minimum relative distance.
func (d *Detector) DetectBest(text string) (Language, bool) {
	return BestLanguage(d.DetectDistribution(text), d.minDistance)
}

// DetectDistribution returns confidence values of all scored candidates, highest first,
// summing to 1. The result is empty for a text without letters.
func (d *Detector) DetectDistribution(text string) []Confidence {
	words := splitWords(text)
	if len(words) == 0 {
		return []Confidence{}
	}

	candidates := filterCandidates(d.languages, words)
	if len(candidates) == 1 {
		return []Confidence{{Language: candidates[0], Value: 1.0}}
	}

	scores := make([]langScore, 0, len(candidates))
	for _, l := range candidates {
		m, err := d.store.get(l)
		if err != nil {
			continue // excluded, reported by ModelErrors
		}
		scores = append(scores, langScore{lang: l, score: scoreWords(m, words)})
	}
	return resolveConfidence(scores)
}

// Languages returns the candidate languages.
func (d *Detector) Languages() LanguageSet { return d.languages.Languages() }

// MinimumRelativeDistance returns the ambiguity threshold of DetectBest.
func (d *Detector) MinimumRelativeDistance() float64 { return d.minDistance }

// Preloaded reports whether models were loaded at construction.
func (d *Detector) Preloaded() bool { return d.preloaded }

// LoadedModels returns the number of models loaded so far.
func (d *Detector) LoadedModels() int { return d.store.loaded() }

// ModelErrors returns languages excluded from scoring because their models failed to load.
func (d *Detector) ModelErrors() map[Language]error { return d.store.errors() }
