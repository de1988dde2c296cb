package langid

// Candidate is a language given either directly or by a name to resolve at build time.
type Candidate struct {
	lang Language
	name string
}

// Lang makes a candidate from a language.
func Lang(l Language) Candidate { return Candidate{lang: l} }

// Name makes a candidate from a language name or ISO code.
func Name(s string) Candidate { return Candidate{name: s} }

func (c Candidate) resolve() (Language, error) {
	if c.lang != Unknown {
		if int(c.lang) >= len(registry) {
			return Unknown, &UnknownLanguageError{Name: c.lang.String()}
		}
		return c.lang, nil
	}
	return ParseLanguage(c.name)
}

// DetectorBuilder collects detector settings, Build validates them and makes the detector.
type DetectorBuilder struct {
	cfg Config
}

// NewDetectorBuilder makes a builder for the given candidates, no candidates means all languages.
func NewDetectorBuilder(candidates ...Candidate) *DetectorBuilder {
	return &DetectorBuilder{cfg: Config{Languages: candidates}}
}

// FromLanguages makes a builder for the given languages.
func FromLanguages(langs ...Language) *DetectorBuilder {
	cc := make([]Candidate, 0, len(langs))
	for _, l := range langs {
		cc = append(cc, Lang(l))
	}
	return NewDetectorBuilder(cc...)
}

// FromNames makes a builder for languages given by names or ISO codes.
func FromNames(names ...string) *DetectorBuilder {
	cc := make([]Candidate, 0, len(names))
	for _, n := range names {
		cc = append(cc, Name(n))
	}
	return NewDetectorBuilder(cc...)
}

// FromAllLanguages makes a builder for all supported languages.
func FromAllLanguages() *DetectorBuilder { return FromLanguages(All()...) }

// FromAllSpokenLanguages makes a builder for all languages still in active use.
func FromAllSpokenLanguages() *DetectorBuilder { return FromLanguages(AllSpoken()...) }

// WithPreloadedLanguageModels makes Build load all models at once.
func (b *DetectorBuilder) WithPreloadedLanguageModels() *DetectorBuilder {
	b.cfg.Preload = true
	return b
}

// WithMinimumRelativeDistance sets the minimal lead required by DetectBest.
func (b *DetectorBuilder) WithMinimumRelativeDistance(d float64) *DetectorBuilder {
	b.cfg.MinimumRelativeDistance = d
	return b
}

// WithModelSource sets the source of language models.
func (b *DetectorBuilder) WithModelSource(src ModelSource) *DetectorBuilder {
	b.cfg.Source = src
	return b
}

// Build makes the detector, see NewDetector for errors.
func (b *DetectorBuilder) Build() (*Detector, error) {
	return NewDetector(b.cfg)
}
