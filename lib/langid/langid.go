// Package langid provides offline natural language identification. The primary type in this package
// is the Detector, which is used to identify the language of given texts among a set of candidate
// languages. It is initialized with parameters defined in the Config struct, or with DetectorBuilder.
//
// The Detector is immutable after construction and supports concurrent usage.
//
// Detection runs in stages:
//
//   - Normalization: text is lowercased, composed to NFC and split to words, i.e. runs of letters.
//     Digits, punctuation, emoji and spaces are separators. Text without letters has no signal,
//     DetectBest reports nothing and DetectDistribution returns an empty list.
//
//   - Script filter: candidates not written in any script found in the text are dropped. If the text
//     has characters used by a single candidate only (like German ß or Ukrainian ї), this candidate wins.
//     A single surviving candidate is returned with confidence 1.0 without scoring.
//
//   - Scoring: each surviving candidate gets a weighted sum of log-probabilities of all 1..5-grams
//     of the words, n-grams unseen in training get a smoothing floor of the language model.
//
//   - Confidence: scores are converted to relative values summing to 1. DetectBest returns the top
//     language only if it leads the runner-up by Config.MinimumRelativeDistance.
//
// Language models are compiled into the binary (EmbeddedSource) or read from a directory (DirSource).
// By default a model is loaded on the first use of its language, Config.Preload loads all of them
// at construction. A model failed to load excludes its language from scoring, see Detector.ModelErrors.
//
// Config provides the following options:
//
//   - Config.Languages defines candidate languages, given as Language values or names. Empty list means
//     all supported languages, a single distinct language is a configuration error.
//
//   - Config.MinimumRelativeDistance defines the ambiguity threshold, 0 disables it.
//
//   - Config.Preload defines whether to load all models at construction.
//
//   - Config.Source defines models source, embedded models by default.
package langid

//go:generate sh -c "cd ../.. && go run scripts/modelgen.go"
