package langid

import (
	"cmp"
	"slices"
)

// Confidence is a relative likelihood of a language, values of a distribution sum to 1.
type Confidence struct {
	Language Language `json:"language"`
	Value    float64  `json:"value"`
}

type langScore struct {
	lang  Language
	score float64
}

// resolveConfidence turns raw scores to a distribution sorted by value, highest first.
// Each language gets best/score, the ratios are normalized to sum to 1.
// Scores are sums of log-probabilities, i.e. not positive, so the best one gets the largest ratio.
func resolveConfidence(scores []langScore) []Confidence {
	if len(scores) == 0 {
		return []Confidence{}
	}
	best := scores[0].score
	for _, s := range scores[1:] {
		best = max(best, s.score)
	}

	res := make([]Confidence, 0, len(scores))
	total := 0.0
	for _, s := range scores {
		rel := 1.0
		if s.score != 0 {
			rel = best / s.score
		}
		res = append(res, Confidence{Language: s.lang, Value: rel})
		total += rel
	}
	for i := range res {
		res[i].Value /= total
	}
	sortConfidence(res)
	return res
}

// sortConfidence orders by value descending, ties by language order.
func sortConfidence(cc []Confidence) {
	slices.SortStableFunc(cc, func(a, b Confidence) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
}

// BestLanguage returns the top language of a sorted distribution if it leads the runner-up
// by at least minDistance. It reports false for an empty distribution.
func BestLanguage(cc []Confidence, minDistance float64) (Language, bool) {
	if len(cc) == 0 {
		return Unknown, false
	}
	if len(cc) > 1 && cc[0].Value-cc[1].Value < minDistance {
		return Unknown, false
	}
	return cc[0].Language, true
}
