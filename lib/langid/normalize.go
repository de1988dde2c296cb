package langid

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// splitWords lowercases text, composes it to NFC and splits to words.
// A word is a maximal run of letters and combining marks, everything else separates words.
// Marks are kept to preserve Devanagari vowel signs and Hebrew points.
func splitWords(text string) []string {
	if text == "" {
		return nil
	}
	// caser is stateful and can't be shared between goroutines
	lowered := norm.NFC.String(cases.Lower(language.Und).String(text))

	var words []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			words = append(words, sb.String())
			sb.Reset()
		}
	}
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsMark(r):
			sb.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

// textScripts returns the set of supported scripts found in words.
func textScripts(words []string) scriptSet {
	var res scriptSet
	for _, w := range words {
		for _, r := range w {
			if s := scriptOf(r); s != ScriptUnknown {
				res = res.with(s)
			}
		}
	}
	return res
}
