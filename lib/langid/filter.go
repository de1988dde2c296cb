package langid

// filterCandidates prunes candidates by the scripts found in words.
// Languages sharing no script with the text are dropped. If the text has characters
// unique to some language, the language with the most such characters wins outright,
// a tie between languages disables this override. Han text without kana is Chinese,
// Japanese is dropped if Chinese is a candidate. When nothing survives the filter
// the full candidate list is returned.
func filterCandidates(candidates LanguageSet, words []string) LanguageSet {
	found := textScripts(words)
	hanOnly := found.has(ScriptHan) && !found.has(ScriptHiragana) && !found.has(ScriptKatakana)
	survivors := make(LanguageSet, 0, len(candidates))
	for _, l := range candidates {
		if l == Japanese && hanOnly && candidates.Contains(Chinese) {
			continue
		}
		if registry[l].scripts.overlaps(found) {
			survivors = append(survivors, l)
		}
	}
	if len(survivors) == 0 {
		return candidates
	}
	if len(survivors) == 1 {
		return survivors
	}

	if l, ok := uniqueCharsWinner(survivors, words); ok {
		return LanguageSet{l}
	}
	return survivors
}

// uniqueCharsWinner returns the language with the most characters unique to it.
func uniqueCharsWinner(langs LanguageSet, words []string) (Language, bool) {
	hits := make(map[Language]int)
	for _, w := range words {
		for _, r := range w {
			if r < 0x80 {
				continue
			}
			for _, l := range langs {
				if l.hasUnique(r) {
					hits[l]++
				}
			}
		}
	}

	best, bestHits, tie := Unknown, 0, false
	for _, l := range langs {
		switch h := hits[l]; {
		case h > bestHits:
			best, bestHits, tie = l, h, false
		case h == bestHits && h > 0:
			tie = true
		}
	}
	if bestHits == 0 || tie {
		return Unknown, false
	}
	return best, true
}
