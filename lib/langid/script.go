package langid

import (
	"fmt"
	"strings"
	"unicode"
)

// Script is a writing system used to prune candidate languages before scoring.
type Script uint8

// enum of supported scripts
const (
	ScriptUnknown Script = iota
	ScriptArabic
	ScriptArmenian
	ScriptCyrillic
	ScriptDevanagari
	ScriptGeorgian
	ScriptGreek
	ScriptHan
	ScriptHangul
	ScriptHebrew
	ScriptHiragana
	ScriptKatakana
	ScriptLatin
	ScriptThai
)

var scriptTables = [...]*unicode.RangeTable{
	ScriptArabic:     unicode.Arabic,
	ScriptArmenian:   unicode.Armenian,
	ScriptCyrillic:   unicode.Cyrillic,
	ScriptDevanagari: unicode.Devanagari,
	ScriptGeorgian:   unicode.Georgian,
	ScriptGreek:      unicode.Greek,
	ScriptHan:        unicode.Han,
	ScriptHangul:     unicode.Hangul,
	ScriptHebrew:     unicode.Hebrew,
	ScriptHiragana:   unicode.Hiragana,
	ScriptKatakana:   unicode.Katakana,
	ScriptLatin:      unicode.Latin,
	ScriptThai:       unicode.Thai,
}

var scriptNames = [...]string{
	ScriptUnknown:    "Unknown",
	ScriptArabic:     "Arabic",
	ScriptArmenian:   "Armenian",
	ScriptCyrillic:   "Cyrillic",
	ScriptDevanagari: "Devanagari",
	ScriptGeorgian:   "Georgian",
	ScriptGreek:      "Greek",
	ScriptHan:        "Han",
	ScriptHangul:     "Hangul",
	ScriptHebrew:     "Hebrew",
	ScriptHiragana:   "Hiragana",
	ScriptKatakana:   "Katakana",
	ScriptLatin:      "Latin",
	ScriptThai:       "Thai",
}

// lookup order for scriptOf, most frequent scripts first
var scriptLookupOrder = []Script{
	ScriptLatin, ScriptCyrillic, ScriptArabic, ScriptHan, ScriptDevanagari, ScriptHiragana, ScriptKatakana,
	ScriptHangul, ScriptGreek, ScriptHebrew, ScriptThai, ScriptGeorgian, ScriptArmenian,
}

// Scripts returns all supported scripts.
func Scripts() []Script {
	res := make([]Script, 0, len(scriptNames)-1)
	for s := ScriptArabic; int(s) < len(scriptNames); s++ {
		res = append(res, s)
	}
	return res
}

// ParseScript returns a script by its case-insensitive name, i.e. "latin" or "Cyrillic".
func ParseScript(name string) (Script, error) {
	for s := ScriptArabic; int(s) < len(scriptNames); s++ {
		if strings.EqualFold(scriptNames[s], strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return ScriptUnknown, fmt.Errorf("unknown script %q", name)
}

// String returns the name of the script.
func (s Script) String() string {
	if int(s) < len(scriptNames) {
		return scriptNames[s]
	}
	return scriptNames[ScriptUnknown]
}

// MarshalText implements encoding.TextMarshaler, scripts are serialized by lowercase name.
func (s Script) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// scriptSet is a bit set of scripts
type scriptSet uint32

func (ss scriptSet) with(s Script) scriptSet { return ss | 1<<s }

func (ss scriptSet) has(s Script) bool { return ss&(1<<s) != 0 }

func (ss scriptSet) overlaps(other scriptSet) bool { return ss&other != 0 }

// scriptOf returns the supported script of the rune, ScriptUnknown for marks, digits,
// punctuation and letters of unsupported writing systems.
func scriptOf(r rune) Script {
	if r < 0x80 {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return ScriptLatin
		}
		return ScriptUnknown
	}
	for _, s := range scriptLookupOrder {
		if unicode.Is(scriptTables[s], r) {
			return s
		}
	}
	return ScriptUnknown
}

// UnmarshalText implements encoding.TextUnmarshaler, accepts any case of the script name.
func (s *Script) UnmarshalText(text []byte) error {
	res, err := ParseScript(string(text))
	if err != nil {
		return err
	}
	*s = res
	return nil
}
