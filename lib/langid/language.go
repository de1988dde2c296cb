package langid

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Language is one of the supported natural languages. Languages are ordered
// alphabetically by name, the order is used to break ties deterministically.
type Language uint8

// enum of supported languages
const (
	Unknown Language = iota
	Arabic
	Armenian
	Azerbaijani
	Bulgarian
	Chinese
	Dutch
	English
	Esperanto
	French
	Georgian
	German
	Greek
	Hebrew
	Hindi
	Italian
	Japanese
	Korean
	Latin
	Marathi
	Persian
	Polish
	Portuguese
	Russian
	Spanish
	Thai
	Turkish
	Ukrainian
	Urdu
)

type languageInfo struct {
	name    string
	iso1    string
	iso3    string
	scripts scriptSet
	unique  *unicode.RangeTable // characters used by this language only among the supported ones
	spoken  bool
}

func scripts(ss ...Script) scriptSet {
	var res scriptSet
	for _, s := range ss {
		res = res.with(s)
	}
	return res
}

func chars(s string) *unicode.RangeTable {
	return rangetable.New([]rune(s)...)
}

var registry = [...]languageInfo{
	Unknown:     {name: "Unknown"},
	Arabic:      {name: "Arabic", iso1: "ar", iso3: "ara", scripts: scripts(ScriptArabic), spoken: true},
	Armenian:    {name: "Armenian", iso1: "hy", iso3: "hye", scripts: scripts(ScriptArmenian), spoken: true},
	Azerbaijani: {name: "Azerbaijani", iso1: "az", iso3: "aze", scripts: scripts(ScriptLatin), unique: chars("ə"), spoken: true},
	Bulgarian:   {name: "Bulgarian", iso1: "bg", iso3: "bul", scripts: scripts(ScriptCyrillic), spoken: true},
	Chinese:     {name: "Chinese", iso1: "zh", iso3: "zho", scripts: scripts(ScriptHan), spoken: true},
	Dutch:       {name: "Dutch", iso1: "nl", iso3: "nld", scripts: scripts(ScriptLatin), spoken: true},
	English:     {name: "English", iso1: "en", iso3: "eng", scripts: scripts(ScriptLatin), spoken: true},
	Esperanto:   {name: "Esperanto", iso1: "eo", iso3: "epo", scripts: scripts(ScriptLatin), unique: chars("ĉĝĥĵŝŭ")},
	French:      {name: "French", iso1: "fr", iso3: "fra", scripts: scripts(ScriptLatin), unique: chars("œ"), spoken: true},
	Georgian:    {name: "Georgian", iso1: "ka", iso3: "kat", scripts: scripts(ScriptGeorgian), spoken: true},
	German:      {name: "German", iso1: "de", iso3: "deu", scripts: scripts(ScriptLatin), unique: chars("ß"), spoken: true},
	Greek:       {name: "Greek", iso1: "el", iso3: "ell", scripts: scripts(ScriptGreek), spoken: true},
	Hebrew:      {name: "Hebrew", iso1: "he", iso3: "heb", scripts: scripts(ScriptHebrew), spoken: true},
	Hindi:       {name: "Hindi", iso1: "hi", iso3: "hin", scripts: scripts(ScriptDevanagari), spoken: true},
	Italian:     {name: "Italian", iso1: "it", iso3: "ita", scripts: scripts(ScriptLatin), unique: chars("ìò"), spoken: true},
	Japanese: {name: "Japanese", iso1: "ja", iso3: "jpn", scripts: scripts(ScriptHiragana, ScriptKatakana, ScriptHan),
		unique: rangetable.Merge(unicode.Hiragana, unicode.Katakana), spoken: true},
	Korean:     {name: "Korean", iso1: "ko", iso3: "kor", scripts: scripts(ScriptHangul), spoken: true},
	Latin:      {name: "Latin", iso1: "la", iso3: "lat", scripts: scripts(ScriptLatin)},
	Marathi:    {name: "Marathi", iso1: "mr", iso3: "mar", scripts: scripts(ScriptDevanagari), unique: chars("ळ"), spoken: true},
	Persian:    {name: "Persian", iso1: "fa", iso3: "fas", scripts: scripts(ScriptArabic), spoken: true},
	Polish:     {name: "Polish", iso1: "pl", iso3: "pol", scripts: scripts(ScriptLatin), unique: chars("ąćęłńśźż"), spoken: true},
	Portuguese: {name: "Portuguese", iso1: "pt", iso3: "por", scripts: scripts(ScriptLatin), unique: chars("ãõ"), spoken: true},
	Russian:    {name: "Russian", iso1: "ru", iso3: "rus", scripts: scripts(ScriptCyrillic), unique: chars("ёыэ"), spoken: true},
	Spanish:    {name: "Spanish", iso1: "es", iso3: "spa", scripts: scripts(ScriptLatin), unique: chars("ñ"), spoken: true},
	Thai:       {name: "Thai", iso1: "th", iso3: "tha", scripts: scripts(ScriptThai), spoken: true},
	Turkish:    {name: "Turkish", iso1: "tr", iso3: "tur", scripts: scripts(ScriptLatin), spoken: true},
	Ukrainian:  {name: "Ukrainian", iso1: "uk", iso3: "ukr", scripts: scripts(ScriptCyrillic), unique: chars("ґєії"), spoken: true},
	Urdu:       {name: "Urdu", iso1: "ur", iso3: "urd", scripts: scripts(ScriptArabic), unique: chars("ٹڈڑںے"), spoken: true},
}

var (
	byIso1 = map[string]Language{}
	byIso3 = map[string]Language{}
	byName = map[string]Language{}
)

func init() {
	for _, l := range All() {
		info := registry[l]
		byIso1[info.iso1] = l
		byIso3[info.iso3] = l
		byName[strings.ToLower(info.name)] = l
	}
}

// All returns all supported languages.
func All() LanguageSet {
	res := make(LanguageSet, 0, len(registry)-1)
	for l := Arabic; int(l) < len(registry); l++ {
		res = append(res, l)
	}
	return res
}

// AllSpoken returns all supported languages still in active use, i.e. without Latin and Esperanto.
func AllSpoken() LanguageSet {
	return All().filter(func(l Language) bool { return registry[l].spoken })
}

// AllWithScript returns all supported languages written in the given script.
func AllWithScript(s Script) LanguageSet {
	return All().filter(func(l Language) bool { return registry[l].scripts.has(s) })
}

// AllWithArabicScript returns all supported languages written in Arabic script.
func AllWithArabicScript() LanguageSet { return AllWithScript(ScriptArabic) }

// AllWithCyrillicScript returns all supported languages written in Cyrillic script.
func AllWithCyrillicScript() LanguageSet { return AllWithScript(ScriptCyrillic) }

// AllWithDevanagariScript returns all supported languages written in Devanagari script.
func AllWithDevanagariScript() LanguageSet { return AllWithScript(ScriptDevanagari) }

// AllWithLatinScript returns all supported languages written in Latin script.
func AllWithLatinScript() LanguageSet { return AllWithScript(ScriptLatin) }

// FromIsoCode639_1 returns the language for a two-letter ISO 639-1 code, case-insensitive.
func FromIsoCode639_1(code string) (Language, error) { //nolint:revive,stylecheck // iso code naming
	if l, ok := byIso1[strings.ToLower(strings.TrimSpace(code))]; ok {
		return l, nil
	}
	return Unknown, &UnknownCodeError{Code: code, Standard: "ISO 639-1"}
}

// FromIsoCode639_3 returns the language for a three-letter ISO 639-3 code, case-insensitive.
func FromIsoCode639_3(code string) (Language, error) { //nolint:revive,stylecheck // iso code naming
	if l, ok := byIso3[strings.ToLower(strings.TrimSpace(code))]; ok {
		return l, nil
	}
	return Unknown, &UnknownCodeError{Code: code, Standard: "ISO 639-3"}
}

// ParseLanguage returns a language by its case-insensitive name, like "english" or "German".
// ISO 639-1 and ISO 639-3 codes are accepted as well.
func ParseLanguage(name string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if l, ok := byName[key]; ok {
		return l, nil
	}
	if l, ok := byIso1[key]; ok {
		return l, nil
	}
	if l, ok := byIso3[key]; ok {
		return l, nil
	}
	return Unknown, &UnknownLanguageError{Name: name}
}

// String returns lowercase name of the language.
func (l Language) String() string { return strings.ToLower(l.info().name) }

// Name returns capitalized name of the language.
func (l Language) Name() string { return l.info().name }

// IsoCode639_1 returns two-letter ISO 639-1 code, empty for Unknown.
func (l Language) IsoCode639_1() string { return l.info().iso1 } //nolint:revive,stylecheck // iso code naming

// IsoCode639_3 returns three-letter ISO 639-3 code, empty for Unknown.
func (l Language) IsoCode639_3() string { return l.info().iso3 } //nolint:revive,stylecheck // iso code naming

// Scripts returns scripts the language is written in.
func (l Language) Scripts() []Script {
	var res []Script
	for _, s := range Scripts() {
		if l.info().scripts.has(s) {
			res = append(res, s)
		}
	}
	return res
}

// Spoken reports whether the language is still in active use.
func (l Language) Spoken() bool { return l.info().spoken }

// MarshalText implements encoding.TextMarshaler
func (l Language) MarshalText() ([]byte, error) {
	if l == Unknown || int(l) >= len(registry) {
		return nil, fmt.Errorf("can't marshal language %d", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Language) UnmarshalText(text []byte) error {
	res, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = res
	return nil
}

func (l Language) info() languageInfo {
	if int(l) < len(registry) {
		return registry[l]
	}
	return registry[Unknown]
}

// hasUnique reports whether r is one of the characters only this language uses.
func (l Language) hasUnique(r rune) bool {
	t := l.info().unique
	return t != nil && unicode.Is(t, r)
}

// LanguageSet is an ordered list of distinct languages.
type LanguageSet []Language

// NewLanguageSet makes a sorted set of distinct known languages, Unknown is skipped.
func NewLanguageSet(langs ...Language) LanguageSet {
	res := make(LanguageSet, 0, len(langs))
	for _, l := range langs {
		if l == Unknown || int(l) >= len(registry) {
			continue
		}
		res = append(res, l)
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// Contains reports whether the set has the language.
func (s LanguageSet) Contains(l Language) bool {
	_, found := slices.BinarySearch(s, l)
	return found
}

// Len returns the number of languages in the set.
func (s LanguageSet) Len() int { return len(s) }

// Languages returns a copy of the set as a plain slice.
func (s LanguageSet) Languages() []Language { return slices.Clone([]Language(s)) }

// Strings returns lowercase names of all languages in the set.
func (s LanguageSet) Strings() []string {
	res := make([]string, len(s))
	for i, l := range s {
		res[i] = l.String()
	}
	return res
}

func (s LanguageSet) filter(fn func(Language) bool) LanguageSet {
	res := LanguageSet{}
	for _, l := range s {
		if fn(l) {
			res = append(res, l)
		}
	}
	return res
}
