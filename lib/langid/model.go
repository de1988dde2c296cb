package langid

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
)

// maxNgramLength is the longest n-gram order used for training and scoring
const maxNgramLength = 5

// NgramCounts holds raw n-gram occurrence counts of a language for orders 1 to 5.
// This is the persisted form of a language model.
type NgramCounts struct {
	Language Language
	Counts   [maxNgramLength]map[string]int // index 0 holds unigrams
}

// modelFile is the json layout of a model asset, ngrams keyed by order "1".."5"
type modelFile struct {
	Language string                    `json:"language"`
	Ngrams   map[string]map[string]int `json:"ngrams"`
}

// TrainNgramCounts counts all n-grams of orders 1 to 5 in the text read from r.
// N-grams never cross word boundaries.
func TrainNgramCounts(lang Language, r io.Reader) (*NgramCounts, error) {
	if lang == Unknown || int(lang) >= len(registry) {
		return nil, fmt.Errorf("can't train model for unknown language %d", lang)
	}
	res := newNgramCounts(lang)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, w := range splitWords(scanner.Text()) {
			eachNgram(w, func(n int, gram string) { res.Counts[n-1][gram]++ })
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s corpus: %w", lang, err)
	}
	return res, nil
}

// ReadNgramCounts decodes gzipped json model asset.
func ReadNgramCounts(r io.Reader) (*NgramCounts, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	var mf modelFile
	if err = json.NewDecoder(gz).Decode(&mf); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	lang, err := FromIsoCode639_1(mf.Language)
	if err != nil {
		return nil, fmt.Errorf("bad model language: %w", err)
	}

	res := newNgramCounts(lang)
	for key, grams := range mf.Ngrams {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > maxNgramLength {
			return nil, fmt.Errorf("bad ngram order %q", key)
		}
		for gram, count := range grams {
			if utf8.RuneCountInString(gram) != n {
				return nil, fmt.Errorf("ngram %q doesn't match order %d", gram, n)
			}
			if count <= 0 {
				return nil, fmt.Errorf("bad count %d for ngram %q", count, gram)
			}
			res.Counts[n-1][gram] = count
		}
	}
	// floors of an empty order are not comparable with other languages
	for i, grams := range res.Counts {
		if len(grams) == 0 {
			return nil, fmt.Errorf("model has no %d-grams", i+1)
		}
	}
	return res, nil
}

// WriteTo writes counts as gzipped json, keys are sorted so the output is reproducible.
func (c *NgramCounts) WriteTo(w io.Writer) (int64, error) {
	mf := modelFile{Language: c.Language.IsoCode639_1(), Ngrams: make(map[string]map[string]int, maxNgramLength)}
	for i, grams := range c.Counts {
		if grams == nil {
			grams = map[string]int{}
		}
		mf.Ngrams[strconv.Itoa(i+1)] = grams
	}
	data, err := json.Marshal(mf)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal %s model: %w", c.Language, err)
	}

	cw := &countingWriter{w: w}
	gz := gzip.NewWriter(cw)
	if _, err = gz.Write(data); err != nil {
		return cw.n, fmt.Errorf("failed to write %s model: %w", c.Language, err)
	}
	if err = gz.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to flush %s model: %w", c.Language, err)
	}
	return cw.n, nil
}

func newNgramCounts(lang Language) *NgramCounts {
	res := &NgramCounts{Language: lang}
	for i := range res.Counts {
		res.Counts[i] = map[string]int{}
	}
	return res
}

// NgramModel keeps smoothed log-probabilities of a language n-grams.
// It is immutable after construction and safe for concurrent use.
type NgramModel struct {
	lang  Language
	logp  [maxNgramLength]map[string]float64
	floor [maxNgramLength]float64 // log-probability of unseen n-grams
}

// NewNgramModel converts raw counts to add-one smoothed log-probabilities.
// For each order with total count T and V distinct n-grams, seen n-gram with count c
// gets ln((c+1)/(T+V)) and unseen one gets ln(1/(T+V)). An order without n-grams
// inherits the denominator of the nearest lower order, so its floor is never above
// the floor of that order.
func NewNgramModel(c *NgramCounts) *NgramModel {
	res := &NgramModel{lang: c.Language}
	denom := 1.0
	for i, grams := range c.Counts {
		total := 0
		for _, cnt := range grams {
			total += cnt
		}
		if len(grams) > 0 {
			denom = float64(total + len(grams))
		}
		res.logp[i] = make(map[string]float64, len(grams))
		for gram, cnt := range grams {
			res.logp[i][gram] = math.Log(float64(cnt+1) / denom)
		}
		res.floor[i] = math.Log(1 / denom)
	}
	return res
}

// Language returns the language of the model.
func (m *NgramModel) Language() Language { return m.lang }

// LogProbability returns smoothed log-probability of the n-gram, order is the rune count.
func (m *NgramModel) LogProbability(gram string) float64 {
	n := utf8.RuneCountInString(gram)
	if n < 1 || n > maxNgramLength {
		return math.Inf(-1)
	}
	if lp, ok := m.logp[n-1][gram]; ok {
		return lp
	}
	return m.floor[n-1]
}

// eachNgram calls fn for every n-gram of orders 1 to 5 inside the word.
// N-grams are substrings of the word, no allocation is made.
func eachNgram(word string, fn func(n int, gram string)) {
	offsets := make([]int, 0, len(word)+1)
	for i := range word {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(word))
	runes := len(offsets) - 1
	for n := 1; n <= maxNgramLength && n <= runes; n++ {
		for i := 0; i+n <= runes; i++ {
			fn(n, word[offsets[i]:offsets[i+n]])
		}
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
