package langid

import (
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genText generates short texts mixing words of several scripts with digits and punctuation.
func genText() gopter.Gen {
	parts := []string{
		"hello", "world", "garten", "maison", "niño", "straße", "привет", "їжак", "мир", "سلام",
		"नमस्ते", "γεια", "שלום", "日本", "のテ", "안녕", "สวัสดี", "42", "!!", ",", " ", "😀",
	}
	return gen.SliceOfN(6, gen.IntRange(0, len(parts)-1)).Map(func(idx []int) string {
		var sb strings.Builder
		for _, i := range idx {
			sb.WriteString(parts[i])
			sb.WriteString(" ")
		}
		return sb.String()
	})
}

func TestDetector_DistributionProperties(t *testing.T) {
	d, err := FromAllLanguages().Build()
	if err != nil {
		t.Fatal(err)
	}

	properties := gopter.NewProperties(nil)

	properties.Property("confidence values sum to 1 and are sorted", prop.ForAll(
		func(text string) bool {
			res := d.DetectDistribution(text)
			if len(res) == 0 {
				return len(splitWords(text)) == 0
			}
			sum := 0.0
			for i, c := range res {
				if c.Value < 0 || c.Value > 1 || math.IsNaN(c.Value) {
					return false
				}
				if i > 0 && res[i-1].Value < c.Value {
					return false
				}
				if i > 0 && res[i-1].Value == c.Value && res[i-1].Language > c.Language {
					return false
				}
				sum += c.Value
			}
			return math.Abs(sum-1) < 1e-9
		},
		genText(),
	))

	properties.Property("best language is the top of distribution", prop.ForAll(
		func(text string) bool {
			res := d.DetectDistribution(text)
			lang, ok := d.DetectBest(text)
			if len(res) == 0 {
				return !ok
			}
			return ok && lang == res[0].Language
		},
		genText(),
	))

	properties.Property("arbitrary strings never break detection", prop.ForAll(
		func(text string) bool {
			res := d.DetectDistribution(text)
			sum := 0.0
			for _, c := range res {
				sum += c.Value
			}
			return len(res) == 0 || math.Abs(sum-1) < 1e-9
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestResolveConfidence_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("higher score gets higher confidence", prop.ForAll(
		func(a, b float64) bool {
			res := resolveConfidence([]langScore{{English, -a}, {German, -b}})
			conf := map[Language]float64{res[0].Language: res[0].Value, res[1].Language: res[1].Value}
			switch {
			case a < b:
				return conf[English] > conf[German]
			case a > b:
				return conf[German] > conf[English]
			default:
				return conf[English] == conf[German]
			}
		},
		gen.Float64Range(1, 1e6),
		gen.Float64Range(1, 1e6),
	))

	properties.Property("threshold is monotonic", prop.ForAll(
		func(a, b, low, high float64) bool {
			if low > high {
				low, high = high, low
			}
			res := resolveConfidence([]langScore{{English, -a}, {German, -b}})
			_, okHigh := BestLanguage(res, high)
			_, okLow := BestLanguage(res, low)
			return !okHigh || okLow
		},
		gen.Float64Range(1, 1e6),
		gen.Float64Range(1, 1e6),
		gen.Float64Range(0, 0.99),
		gen.Float64Range(0, 0.99),
	))

	properties.TestingRun(t)
}
