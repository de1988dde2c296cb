// Package langcheck defines request, response and history types shared by the language detection
// service and its clients.
package langcheck

import (
	"fmt"
	"strings"
	"time"

	"github.com/umputun/langid/lib/langid"
)

// Request is a request to detect the language of a text.
type Request struct {
	Text string `json:"text"` // text to detect
}

func (r *Request) String() string {
	return fmt.Sprintf("text:%q", Shorten(r.Text, 64))
}

// Response is a result of language detection.
type Response struct {
	Language   string              `json:"language,omitempty"`   // lowercase language name, empty if not detected
	IsoCode    string              `json:"iso639_1,omitempty"`   // ISO 639-1 code of the language
	Detected   bool                `json:"detected"`             // false if text has no signal or detection is ambiguous
	Confidence []langid.Confidence `json:"confidence,omitempty"` // confidence distribution, only for distribution requests
}

// NewResponse makes a response from the detected language.
func NewResponse(lang langid.Language, ok bool) Response {
	if !ok {
		return Response{}
	}
	return Response{Language: lang.String(), IsoCode: lang.IsoCode639_1(), Detected: true}
}

func (r *Response) String() string {
	if !r.Detected {
		return "not detected"
	}
	res := fmt.Sprintf("%s (%s)", r.Language, r.IsoCode)
	if len(r.Confidence) > 0 {
		res += " " + ConfidenceToString(r.Confidence)
	}
	return res
}

// Record is a single detection kept in history.
type Record struct {
	Time       time.Time `json:"time" db:"ts"`
	Text       string    `json:"text" db:"text"`
	Language   string    `json:"language" db:"lang"`         // lowercase language name, empty if not detected
	Confidence float64   `json:"confidence" db:"confidence"` // confidence of the detected language
	Source     string    `json:"source" db:"source"`         // origin of the request, i.e. "api" or "cli"
}

// NewRecord makes a history record from the detected language and its distribution.
func NewRecord(text, source string, lang langid.Language, ok bool, dist []langid.Confidence) Record {
	res := Record{Time: time.Now(), Text: text, Source: source}
	if !ok {
		return res
	}
	res.Language = lang.String()
	for _, c := range dist {
		if c.Language == lang {
			res.Confidence = c.Value
			break
		}
	}
	return res
}

func (r *Record) String() string {
	lang := r.Language
	if lang == "" {
		lang = "-"
	}
	return fmt.Sprintf("%s %s %.4f %q", r.Time.Format(time.RFC3339), lang, r.Confidence, Shorten(r.Text, 64))
}

// ConfidenceToString converts a distribution to a string
func ConfidenceToString(dist []langid.Confidence) string {
	elems := []string{}
	for _, c := range dist {
		elems = append(elems, fmt.Sprintf("%s:%.4f", c.Language, c.Value))
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}

// Shorten cuts text to max runes, adding "..." if cut
func Shorten(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}
