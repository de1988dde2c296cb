package langid

import "fmt"

// ConfigError is returned by detector construction for invalid settings.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "invalid detector config: " + e.Reason }

// UnknownLanguageError is returned when a language name can't be resolved.
type UnknownLanguageError struct {
	Name string
}

func (e *UnknownLanguageError) Error() string { return fmt.Sprintf("unknown language %q", e.Name) }

// UnknownCodeError is returned when an ISO code can't be resolved.
type UnknownCodeError struct {
	Code     string
	Standard string // "ISO 639-1" or "ISO 639-3"
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown %s code %q", e.Standard, e.Code)
}

// ModelError reports a language model which can't be loaded or decoded.
type ModelError struct {
	Language Language
	Err      error
}

func (e *ModelError) Error() string { return fmt.Sprintf("model %s: %v", e.Language, e.Err) }

func (e *ModelError) Unwrap() error { return e.Err }
