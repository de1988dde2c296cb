package langid

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
)

//go:embed models/*.json.gz
var embeddedModels embed.FS

// ModelSource provides serialized language models, see NgramCounts.WriteTo for the format.
type ModelSource interface {
	Open(lang Language) (io.ReadCloser, error)
}

// FSSource reads models named "<iso639-1>.json.gz" from a file system.
type FSSource struct {
	FS  fs.FS
	Dir string // directory inside FS, "." if empty
}

// EmbeddedSource returns the source of models compiled into the binary.
func EmbeddedSource() *FSSource {
	return &FSSource{FS: embeddedModels, Dir: "models"}
}

// DirSource returns the source of models stored in a local directory.
func DirSource(dir string) *FSSource {
	return &FSSource{FS: os.DirFS(dir), Dir: "."}
}

// Open returns reader of the model file for the language.
func (s *FSSource) Open(lang Language) (io.ReadCloser, error) {
	if lang == Unknown || lang.IsoCode639_1() == "" {
		return nil, fmt.Errorf("no model for unknown language")
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	name := ModelFileName(lang)
	if dir != "." {
		name = dir + "/" + name
	}
	f, err := s.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file %s: %w", name, err)
	}
	return f, nil
}

// ModelFileName returns the file name of the language model asset.
func ModelFileName(lang Language) string {
	return lang.IsoCode639_1() + ".json.gz"
}
