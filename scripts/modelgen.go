//go:build ignore

// modelgen trains n-gram models from plain text corpora and writes them as gzipped json model assets.
// Corpus files are named "<iso639-1>.txt", i.e. data/corpus/de.txt makes lib/langid/models/de.json.gz.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/langid/lib/langid"
)

type options struct {
	Corpus string `long:"corpus" default:"data/corpus" description:"directory with <iso639-1>.txt corpus files"`
	Output string `long:"output" default:"lib/langid/models" description:"output directory for models"`
	Dbg    bool   `long:"dbg" description:"debug mode"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	logOpts := []lgr.Option{lgr.LevelBraces}
	if opts.Dbg {
		logOpts = append(logOpts, lgr.Debug)
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)

	files, err := filepath.Glob(filepath.Join(opts.Corpus, "*.txt"))
	if err != nil {
		log.Fatalf("[ERROR] can't list corpus files, %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("[ERROR] no corpus files in %s", opts.Corpus)
	}
	if err := os.MkdirAll(opts.Output, 0o750); err != nil {
		log.Fatalf("[ERROR] can't make output directory, %v", err)
	}

	for _, file := range files {
		if err := generate(file, opts.Output); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}
	log.Printf("[INFO] %d models written to %s", len(files), opts.Output)
}

func generate(file, outDir string) error {
	code := strings.TrimSuffix(filepath.Base(file), ".txt")
	lang, err := langid.FromIsoCode639_1(code)
	if err != nil {
		return fmt.Errorf("corpus %s: %w", file, err)
	}

	in, err := os.Open(file) //nolint:gosec // file from the corpus directory
	if err != nil {
		return fmt.Errorf("can't open corpus %s: %w", file, err)
	}
	defer in.Close()

	counts, err := langid.TrainNgramCounts(lang, in)
	if err != nil {
		return err
	}

	outFile := filepath.Join(outDir, langid.ModelFileName(lang))
	out, err := os.Create(outFile) //nolint:gosec // output path is built from the language code
	if err != nil {
		return fmt.Errorf("can't create model file %s: %w", outFile, err)
	}
	n, err := counts.WriteTo(out)
	if err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("can't close model file %s: %w", outFile, err)
	}
	log.Printf("[DEBUG] %s: %d unigrams, %d bytes", lang, len(counts.Counts[0]), n)
	return nil
}
