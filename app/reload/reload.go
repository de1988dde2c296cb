// Package reload keeps a language detector built from an external models directory and rebuilds it
// when model files change. Detection calls in flight keep using the detector they started with.
package reload

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/umputun/langid/lib/langid"
)

// Detector wraps the current detector and swaps it on reload, thread-safe
type Detector struct {
	Delay    time.Duration // delay after the last change before reload, to catch all files of an update
	OnReload func()        // called after successful reload, optional

	current atomic.Pointer[langid.Detector]
	build   func() (*langid.Detector, error)
	reloads atomic.Int32
}

// New makes the detector with the build function, it fails if the initial build fails
func New(build func() (*langid.Detector, error)) (*Detector, error) {
	res := &Detector{build: build, Delay: time.Second}
	d, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to build detector: %w", err)
	}
	res.current.Store(d)
	return res, nil
}

// Current returns the detector in use
func (r *Detector) Current() *langid.Detector { return r.current.Load() }

// DetectBest detects the language with the current detector
func (r *Detector) DetectBest(text string) (langid.Language, bool) { return r.Current().DetectBest(text) }

// DetectDistribution returns confidence distribution with the current detector
func (r *Detector) DetectDistribution(text string) []langid.Confidence {
	return r.Current().DetectDistribution(text)
}

// MinimumRelativeDistance returns the ambiguity threshold of the current detector
func (r *Detector) MinimumRelativeDistance() float64 { return r.Current().MinimumRelativeDistance() }

// Languages returns candidate languages of the current detector
func (r *Detector) Languages() langid.LanguageSet { return r.Current().Languages() }

// LoadedModels returns the number of models loaded by the current detector
func (r *Detector) LoadedModels() int { return r.Current().LoadedModels() }

// Reloads returns the number of successful reloads
func (r *Detector) Reloads() int { return int(r.reloads.Load()) }

// Reload rebuilds the detector, the current one is kept if the build fails
func (r *Detector) Reload() error {
	d, err := r.build()
	if err != nil {
		return fmt.Errorf("failed to rebuild detector: %w", err)
	}
	r.current.Store(d)
	r.reloads.Add(1)
	if r.OnReload != nil {
		r.OnReload()
	}
	log.Printf("[INFO] detector reloaded, %d languages", len(d.Languages()))
	return nil
}

// Watch watches models directory and reloads the detector on changes of model files.
// It blocks until the context is canceled.
func (r *Detector) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", dir, err)
	}
	log.Printf("[INFO] watching models in %s", dir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping watcher for %s, %v", dir, ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json.gz") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("[DEBUG] model file changed: %s", event)
			pending = time.After(r.Delay)
		case <-pending:
			pending = nil
			if e := r.Reload(); e != nil {
				log.Printf("[WARN] %v", e)
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}
