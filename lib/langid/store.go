package langid

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// modelStore keeps one load-once slot per candidate language. The slots are created
// at construction and never change, so lookups need no locking.
type modelStore struct {
	source ModelSource
	slots  []*modelSlot // indexed by Language, nil for non-candidates
}

type modelSlot struct {
	once  sync.Once
	done  atomic.Bool
	model *NgramModel
	err   error
}

func newModelStore(src ModelSource, langs LanguageSet) *modelStore {
	res := &modelStore{source: src, slots: make([]*modelSlot, len(registry))}
	for _, l := range langs {
		res.slots[l] = &modelSlot{}
	}
	return res
}

// get returns the model of the language, loading it on the first access.
// Concurrent first accesses wait for a single load.
func (s *modelStore) get(lang Language) (*NgramModel, error) {
	if int(lang) >= len(s.slots) || s.slots[lang] == nil {
		return nil, &ModelError{Language: lang, Err: fmt.Errorf("not a candidate language")}
	}
	slot := s.slots[lang]
	slot.once.Do(func() {
		slot.model, slot.err = s.load(lang)
		if slot.err != nil {
			log.Printf("[WARN] language %s excluded, %v", lang, slot.err)
		}
		slot.done.Store(true)
	})
	return slot.model, slot.err
}

// preload loads all models in parallel, errors of all failed languages are combined.
func (s *modelStore) preload(langs LanguageSet) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs error
	for _, l := range langs {
		wg.Add(1)
		go func(l Language) {
			defer wg.Done()
			if _, err := s.get(l); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
		}(l)
	}
	wg.Wait()
	return errs
}

func (s *modelStore) load(lang Language) (*NgramModel, error) {
	rd, err := s.source.Open(lang)
	if err != nil {
		return nil, &ModelError{Language: lang, Err: err}
	}
	defer rd.Close()
	counts, err := ReadNgramCounts(rd)
	if err != nil {
		return nil, &ModelError{Language: lang, Err: err}
	}
	if counts.Language != lang {
		return nil, &ModelError{Language: lang, Err: fmt.Errorf("model is for %s", counts.Language)}
	}
	return NewNgramModel(counts), nil
}

// loaded returns the number of successfully loaded models.
func (s *modelStore) loaded() int {
	res := 0
	for _, slot := range s.slots {
		if slot != nil && slot.done.Load() && slot.err == nil {
			res++
		}
	}
	return res
}

// errors returns load errors of languages attempted so far.
func (s *modelStore) errors() map[Language]error {
	res := map[Language]error{}
	for i, slot := range s.slots {
		if slot != nil && slot.done.Load() && slot.err != nil {
			res[Language(i)] = slot.err
		}
	}
	return res
}
