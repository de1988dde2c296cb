package langcheck

import (
	"container/ring"
	"context"
	"slices"
	"sync"
)

// LastRecords keeps track of last N detections, thread-safe.
type LastRecords struct {
	records *ring.Ring
	size    int
	lock    sync.RWMutex
}

// NewLastRecords creates new records tracker
func NewLastRecords(size int) *LastRecords {
	// minimum size is 1
	if size < 1 {
		size = 1
	}
	return &LastRecords{
		records: ring.New(size),
		size:    size,
	}
}

// Push adds new record to the history
func (h *LastRecords) Push(rec Record) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.records.Value = rec
	h.records = h.records.Next()
}

// Last returns up to n most recent records in chronological order (oldest to newest)
func (h *LastRecords) Last(n int) []Record {
	if n < 1 {
		return []Record{}
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	// walk back from the newest slot, unused slots hold nil
	result := make([]Record, 0, min(n, h.size))
	for r := h.records.Prev(); len(result) < cap(result); r = r.Prev() {
		rec, ok := r.Value.(Record)
		if !ok {
			break
		}
		result = append(result, rec)
	}
	slices.Reverse(result)
	return result
}

// Size returns the size of records history
func (h *LastRecords) Size() int {
	return h.size
}

// Write pushes record to the history, never fails
func (h *LastRecords) Write(_ context.Context, rec Record) error {
	h.Push(rec)
	return nil
}

// Read returns up to limit most recent records, newest first
func (h *LastRecords) Read(_ context.Context, limit int) ([]Record, error) {
	res := h.Last(limit)
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res, nil
}
