// Package dedupe tracks ingest batch ids so a redelivered batch is applied
// at most once.
package dedupe

import (
	"context"
	"sync"
)

// Default tracker configuration constants.
const (
	defaultMaxSize = 50000
)

// Deduper records batch ids.
type Deduper interface {
	// Claim records id and reports whether it was new. A false return
	// means the batch was already applied or is in flight.
	Claim(ctx context.Context, id string) bool

	// Release forgets id so a failed batch can be retried.
	Release(ctx context.Context, id string)

	Len() int
}

// entry is one slot of the eviction ring. seq guards against evicting an
// id that was released and claimed again after the slot was written.
type entry struct {
	id  string
	seq uint64
}

// inMemoryDeduper keeps at most maxSize ids and evicts the oldest claim
// first. maxSize ≤ 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64
	ring    []entry
	next    int
	seq     uint64
	maxSize int
}

// NewInMemoryDeduper creates an in-memory Deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	if d.maxSize > 0 {
		d.ring = make([]entry, 0, min(d.maxSize, 1024))
	}
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seq++
	d.seen[id] = d.seq
	if d.maxSize <= 0 {
		return true
	}
	e := entry{id: id, seq: d.seq}
	if len(d.ring) < d.maxSize {
		d.ring = append(d.ring, e)
		return true
	}
	old := d.ring[d.next]
	if seq, ok := d.seen[old.id]; ok && seq == old.seq {
		delete(d.seen, old.id)
	}
	d.ring[d.next] = e
	d.next = (d.next + 1) % d.maxSize
	return true
}

func (d *inMemoryDeduper) Release(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
