package memtable

import (
	"fmt"
	"sync"

	"github.com/nStangl/rw-memtable/data"
)

type (
	// FixedTable is an append-only array of entries guarded by a single
	// reader-writer lock. Slots [0, count) are occupied, the rest are empty,
	// and occupied keys are pairwise distinct.
	FixedTable struct {
		mu      sync.RWMutex
		entries []entry
		count   int
		closed  bool
	}

	entry struct {
		key      int
		value    int
		occupied bool
	}

	sliceIterator struct {
		elems []Element
		pos   int
	}
)

var (
	_ Table    = (*FixedTable)(nil)
	_ Iterator = (*sliceIterator)(nil)
)

// New allocates a table with room for capacity entries.
// Running out of memory here aborts the process.
func New(capacity int) (*FixedTable, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	return &FixedTable{entries: make([]entry, capacity)}, nil
}

func MustNew(capacity int) *FixedTable {
	t, err := New(capacity)
	if err != nil {
		panic(err)
	}

	return t
}

// Upsert updates the value of key in place or appends it to the next free slot.
// It returns ErrFull without touching the table when the key is new and no slot is left.
func (t *FixedTable) Upsert(key, value int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if i := t.indexLocked(key); i >= 0 {
		t.entries[i].value = value
		return nil
	}

	if t.count == len(t.entries) {
		return ErrFull
	}

	t.entries[t.count] = entry{key: key, value: value, occupied: true}
	t.count++

	return nil
}

func (t *FixedTable) Lookup(key int) data.Result {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.indexLocked(key); i >= 0 {
		return data.Result{Kind: data.Present, Value: t.entries[i].value}
	}

	return data.Result{Kind: data.Missing}
}

// indexLocked returns the first occupied slot holding key, or -1.
// The caller must hold t.mu.
func (t *FixedTable) indexLocked(key int) int {
	for i := 0; i < t.count; i++ {
		if t.entries[i].occupied && t.entries[i].key == key {
			return i
		}
	}

	return -1
}

// Close releases the backing storage. It must not be called
// while other goroutines may still use the table.
func (t *FixedTable) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.entries = nil
	t.count = 0
	t.closed = true

	return nil
}

func (t *FixedTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

func (t *FixedTable) Cap() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns a copy of the occupied entries in slot order.
func (t *FixedTable) Entries() []Element {
	t.mu.RLock()
	defer t.mu.RUnlock()

	elems := make([]Element, 0, t.count)

	for i := 0; i < t.count; i++ {
		if e := t.entries[i]; e.occupied {
			elems = append(elems, Element{Key: e.key, Value: e.value})
		}
	}

	return elems
}

func (t *FixedTable) Iterator() Iterator {
	return &sliceIterator{elems: t.Entries(), pos: -1}
}

func (i *sliceIterator) Next() bool {
	if i.pos+1 >= len(i.elems) {
		return false
	}

	i.pos++

	return true
}

func (i *sliceIterator) Value() Element { return i.elems[i.pos] }
