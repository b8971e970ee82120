package memtable

import (
	"errors"

	"github.com/nStangl/rw-memtable/data"
)

// This package defines the memtable,
// the in-memory data structure buffering
// the most recent key value pairs

type (
	Table interface {
		Sizable
		Iterable

		Upsert(key, value int) error
		Lookup(key int) data.Result
		Close() error
	}

	Sizable interface {
		Len() int
		Cap() int
	}

	Iterable interface {
		Iterator() Iterator
	}

	Iterator interface {
		Next() bool
		Value() Element
	}

	Element struct {
		Key   int
		Value int
	}
)

var (
	// ErrFull is returned by Upsert when every slot is taken
	// and the key is not already present. Nothing is written.
	ErrFull            = errors.New("memtable full")
	ErrClosed          = errors.New("memtable closed")
	ErrInvalidCapacity = errors.New("capacity must be positive")
)
