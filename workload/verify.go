package workload

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/nStangl/rw-memtable/data"
	"github.com/nStangl/rw-memtable/memtable"
	"go.uber.org/multierr"
)

// verify checks the joined table against the upserts that were accepted and
// returns the final contents in slot order.
func verify(t memtable.Table, accepted []memtable.Element) ([]memtable.Element, error) {
	expected := treemap.NewWithIntComparator()
	for _, e := range accepted {
		expected.Put(e.Key, e.Value)
	}

	var (
		result error
		final  = collect(t.Iterator())
		seen   = make(map[int]struct{}, len(final))
	)

	for _, e := range final {
		if _, ok := seen[e.Key]; ok {
			result = multierr.Append(result, fmt.Errorf("key %d is stored more than once", e.Key))
		}

		seen[e.Key] = struct{}{}
	}

	if n, c := t.Len(), t.Cap(); n > c {
		result = multierr.Append(result, fmt.Errorf("table holds %d entries but capacity is %d", n, c))
	}

	if n := t.Len(); n != expected.Size() {
		result = multierr.Append(result, fmt.Errorf("table holds %d entries but %d were accepted", n, expected.Size()))
	}

	it := expected.Iterator()
	for it.Next() {
		var (
			key   = it.Key().(int)
			value = it.Value().(int)
		)

		if r := t.Lookup(key); r != (data.Result{Kind: data.Present, Value: value}) {
			result = multierr.Append(result, fmt.Errorf("key %d: got %s, expected value %d", key, r, value))
		}
	}

	return final, result
}

func collect(it memtable.Iterator) []memtable.Element {
	var elems []memtable.Element

	for it.Next() {
		elems = append(elems, it.Value())
	}

	return elems
}
