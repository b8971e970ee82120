package workload

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/google/uuid"
	"github.com/nStangl/rw-memtable/memtable"
	"github.com/nStangl/rw-memtable/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	histogramBins  = 5
	histogramWidth = 5
)

type Report struct {
	ID       uuid.UUID
	Capacity int
	Inserted int
	Rejected []int
	Hits     int
	Misses   int

	// Sorted latency samples
	UpsertLatency []time.Duration
	LookupLatency []time.Duration

	// Table contents in slot order, taken after all workers joined
	Final []memtable.Element
}

func (r *Runner) report() *Report {
	rep := Report{
		ID:       r.id,
		Capacity: r.capacity,
		Final:    r.final,
	}

	rejected := make(map[int]struct{})

	for _, w := range r.writers {
		rep.Inserted += len(w.accepted)
		rep.UpsertLatency = append(rep.UpsertLatency, w.latencies...)

		for _, k := range w.rejected {
			rejected[k] = struct{}{}
		}
	}

	for _, rd := range r.readers {
		rep.Hits += rd.hits
		rep.Misses += rd.misses
		rep.LookupLatency = append(rep.LookupLatency, rd.latencies...)
	}

	rep.Rejected = maps.Keys(rejected)
	slices.Sort(rep.Rejected)
	slices.Sort(rep.UpsertLatency)
	slices.Sort(rep.LookupLatency)

	return &rep
}

// Percentile returns the p-th percentile (0..100) of sorted samples.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	switch {
	case p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[len(sorted)-1]
	}

	return sorted[int(p/100*float64(len(sorted)-1))]
}

func (r *Report) Print(w io.Writer, withHistogram bool) error {
	fmt.Fprintf(w, "Final memtable contents (%d entries):\n", len(r.Final))

	for _, e := range r.Final {
		fmt.Fprintf(w, "  key %d -> value %d\n", e.Key, e.Value)
	}

	fmt.Fprintf(w, "Run %s: capacity %d, inserted %d, rejected %d, lookups %d found / %d not found\n",
		r.ID, r.Capacity, r.Inserted, len(r.Rejected), r.Hits, r.Misses)

	if len(r.Rejected) > 0 {
		fmt.Fprintf(w, "Rejected keys: %v\n", r.Rejected)
	}

	fmt.Fprintf(w, "Upsert latency p50 %s p99 %s, lookup latency p50 %s p99 %s\n",
		Percentile(r.UpsertLatency, 50), Percentile(r.UpsertLatency, 99),
		Percentile(r.LookupLatency, 50), Percentile(r.LookupLatency, 99))

	if !withHistogram {
		return nil
	}

	if err := printHistogram(w, "upserts", r.UpsertLatency); err != nil {
		return err
	}

	return printHistogram(w, "lookups", r.LookupLatency)
}

func printHistogram(w io.Writer, name string, samples []time.Duration) error {
	if len(samples) == 0 {
		return nil
	}

	fmt.Fprintf(w, "Showing histogram for %s (in nanoseconds)\n", name)

	h := histogram.Hist(histogramBins, nanos(samples))
	if err := histogram.Fprint(w, h, histogram.Linear(histogramWidth)); err != nil {
		return fmt.Errorf("failed to print %s histogram: %w", name, err)
	}

	return nil
}

// WriteCSV dumps every latency sample as an (op, nanoseconds) row.
func (r *Report) WriteCSV(path string) error {
	rows := make([][]string, 0, 1+len(r.UpsertLatency)+len(r.LookupLatency))
	rows = append(rows, []string{"op", "nanoseconds"})

	for _, d := range r.UpsertLatency {
		rows = append(rows, []string{"upsert", strconv.FormatInt(d.Nanoseconds(), 10)})
	}

	for _, d := range r.LookupLatency {
		rows = append(rows, []string{"lookup", strconv.FormatInt(d.Nanoseconds(), 10)})
	}

	return util.WriteCSV(path, rows)
}

func nanos(ds []time.Duration) []float64 {
	fs := make([]float64, len(ds))
	for i, d := range ds {
		fs[i] = float64(d.Nanoseconds())
	}

	return fs
}
