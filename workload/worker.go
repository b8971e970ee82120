package workload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nStangl/rw-memtable/config"
	"github.com/nStangl/rw-memtable/memtable"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type (
	writerResult struct {
		accepted  []memtable.Element
		rejected  []int
		latencies []time.Duration
		err       error
	}

	readerResult struct {
		hits      int
		misses    int
		latencies []time.Duration
		err       error
	}
)

// ErrTornRead means a lookup returned a value no writer ever stored for the key.
var ErrTornRead = errors.New("torn read")

// runWriter upserts keys id*stride .. id*stride+ops-1, each with value key*factor.
func runWriter(ctx context.Context, t memtable.Table, cfg *config.Config, id int, parent *log.Entry) writerResult {
	var (
		res = writerResult{accepted: make([]memtable.Element, 0, cfg.WriterOps)}
		lg  = parent.WithField("writer", id)
	)

	for i := 0; i < cfg.WriterOps; i++ {
		if i > 0 && !pause(ctx, cfg.WriterDelay) {
			lg.Info("writer interrupted")
			return res
		}

		var (
			key   = id*cfg.KeyStride + i
			value = key * cfg.ValueFactor
		)

		s := time.Now()
		err := t.Upsert(key, value)
		res.latencies = append(res.latencies, time.Since(s))

		switch {
		case err == nil:
			res.accepted = append(res.accepted, memtable.Element{Key: key, Value: value})
			lg.WithFields(log.Fields{"key": key, "value": value}).Debug("added key")
		case errors.Is(err, memtable.ErrFull):
			res.rejected = append(res.rejected, key)
			lg.WithField("key", key).Warn("memtable full, cannot add key (would trigger flush)")
		default:
			res.err = fmt.Errorf("writer %d failed to upsert key %d: %w", id, key, err)
			return res
		}
	}

	lg.Info("writer finished")

	return res
}

// runReader polls, in round i, key w*stride+i of every writer w.
func runReader(ctx context.Context, t memtable.Table, cfg *config.Config, id int, parent *log.Entry) readerResult {
	var (
		res readerResult
		lg  = parent.WithField("reader", id)
	)

	for i := 0; i < cfg.ReaderOps; i++ {
		if i > 0 && !pause(ctx, cfg.ReaderDelay) {
			lg.Info("reader interrupted")
			return res
		}

		for w := 1; w <= cfg.Writers; w++ {
			key := w*cfg.KeyStride + i

			s := time.Now()
			r := t.Lookup(key)
			res.latencies = append(res.latencies, time.Since(s))

			if !r.Found() {
				res.misses++
				lg.WithField("key", key).Debug("key not found")
				continue
			}

			res.hits++
			lg.WithFields(log.Fields{"key": key, "value": r.Value}).Debug("got key")

			if want := key * cfg.ValueFactor; r.Value != want {
				res.err = multierr.Append(res.err, fmt.Errorf("%w: reader %d got %d for key %d, expected %d", ErrTornRead, id, r.Value, key, want))
			}
		}
	}

	lg.Info("reader finished")

	return res
}

// pause sleeps for d and reports whether the worker should continue.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
