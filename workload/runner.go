package workload

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/nStangl/rw-memtable/config"
	"github.com/nStangl/rw-memtable/memtable"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Lifecycle states and events of a run
const (
	Created   = "created"
	Running   = "running"
	Joined    = "joined"
	Destroyed = "destroyed"

	Start   = "start"
	Join    = "join"
	Destroy = "destroy"
)

// The table may only be destroyed once every worker has joined
var transitions = fsm.Events{
	{Name: Start, Src: []string{Created}, Dst: Running},
	{Name: Join, Src: []string{Running}, Dst: Joined},
	{Name: Destroy, Src: []string{Joined}, Dst: Destroyed},
}

type Runner struct {
	id      uuid.UUID
	cfg     config.Config
	table   memtable.Table
	machine *fsm.FSM
	log     *log.Entry

	writers  []writerResult
	readers  []readerResult
	final    []memtable.Element
	capacity int
}

func NewRunner(cfg config.Config, table memtable.Table) *Runner {
	r := Runner{
		id:    uuid.New(),
		cfg:   cfg,
		table: table,
	}

	r.log = log.WithField("run", r.id)
	r.machine = fsm.NewFSM(Created, transitions, r.callbacks())

	return &r
}

func (r *Runner) callbacks() fsm.Callbacks {
	return fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			r.log.Infof("run moved from %s to %s", e.Src, e.Dst)
		},
		Join: func(_ context.Context, e *fsm.Event) {
			r.capacity = r.table.Cap()

			final, err := verify(r.table, r.accepted())
			r.final = final

			if err != nil {
				e.Err = fmt.Errorf("verification failed: %w", err)
			}
		},
		Destroy: func(_ context.Context, e *fsm.Event) {
			if err := r.table.Close(); err != nil {
				e.Err = fmt.Errorf("failed to destroy table: %w", err)
			}
		},
	}
}

func (r *Runner) ID() uuid.UUID { return r.id }

func (r *Runner) State() string { return r.machine.Current() }

// Run spawns the writers and readers against the shared table, waits for all
// of them, verifies the table and destroys it. Cancelling ctx stops the
// workers between operations; the run still joins, verifies and destroys.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	// Lifecycle transitions use their own context so that a cancelled
	// run still reaches the destroyed state.
	if err := r.machine.Event(context.Background(), Start); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	r.log.WithFields(log.Fields{
		"capacity": r.table.Cap(),
		"writers":  r.cfg.Writers,
		"readers":  r.cfg.Readers,
	}).Info("spawned workers")

	result := r.spawn(ctx)

	if err := r.machine.Event(context.Background(), Join); err != nil {
		result = multierr.Append(result, err)
	}

	if err := r.Destroy(); err != nil {
		result = multierr.Append(result, err)
	}

	return r.report(), result
}

// Destroy releases the table. It is rejected unless every worker has joined.
func (r *Runner) Destroy() error {
	return r.machine.Event(context.Background(), Destroy)
}

func (r *Runner) spawn(ctx context.Context) error {
	var wg sync.WaitGroup

	r.writers = make([]writerResult, r.cfg.Writers)
	r.readers = make([]readerResult, r.cfg.Readers)

	for i := range r.writers {
		wg.Add(1)

		go func(i int, t memtable.Table) {
			defer wg.Done()
			r.writers[i] = runWriter(ctx, t, &r.cfg, i+1, r.log)
		}(i, r.table)
	}

	for i := range r.readers {
		wg.Add(1)

		go func(i int, t memtable.Table) {
			defer wg.Done()
			r.readers[i] = runReader(ctx, t, &r.cfg, i+1, r.log)
		}(i, r.table)
	}

	wg.Wait()

	var result error

	for _, w := range r.writers {
		result = multierr.Append(result, w.err)
	}

	for _, rd := range r.readers {
		result = multierr.Append(result, rd.err)
	}

	if ctx.Err() != nil {
		r.log.Warn("run interrupted, workers stopped early")
	}

	return result
}

func (r *Runner) accepted() []memtable.Element {
	var all []memtable.Element

	for _, w := range r.writers {
		all = append(all, w.accepted...)
	}

	return all
}
