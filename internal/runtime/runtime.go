package runtime

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	cfgpkg "github.com/rzbill/flake/internal/config"
	"github.com/rzbill/flake/internal/highwater"
	pebblestore "github.com/rzbill/flake/internal/storage/pebble"
	"github.com/rzbill/flake/pkg/id"
	logpkg "github.com/rzbill/flake/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Clock returns Unix milliseconds. Defaults to id.NowMs.
	Clock func() int64
}

// Runtime owns the generator and, when enabled, its high-water store.
type Runtime struct {
	gen    *id.Generator
	db     *pebblestore.DB
	marks  *highwater.Store
	logger logpkg.Logger

	stop      context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open validates the configuration and builds a ready Runtime.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	epoch, _ := cfg.EpochTime()
	policy, _ := id.ParseClockPolicy(cfg.ClockPolicy)

	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	logger = logger.WithComponent("runtime")
	clock := opts.Clock
	if clock == nil {
		clock = func() int64 { return id.NowMs() }
	}

	rt := &Runtime{logger: logger}
	genOpts := []id.Option{
		id.WithEpoch(epoch),
		id.WithClockPolicy(policy),
		id.WithLogger(logger),
		id.WithClock(clock),
	}

	interval := time.Duration(cfg.HighWater.IntervalMs) * time.Millisecond
	if cfg.HighWater.Enabled {
		floor, err := rt.openMarks(ctx, cfg, clock, interval)
		if err != nil {
			return nil, err
		}
		genOpts = append(genOpts, id.WithFloor(floor))
	}

	gen, err := id.New(cfg.WorkerID, cfg.DataCenterID, genOpts...)
	if err != nil {
		_ = rt.db.Close()
		return nil, err
	}
	rt.gen = gen

	if rt.marks != nil {
		pctx, cancel := context.WithCancel(context.Background())
		rt.stop = cancel
		rt.done = make(chan struct{})
		go rt.persistLoop(pctx, interval)
	}

	logger.Info("generator ready",
		logpkg.Int64("worker", cfg.WorkerID),
		logpkg.Int64("datacenter", cfg.DataCenterID),
		logpkg.Str("epoch", epoch.UTC().Format(time.RFC3339)),
		logpkg.Str("clock_policy", policy.String()),
		logpkg.Str("exhausts", gen.Exhausts().UTC().Format(time.RFC3339)))
	return rt, nil
}

// openMarks opens the store, waits past the stored mark and returns the floor.
func (r *Runtime) openMarks(ctx context.Context, cfg cfgpkg.Config, clock func() int64, interval time.Duration) (int64, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = cfgpkg.DefaultDataDir()
	}
	fsync, _ := pebblestore.ParseFsyncMode(cfg.Fsync)
	db, err := pebblestore.Open(pebblestore.Options{DataDir: filepath.Join(dataDir, "store"), Fsync: fsync})
	if err != nil {
		return 0, err
	}
	marks := highwater.New(db, cfg.WorkerID, cfg.DataCenterID)
	mark, err := marks.Load()
	if err != nil {
		_ = db.Close()
		return 0, err
	}
	if mark > 0 {
		// The stored mark may trail the last issued millisecond by one interval.
		floor := mark + interval.Milliseconds()
		maxRollback := time.Duration(cfg.HighWater.MaxRollbackMs)*time.Millisecond + interval
		r.logger.Info("waiting past stored high-water mark",
			logpkg.Int64("mark_ms", mark),
			logpkg.Int64("floor_ms", floor))
		if err := highwater.Wait(ctx, floor, clock, maxRollback); err != nil {
			_ = db.Close()
			return 0, err
		}
		mark = floor
	}
	r.db, r.marks = db, marks
	return mark, nil
}

func (r *Runtime) persistLoop(ctx context.Context, interval time.Duration) {
	defer close(r.done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.marks.Advance(r.gen.LastUnixMilli()); err != nil {
				r.logger.Error("persist high-water mark", logpkg.Err(err))
			}
		}
	}
}

// Next returns a new ID from the generator.
func (r *Runtime) Next() id.ID { return r.gen.Next() }

// Generator exposes the underlying generator.
func (r *Runtime) Generator() *id.Generator { return r.gen }

// CheckHealth reports whether the high-water store is readable.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.gen == nil {
		return errors.New("runtime: not open")
	}
	if r.db == nil {
		return nil
	}
	return r.db.Ping()
}

// Close stops persistence, writes the final mark and closes storage.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		stats := r.gen.Stats()
		r.logger.Info("generator stopped",
			logpkg.Uint64("generated", stats.Generated),
			logpkg.Uint64("overflow_waits", stats.OverflowWaits),
			logpkg.Uint64("clock_regressions", stats.ClockRegressions))
		if r.marks == nil {
			return
		}
		r.stop()
		<-r.done
		err := r.marks.Advance(r.gen.LastUnixMilli())
		r.closeErr = errors.Join(err, r.db.Close())
	})
	return r.closeErr
}
