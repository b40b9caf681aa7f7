package id

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rzbill/flake/pkg/log"
)

// ErrInvalidIdentity is returned by New when the worker or datacenter ID
// does not fit its 5-bit field.
var ErrInvalidIdentity = errors.New("id: invalid identity")

// ErrEpochInFuture is returned by New when the epoch is later than the clock.
var ErrEpochInFuture = errors.New("id: epoch is in the future")

// NowMs returns current time in milliseconds since Unix epoch. Generators
// built without WithClock read the clock through it.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// backoff is how long a waiting caller sleeps, lock released, between clock polls.
const backoff = time.Millisecond / 8

// ClockPolicy selects how Next reacts to the wall clock moving backwards.
type ClockPolicy int

const (
	// ClockAdopt takes the earlier time as the new baseline and resets the
	// sequence. IDs issued before the regression may be repeated.
	ClockAdopt ClockPolicy = iota
	// ClockPin keeps the last timestamp and keeps counting the sequence in
	// it; on exhaustion it waits for the real clock to pass it.
	ClockPin
	// ClockWait blocks until the clock catches up with the last timestamp.
	ClockWait
)

func (p ClockPolicy) String() string {
	switch p {
	case ClockAdopt:
		return "adopt"
	case ClockPin:
		return "pin"
	case ClockWait:
		return "wait"
	default:
		return "unknown"
	}
}

// ParseClockPolicy parses adopt, pin or wait.
func ParseClockPolicy(s string) (ClockPolicy, error) {
	switch s {
	case "adopt", "":
		return ClockAdopt, nil
	case "pin":
		return ClockPin, nil
	case "wait":
		return ClockWait, nil
	default:
		return ClockAdopt, fmt.Errorf("id: unknown clock policy %q", s)
	}
}

// Option configures a Generator.
type Option func(*Generator)

// WithEpoch sets the zero point of the timestamp field. Defaults to the Unix
// epoch. The epoch must not be later than the clock at construction.
func WithEpoch(epoch time.Time) Option {
	return func(g *Generator) { g.epochMs = epoch.UnixMilli() }
}

// WithClock replaces the clock. now must return milliseconds since the Unix epoch.
func WithClock(now func() int64) Option {
	return func(g *Generator) { g.clock = now }
}

// WithClockPolicy sets the backward-clock policy. Defaults to ClockAdopt.
func WithClockPolicy(p ClockPolicy) Option {
	return func(g *Generator) { g.policy = p }
}

// WithLogger sets the logger used for clock and capacity warnings.
func WithLogger(l log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithFloor marks every millisecond up to and including unixMs (Unix epoch
// milliseconds) as already used. Under ClockPin and ClockWait nothing at or
// below the floor is issued.
func WithFloor(unixMs int64) Option {
	return func(g *Generator) { g.floor = unixMs }
}

// Stats is a snapshot of generator counters.
type Stats struct {
	Generated        uint64
	OverflowWaits    uint64
	ClockRegressions uint64
}

// Generator produces unique IDs for one (worker, datacenter) identity.
type Generator struct {
	mu            sync.Mutex
	lastTimestamp int64
	sequence      int64
	warnedRange   bool

	workerID     int64
	dataCenterID int64
	epochMs      int64
	floor        int64
	clock        func() int64
	policy       ClockPolicy
	logger       log.Logger

	generated     atomic.Uint64
	overflowWaits atomic.Uint64
	regressions   atomic.Uint64
}

// New validates the identity and returns a Generator that has issued nothing yet.
func New(workerID, dataCenterID int64, opts ...Option) (*Generator, error) {
	if workerID < 0 || workerID > MaxWorkerID {
		return nil, fmt.Errorf("%w: worker id %d not in [0, %d]", ErrInvalidIdentity, workerID, MaxWorkerID)
	}
	if dataCenterID < 0 || dataCenterID > MaxDataCenterID {
		return nil, fmt.Errorf("%w: datacenter id %d not in [0, %d]", ErrInvalidIdentity, dataCenterID, MaxDataCenterID)
	}
	g := &Generator{workerID: workerID, dataCenterID: dataCenterID, lastTimestamp: -1}
	for _, opt := range opts {
		opt(g)
	}
	if now := g.now(); now < 0 {
		return nil, fmt.Errorf("%w: epoch %s is %dms ahead of the clock",
			ErrEpochInFuture, g.Epoch().UTC().Format(time.RFC3339), -now)
	}
	if g.logger == nil {
		g.logger = log.NewNopLogger()
	}
	g.logger = g.logger.With(log.Component("idgen"), log.Int64("worker", workerID), log.Int64("datacenter", dataCenterID))
	if g.floor > 0 {
		g.lastTimestamp = g.floor - g.epochMs
		g.sequence = MaxSequence
	}
	return g, nil
}

// Next returns a new ID. It never fails; when the current millisecond is
// used up it waits for the clock to advance.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	waited, regressed := false, false
	for {
		now := g.now()
		switch {
		case now > g.lastTimestamp:
			return g.emitLocked(now, 0)
		case now == g.lastTimestamp:
			if g.sequence < MaxSequence {
				return g.emitLocked(now, g.sequence+1)
			}
			if !waited {
				waited = true
				g.overflowWaits.Add(1)
			}
			g.backoffLocked()
		default:
			if !regressed {
				regressed = true
				g.regressions.Add(1)
			}
			switch g.policy {
			case ClockPin:
				if g.sequence < MaxSequence {
					return g.emitLocked(g.lastTimestamp, g.sequence+1)
				}
				g.backoffLocked()
			case ClockWait:
				g.backoffLocked()
			default:
				if now < 0 {
					// Before the epoch; not representable.
					g.backoffLocked()
					continue
				}
				g.logger.Warn("clock moved backwards, adopting earlier time",
					log.Int64("last_ms", g.lastTimestamp),
					log.Int64("now_ms", now))
				return g.emitLocked(now, 0)
			}
		}
	}
}

// emitLocked records (ts, seq) as issued and composes the ID.
func (g *Generator) emitLocked(ts, seq int64) ID {
	g.lastTimestamp = ts
	g.sequence = seq
	if ts > MaxTimestamp && !g.warnedRange {
		g.warnedRange = true
		g.logger.Warn("timestamp outside the 41-bit field, ids no longer decode correctly",
			log.Int64("timestamp_ms", ts),
			log.Str("exhausts", g.Exhausts().UTC().Format(time.RFC3339)))
	}
	g.generated.Add(1)
	return compose(ts, g.workerID, g.dataCenterID, seq)
}

// backoffLocked sleeps with the lock released so other callers can proceed.
func (g *Generator) backoffLocked() {
	g.mu.Unlock()
	time.Sleep(backoff)
	g.mu.Lock()
}

func (g *Generator) now() int64 {
	if g.clock != nil {
		return g.clock() - g.epochMs
	}
	return NowMs() - g.epochMs
}

// WorkerID returns the worker part of the identity.
func (g *Generator) WorkerID() int64 { return g.workerID }

// DataCenterID returns the datacenter part of the identity.
func (g *Generator) DataCenterID() int64 { return g.dataCenterID }

// Epoch returns the zero point of the timestamp field.
func (g *Generator) Epoch() time.Time { return time.UnixMilli(g.epochMs) }

// Time converts the timestamp field of id using this generator's epoch.
func (g *Generator) Time(i ID) time.Time { return i.Time(g.Epoch()) }

// Exhausts returns the first instant whose timestamp no longer fits the field.
func (g *Generator) Exhausts() time.Time {
	return time.UnixMilli(g.epochMs + MaxTimestamp + 1)
}

// LastUnixMilli returns the timestamp of the most recent ID as Unix
// milliseconds, or the floor when nothing has been issued yet.
func (g *Generator) LastUnixMilli() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.floor == 0 && g.generated.Load() == 0 {
		return 0
	}
	return g.lastTimestamp + g.epochMs
}

// Stats returns a snapshot of the generator counters.
func (g *Generator) Stats() Stats {
	return Stats{
		Generated:        g.generated.Load(),
		OverflowWaits:    g.overflowWaits.Load(),
		ClockRegressions: g.regressions.Load(),
	}
}
