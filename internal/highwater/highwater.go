package highwater

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	pebblestore "github.com/rzbill/flake/internal/storage/pebble"
)

// ErrClockBehind is returned by Wait when the clock trails the stored mark
// by more than the allowed rollback.
var ErrClockBehind = errors.New("highwater: clock behind stored mark")

var keyPrefix = []byte("hw/")

// Key builds the record key for one identity.
func Key(workerID, dataCenterID int64) []byte {
	k := make([]byte, 0, len(keyPrefix)+2)
	k = append(k, keyPrefix...)
	return append(k, byte(workerID), byte(dataCenterID))
}

// Store reads and advances the mark of one identity.
type Store struct {
	db  *pebblestore.DB
	key []byte

	mu   sync.Mutex
	last int64
}

// New returns a Store for the given identity.
func New(db *pebblestore.DB, workerID, dataCenterID int64) *Store {
	return &Store{db: db, key: Key(workerID, dataCenterID)}
}

// Load returns the stored mark in Unix milliseconds, or 0 when none exists.
func (s *Store) Load() (int64, error) {
	b, err := s.db.Get(s.key)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("highwater: corrupt record %q: %d bytes", s.key, len(b))
	}
	v := int64(binary.BigEndian.Uint64(b))
	s.mu.Lock()
	if v > s.last {
		s.last = v
	}
	s.mu.Unlock()
	return v, nil
}

// Advance stores unixMs if it is above the current mark. Lower values are
// ignored so the mark never moves backwards.
func (s *Store) Advance(unixMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if unixMs <= s.last {
		return nil
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(unixMs))
	if err := s.db.Set(s.key, b[:]); err != nil {
		return err
	}
	s.last = unixMs
	return nil
}

// Wait blocks until now() is past mark. If the clock is behind by more than
// maxRollback it fails immediately with ErrClockBehind.
func Wait(ctx context.Context, mark int64, now func() int64, maxRollback time.Duration) error {
	for {
		n := now()
		if n > mark {
			return nil
		}
		gap := time.Duration(mark-n) * time.Millisecond
		if gap > maxRollback {
			return fmt.Errorf("%w: %s behind, limit %s", ErrClockBehind, gap, maxRollback)
		}
		poll := gap + time.Millisecond
		if poll > 10*time.Millisecond {
			poll = 10 * time.Millisecond
		}
		t := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
