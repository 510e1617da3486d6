package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/observability"
)

// Source produces a full snapshot, typically from a remote backend.
type Source interface {
	Load(ctx context.Context) (*models.Snapshot, error)
}

type LoadConfig struct {
	// MaxAttempts bounds retries of transport failures. 1 disables retry.
	MaxAttempts int
	RetryWait   time.Duration
}

// DataStore holds the current snapshot. Loads replace it atomically, so readers
// see either the old or the new snapshot in full. When loads overlap, the one
// started last wins regardless of which finishes first.
type DataStore struct {
	src     Source
	cfg     LoadConfig
	current atomic.Pointer[models.Snapshot]
	loads   atomic.Uint64
	started atomic.Uint64

	mu      sync.Mutex
	applied uint64 // generation of the load behind current
}

func NewDataStore(src Source, cfg LoadConfig) *DataStore {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	s := &DataStore{src: src, cfg: cfg}
	s.current.Store(&models.Snapshot{})
	return s
}

// Load fetches a new snapshot from the source and swaps it in. On failure the
// previous snapshot stays current and a *LoadError is returned.
func (s *DataStore) Load(ctx context.Context) (*models.Snapshot, error) {
	gen := s.started.Add(1)
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		snap, err := s.src.Load(ctx)
		if err == nil {
			err = snap.Validate()
		}
		if err == nil {
			if snap.LoadedAt.IsZero() {
				snap.LoadedAt = time.Now().UTC()
			}
			if !s.apply(gen, snap) {
				slog.Info("snapshot discarded, a newer load already applied", "attempt", attempt)
				return s.current.Load(), nil
			}
			s.loads.Add(1)
			observability.SnapshotLoads.WithLabelValues("ok").Inc()
			observability.SnapshotPersons.Set(float64(len(snap.Persons)))
			slog.Info("snapshot loaded", "persons", len(snap.Persons), "cameras", len(snap.Cameras), "attempt", attempt)
			return snap, nil
		}

		lastErr = err
		observability.SnapshotLoads.WithLabelValues("error").Inc()
		if !IsTransport(err) || attempt == s.cfg.MaxAttempts {
			return nil, &LoadError{Attempts: attempt, Err: err}
		}
		slog.Warn("load snapshot (retrying...)", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, &LoadError{Attempts: attempt, Err: errors.Join(lastErr, ctx.Err())}
		case <-time.After(s.cfg.RetryWait):
		}
	}
	return nil, &LoadError{Attempts: s.cfg.MaxAttempts, Err: fmt.Errorf("no attempts made: %w", lastErr)}
}

func (s *DataStore) apply(gen uint64, snap *models.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied {
		return false
	}
	s.applied = gen
	s.current.Store(snap)
	return true
}

// Snapshot returns the current snapshot. Before the first successful load it is empty.
func (s *DataStore) Snapshot() *models.Snapshot {
	return s.current.Load()
}

// Loaded reports whether at least one load has succeeded.
func (s *DataStore) Loaded() bool {
	return s.loads.Load() > 0
}
