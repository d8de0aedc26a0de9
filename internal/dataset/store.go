package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialpulse/domain/core"
	"socialpulse/domain/engagement"
	"socialpulse/internal"
	apperrors "socialpulse/internal/errors"
	"socialpulse/internal/normalize"
	"socialpulse/internal/recommend"
	"socialpulse/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of a Store
type State string

const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// LoadStats describes how raw rows became records
type LoadStats struct {
	PostRows       int           `json:"postRows"`
	SignalRows     int           `json:"signalRows"`
	PostsDropped   int           `json:"postsDropped"`
	SignalsDropped int           `json:"signalsDropped"`
	SignalsDerived bool          `json:"signalsDerived"`
	Duration       time.Duration `json:"duration"`
}

// Snapshot is one loaded dataset. It is never modified after publication;
// callers must treat the record slices as read-only.
type Snapshot struct {
	ID       core.SnapshotID             `json:"id"`
	LoadedAt time.Time                   `json:"loadedAt"`
	Posts    []engagement.PostRecord     `json:"-"`
	Signals  []engagement.PlatformSignal `json:"-"`
	Stats    LoadStats                   `json:"stats"`
}

// Status is the externally visible load state
type Status struct {
	State     State      `json:"status"`
	Error     string     `json:"error,omitempty"`
	DatasetID string     `json:"datasetId,omitempty"`
	LoadedAt  *time.Time `json:"loadedAt,omitempty"`
	Posts     int        `json:"posts"`
	Signals   int        `json:"signals"`
}

// Store holds the process-wide record sets. They are loaded once and then only read.
type Store struct {
	mu       sync.RWMutex
	state    State
	snapshot *Snapshot
	err      error

	normalizer *normalize.Normalizer
	decayRate  float64
	decayAsOf  time.Time
	logger     *internal.Logger
	now        func() time.Time
	sf         singleflight.Group
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) StoreOption {
	return func(s *Store) { s.normalizer = n }
}

// WithDecay sets how signals are derived when no signal table is given.
// A zero asOf uses the latest post date.
func WithDecay(rate float64, asOf time.Time) StoreOption {
	return func(s *Store) {
		s.decayRate = rate
		s.decayAsOf = asOf
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *internal.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty, pending store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:      StatePending,
		normalizer: normalize.New(),
		decayRate:  recommend.DefaultDecayRate,
		logger:     internal.DefaultLogger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("Store")
	return s
}

// Load reads both tables concurrently, normalizes them and publishes the snapshot.
// signals may be nil, in which case the signal table is derived from the posts.
// Concurrent calls share one load. A ready store rejects further loads; a failed one may retry.
func (s *Store) Load(ctx context.Context, posts, signals ports.RowSource) (*Snapshot, error) {
	if posts == nil {
		return nil, apperrors.InvalidInput("a post source is required")
	}
	v, err, _ := s.sf.Do("load", func() (interface{}, error) {
		return s.load(ctx, posts, signals)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *Store) load(ctx context.Context, posts, signals ports.RowSource) (*Snapshot, error) {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state == StateReady {
		return nil, core.ErrAlreadyLoaded
	}

	start := s.now()
	s.logger.Info("Loading dataset from %s", describe(posts, signals))

	var postRows, signalRows []ports.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := posts.ReadRows(gctx)
		if err != nil {
			return core.NewLoadError(posts.Name(), err)
		}
		postRows = rows
		return nil
	})
	if signals != nil {
		g.Go(func() error {
			rows, err := signals.ReadRows(gctx)
			if err != nil {
				return core.NewLoadError(signals.Name(), err)
			}
			signalRows = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(err)
		return nil, err
	}

	snap := &Snapshot{
		ID:    core.NewSnapshotID(),
		Posts: s.normalizer.Posts(postRows),
		Stats: LoadStats{PostRows: len(postRows), SignalRows: len(signalRows)},
	}
	if signals != nil {
		snap.Signals = s.normalizer.Signals(signalRows)
	} else {
		snap.Signals = s.deriveSignals(snap.Posts)
		snap.Stats.SignalsDerived = true
		snap.Stats.SignalRows = len(snap.Signals)
	}
	snap.Stats.PostsDropped = snap.Stats.PostRows - len(snap.Posts)
	snap.Stats.SignalsDropped = snap.Stats.SignalRows - len(snap.Signals)
	snap.LoadedAt = s.now()
	snap.Stats.Duration = snap.LoadedAt.Sub(start)

	s.mu.Lock()
	s.state = StateReady
	s.snapshot = snap
	s.err = nil
	s.mu.Unlock()

	s.logger.Info("Dataset %s ready: %d posts (%d dropped), %d signals (%d dropped) in %s",
		snap.ID, len(snap.Posts), snap.Stats.PostsDropped, len(snap.Signals), snap.Stats.SignalsDropped, snap.Stats.Duration)
	return snap, nil
}

func (s *Store) deriveSignals(posts []engagement.PostRecord) []engagement.PlatformSignal {
	asOf := s.decayAsOf
	if asOf.IsZero() {
		latest, ok := recommend.LatestDate(posts)
		if !ok {
			s.logger.Warn("No parseable post dates; derived signal table is empty")
			return []engagement.PlatformSignal{}
		}
		asOf = latest
	}
	s.logger.Debug("Deriving signals as of %s at rate %.4f", asOf.Format("2006-01-02"), s.decayRate)
	return recommend.DeriveSignals(posts, asOf, s.decayRate)
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
	s.logger.Error("Dataset load failed: %v", err)
}

// Snapshot returns the loaded dataset, ErrNotLoaded while pending, or the load error after a failure.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateReady:
		return s.snapshot, nil
	case StateFailed:
		return nil, s.err
	default:
		return nil, core.ErrNotLoaded
	}
}

// Status reports the load state
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{State: s.state}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	if s.snapshot != nil {
		loadedAt := s.snapshot.LoadedAt
		st.DatasetID = s.snapshot.ID.String()
		st.LoadedAt = &loadedAt
		st.Posts = len(s.snapshot.Posts)
		st.Signals = len(s.snapshot.Signals)
	}
	return st
}

func describe(posts, signals ports.RowSource) string {
	if signals == nil {
		return fmt.Sprintf("%s (signals derived)", posts.Name())
	}
	return fmt.Sprintf("%s and %s", posts.Name(), signals.Name())
}
