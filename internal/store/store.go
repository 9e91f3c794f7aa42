package store

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is an immutable view of the whole portal state.
type Snapshot struct {
	Version uint64
	Session Session
	Domain  Domain
}

// Mutation derives the next snapshot from the current one. nextID hands out
// unique record ids. Returning an error discards the mutation.
type Mutation func(current Snapshot, nextID func() int64) (Snapshot, error)

// Store is the single dispatcher for portal state. Mutations run one at a
// time to completion; readers get whichever snapshot was last published.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	clock   func() time.Time
	lastID  int64
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the clock used to derive record ids.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithDomain seeds the store with initial records.
func WithDomain(d Domain) Option {
	return func(s *Store) {
		snap := s.current.Load()
		next := *snap
		next.Domain = d
		s.current.Store(&next)
		for _, l := range d.lessons {
			s.observeID(l.ID)
		}
		for _, a := range d.assessments {
			s.observeID(a.ID)
		}
	}
}

// New constructs a Store in the welcome state.
func New(opts ...Option) *Store {
	s := &Store{clock: time.Now}
	s.current.Store(&Snapshot{Session: WelcomeSession()})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the latest published state.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Update applies m and publishes the result. On error the current snapshot
// is returned unchanged together with the error.
func (s *Store) Update(m Mutation) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := *s.current.Load()
	next, err := m(current, s.nextID)
	if err != nil {
		return current, err
	}
	next.Version = current.Version + 1
	s.current.Store(&next)
	return next, nil
}

// nextID derives ids from the creation time in milliseconds, bumping past
// the last issued id so ids stay unique and increasing. Callers hold s.mu.
func (s *Store) nextID() int64 {
	id := s.clock().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) observeID(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}
