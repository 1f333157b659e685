package booking

import (
	"context"
	"sync"
	"time"
)

// Store keeps drafts between requests, keyed by draft id.  Saving resets
// the draft's expiry.  Lock and Unlock guard the payment step so that two
// concurrent submissions of the same draft cannot both commit.
type Store interface {
	Get(ctx context.Context, id string) (Draft, error)
	Save(ctx context.Context, d Draft) error
	Delete(ctx context.Context, id string) error
	// Lock returns ErrPaymentInProgress when the lock is already taken.
	// The lock lapses after ttl if never released.
	Lock(ctx context.Context, id string, ttl time.Duration) error
	Unlock(ctx context.Context, id string) error
}

// MemoryStore is the in-process Store used when Redis is unavailable.
// Drafts do not survive a restart and are not shared between instances.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]memoryEntry
	locks  map[string]time.Time
}

type memoryEntry struct {
	draft   Draft
	expires time.Time
}

// NewMemoryStore returns an empty store whose drafts expire ttl after their
// last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		drafts: map[string]memoryEntry{},
		locks:  map[string]time.Time{},
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.drafts, id)
		return Draft{}, ErrNotFound
	}
	return e.draft.clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = memoryEntry{draft: d.clone(), expires: s.now().Add(s.ttl)}
	s.sweepLocked()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	delete(s.locks, id)
	return nil
}

func (s *MemoryStore) Lock(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if until, ok := s.locks[id]; ok && now.Before(until) {
		return ErrPaymentInProgress
	}
	s.locks[id] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) Unlock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
	return nil
}

// sweepLocked drops expired drafts and locks.  Called with mu held.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, e := range s.drafts {
		if !now.Before(e.expires) {
			delete(s.drafts, id)
		}
	}
	for id, until := range s.locks {
		if !now.Before(until) {
			delete(s.locks, id)
		}
	}
}
