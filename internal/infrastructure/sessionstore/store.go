package sessionstore

import (
	"sync"
	"time"

	"storeforms-backend/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps live form sessions in memory with a sliding TTL. Sessions
// that are not touched before the TTL expires are dropped, which is how
// "navigating away" discards in-progress forms.
type Store struct {
	store *gocache.Cache
	ttl   time.Duration
	locks sync.Map // session ID -> *sync.Mutex
}

// NewStore creates a session store.
// ttl: how long an idle session survives
// cleanupInterval: how often expired sessions are evicted
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	s := &Store{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
	// TTL eviction must also shed the session's lock entry, otherwise
	// abandoned sessions leak mutexes in s.locks.
	s.store.OnEvicted(func(id string, _ interface{}) {
		s.locks.Delete(id)
	})
	return s
}

func (s *Store) Get(id string) (*domain.FormSession, error) {
	v, ok := s.store.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return v.(*domain.FormSession), nil
}

// Put stores the session and refreshes its TTL.
func (s *Store) Put(sess *domain.FormSession) {
	sess.UpdatedAt = time.Now()
	s.store.Set(sess.ID, sess, s.ttl)
}

func (s *Store) Delete(id string) {
	s.store.Delete(id)
	s.locks.Delete(id)
}

// Lock serializes mutations of a single session. HTTP handlers run
// concurrently, but the wizard invariant is that all mutations of one form
// are serialized, so every session op holds this lock for its duration.
func (s *Store) Lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
