package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// entry serializes writers of one session so the stored value always
// reflects the most recent transition
type entry struct {
	mu      sync.Mutex
	session Session
	removed atomic.Bool
}

// Store keeps live sessions in a bounded LRU. A session expires ttl after
// its last write.
type Store struct {
	cache *expirable.LRU[string, *entry]
}

// NewStore creates a store holding at most size sessions. onEvict, when not
// nil, is called with the id of every session that leaves the store.
func NewStore(size int, ttl time.Duration, onEvict func(id string)) *Store {
	evict := func(id string, e *entry) {
		// a stale re-insert can be evicted a second time
		if e.removed.Swap(true) {
			return
		}
		if onEvict != nil {
			onEvict(id)
		}
	}
	return &Store{
		cache: expirable.NewLRU[string, *entry](size, evict, ttl),
	}
}

// Put stores s, replacing any session with the same id
func (st *Store) Put(s Session) {
	st.cache.Add(s.ID, &entry{session: s})
}

// Get returns the session with the given id
func (st *Store) Get(id string) (Session, error) {
	e, ok := st.cache.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed.Load() {
		return Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

// Update runs fn on the stored session under the session's lock and stores
// the result. If fn fails the stored session is left unchanged.
func (st *Store) Update(id string, fn func(Session) (Session, error)) (Session, error) {
	e, ok := st.cache.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed.Load() {
		return Session{}, ErrSessionNotFound
	}

	next, err := fn(e.session)
	if err != nil {
		return e.session, err
	}
	e.session = next

	if e.removed.Load() {
		return Session{}, ErrSessionNotFound
	}
	// re-adding refreshes the expiry
	st.cache.Add(id, e)
	if e.removed.Load() {
		// removed between the check and the Add
		if current, ok := st.cache.Peek(id); ok && current == e {
			st.cache.Remove(id)
		}
		return Session{}, ErrSessionNotFound
	}
	return next, nil
}

// Delete removes the session, reporting whether it existed
func (st *Store) Delete(id string) bool {
	return st.cache.Remove(id)
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	return st.cache.Len()
}
