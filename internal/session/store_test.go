package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	store := NewStore(10, time.Minute, nil)
	engine := filter.NewEngine()
	s, err := NewReady("abc", testDataset(), engine)
	require.NoError(t, err)

	store.Put(s)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)

	assert.True(t, store.Delete("abc"))
	assert.False(t, store.Delete("abc"))

	_, err = store.Get("abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Update(t *testing.T) {
	store := NewStore(10, time.Minute, nil)
	engine := filter.NewEngine()
	s, err := NewReady("abc", testDataset(), engine)
	require.NoError(t, err)
	store.Put(s)

	updated, err := store.Update("abc", func(s Session) (Session, error) {
		return s.Update(engine, SelectCategory{Category: filter.Dinner})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza"}, visibleNames(updated))

	got, err := store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, filter.Dinner, got.State().Category)

	boom := errors.New("boom")
	_, err = store.Update("abc", func(s Session) (Session, error) {
		return Session{}, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err = store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, filter.Dinner, got.State().Category, "failed update must not be stored")

	_, err = store.Update("missing", func(s Session) (Session, error) { return s, nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	store := NewStore(2, time.Minute, func(id string) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, id)
	})

	for i := 0; i < 3; i++ {
		store.Put(NewLoading(fmt.Sprintf("s%d", i)))
	}

	assert.Equal(t, 2, store.Len())
	_, err := store.Get("s0")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"s0"}, evicted)
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	store := NewStore(10, time.Minute, nil)
	engine := filter.NewEngine()
	s, err := NewReady("abc", testDataset(), engine)
	require.NoError(t, err)
	store.Put(s)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = store.Update("abc", func(s Session) (Session, error) {
				return s.Update(engine, SetSearchText{Text: s.State().SearchText + "x"})
			})
		}(i)
	}
	wg.Wait()

	got, err := store.Get("abc")
	require.NoError(t, err)
	assert.Len(t, got.State().SearchText, 50)
	assert.Empty(t, got.Visible)
}

func TestStore_UpdateDoesNotResurrectDeletedSession(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	store := NewStore(10, time.Minute, func(id string) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, id)
	})
	engine := filter.NewEngine()
	s, err := NewReady("abc", testDataset(), engine)
	require.NoError(t, err)
	store.Put(s)

	// the session is deleted while its update is in flight
	_, err = store.Update("abc", func(s Session) (Session, error) {
		require.True(t, store.Delete("abc"))
		return s.Update(engine, SelectCategory{Category: filter.Lunch})
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 0, store.Len())
	_, err = store.Get("abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"abc"}, evicted)
}
