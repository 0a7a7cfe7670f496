// Package session holds the per-viewer state: the dataset the viewer is
// bound to, the current selection and the visible subset it produces.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/models"
)

var (
	ErrNotReady        = errors.New("session dataset is not loaded")
	ErrSessionNotFound = errors.New("session not found")
)

// LoadStatus is the dataset load state of a session
type LoadStatus int

const (
	StatusLoading LoadStatus = iota
	StatusReady
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON
func (s LoadStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LoadStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*s = StatusLoading
	case "ready":
		*s = StatusReady
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown load status %q", text)
	}
	return nil
}

// DatasetLoader produces a complete dataset or fails
type DatasetLoader interface {
	Load(ctx context.Context) (*catalog.Dataset, error)
}

// Session is replaced wholesale on every transition; copies are safe to
// hand out.
type Session struct {
	ID        string
	Dataset   *catalog.Dataset
	Selection Selection
	Status    LoadStatus
	LoadErr   error
	Visible   []models.FoodItem
	UpdatedAt time.Time
}

// NewLoading returns a session waiting for its dataset
func NewLoading(id string) Session {
	return Session{
		ID:        id,
		Selection: NewSelection(),
		Status:    StatusLoading,
		UpdatedAt: time.Now().UTC(),
	}
}

// NewReady binds a session to ds with the initial selection applied
func NewReady(id string, ds *catalog.Dataset, engine *filter.Engine) (Session, error) {
	s := NewLoading(id)
	return s.Loaded(ds, engine)
}

// Loaded moves a loading session to ready, computing the initial visible subset
func (s Session) Loaded(ds *catalog.Dataset, engine *filter.Engine) (Session, error) {
	visible, err := engine.Apply(ds, s.Selection.State())
	if err != nil {
		return s, err
	}
	s.Dataset = ds
	s.Status = StatusReady
	s.LoadErr = nil
	s.Visible = visible
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// Failed moves the session to the terminal failed state. No partial
// dataset is kept.
func (s Session) Failed(err error) Session {
	s.Dataset = nil
	s.Visible = nil
	s.Status = StatusFailed
	s.LoadErr = err
	s.UpdatedAt = time.Now().UTC()
	return s
}

// Load runs the one-shot dataset load for a new session. The returned
// session is ready, or failed with the load error.
func Load(ctx context.Context, loader DatasetLoader, engine *filter.Engine, id string) Session {
	s := NewLoading(id)

	ds, err := loader.Load(ctx)
	if err != nil {
		return s.Failed(err)
	}

	ready, err := s.Loaded(ds, engine)
	if err != nil {
		return s.Failed(err)
	}
	return ready
}

// Update applies ev and recomputes the visible subset. When the engine
// rejects the new state the original session is returned with the error.
func (s Session) Update(engine *filter.Engine, ev Event) (Session, error) {
	if s.Status != StatusReady {
		return s, ErrNotReady
	}

	next := ev.apply(s.Selection)
	visible, err := engine.Apply(s.Dataset, next.State())
	if err != nil {
		return s, err
	}

	s.Selection = next
	s.Visible = visible
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// State returns the current filter state
func (s Session) State() filter.State {
	return s.Selection.State()
}
