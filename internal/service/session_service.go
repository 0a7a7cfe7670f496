package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/metrics"
	"github.com/Lixing-Zhang/food-finder/internal/repository"
	"github.com/Lixing-Zhang/food-finder/internal/session"
	"github.com/google/uuid"
)

// SessionService wires user actions to session transitions. Each action
// updates the selection and re-runs the engine before returning, so the
// returned session always reflects the latest state.
type SessionService struct {
	store   *session.Store
	repo    repository.FoodRepository
	engine  *filter.Engine
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewSessionService creates a new session service. metrics may be nil.
func NewSessionService(store *session.Store, repo repository.FoodRepository, engine *filter.Engine, m *metrics.Collector, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:   store,
		repo:    repo,
		engine:  engine,
		metrics: m,
		logger:  logger,
	}
}

// Create starts a session bound to the currently published dataset
func (s *SessionService) Create(ctx context.Context) (session.Session, error) {
	ds, err := s.repo.Current(ctx)
	if err != nil {
		return session.Session{}, err
	}

	sess, err := session.NewReady(uuid.New().String(), ds, s.engine)
	if err != nil {
		return session.Session{}, err
	}

	s.store.Put(sess)
	s.observeSessions()
	s.logger.Debug("session created", "session_id", sess.ID, "items", len(sess.Visible))
	return sess, nil
}

// Get returns a session by ID
func (s *SessionService) Get(ctx context.Context, id string) (session.Session, error) {
	return s.store.Get(id)
}

// SelectCategory moves the session to category c
func (s *SessionService) SelectCategory(ctx context.Context, id string, c filter.Category) (session.Session, error) {
	return s.update(id, session.SelectCategory{Category: filter.ParseCategory(string(c))})
}

// SetSearchText replaces the session's search text
func (s *SessionService) SetSearchText(ctx context.Context, id string, text string) (session.Session, error) {
	return s.update(id, session.SetSearchText{Text: text})
}

// Delete ends a session
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		return session.ErrSessionNotFound
	}
	s.observeSessions()
	return nil
}

func (s *SessionService) update(id string, ev session.Event) (session.Session, error) {
	sess, err := s.store.Update(id, func(current session.Session) (session.Session, error) {
		next, err := current.Update(s.engine, ev)
		if s.metrics != nil && !errors.Is(err, session.ErrNotReady) {
			s.metrics.ObserveFilter(next.State().Category.String(), len(next.Visible), err)
		}
		return next, err
	})
	if err != nil {
		return sess, err
	}

	state := sess.State()
	s.logger.Debug("session updated",
		"session_id", id,
		"search_text", state.SearchText,
		"category", state.Category.String(),
		"visible", len(sess.Visible),
	)
	return sess, nil
}

func (s *SessionService) observeSessions() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	}
}
