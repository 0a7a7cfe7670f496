package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/metrics"
	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/Lixing-Zhang/food-finder/internal/repository"
	"github.com/Lixing-Zhang/food-finder/internal/session"
)

// CategoryOption is one selectable category button
type CategoryOption struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogStats describes the published dataset
type CatalogStats struct {
	Source     string         `json:"source"`
	TotalItems int            `json:"total_items"`
	TypeCounts map[string]int `json:"type_counts"`
	LoadedAt   time.Time      `json:"loaded_at"`
}

// FoodService handles catalog loading and stateless filtering
type FoodService struct {
	repo    repository.FoodRepository
	engine  *filter.Engine
	loader  session.DatasetLoader
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewFoodService creates a new food service. metrics may be nil.
func NewFoodService(repo repository.FoodRepository, engine *filter.Engine, loader session.DatasetLoader, m *metrics.Collector, logger *slog.Logger) *FoodService {
	return &FoodService{
		repo:    repo,
		engine:  engine,
		loader:  loader,
		metrics: m,
		logger:  logger,
	}
}

// Load fetches a fresh dataset and publishes it. On failure the previously
// published dataset, if any, stays in place.
func (s *FoodService) Load(ctx context.Context) (*catalog.Dataset, error) {
	start := time.Now()
	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.observeLoad(0, err)
		s.logger.Error("catalog load failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	if err := s.repo.Publish(ctx, ds); err != nil {
		s.observeLoad(0, err)
		return nil, err
	}

	s.observeLoad(ds.Len(), nil)
	s.logger.Info("catalog loaded",
		"source", ds.Source(),
		"items", ds.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// ListFoods applies state to the published dataset
func (s *FoodService) ListFoods(ctx context.Context, state filter.State) ([]models.FoodItem, error) {
	ds, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.engine.Apply(ds, state)
	if s.metrics != nil {
		s.metrics.ObserveFilter(state.Category.String(), len(items), err)
	}
	return items, err
}

// GetFood returns a food item by ID
func (s *FoodService) GetFood(ctx context.Context, id string) (*models.FoodItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Categories returns the category buttons for the published dataset, All first
func (s *FoodService) Categories(ctx context.Context) ([]CategoryOption, error) {
	ds, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}

	counts := ds.TypeCounts()
	categories := s.engine.Categories(ds)
	options := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		count := counts[string(c)]
		if c == filter.All {
			count = ds.Len()
		}
		options = append(options, CategoryOption{
			Type:  c.String(),
			Name:  c.Label(),
			Count: count,
		})
	}
	return options, nil
}

// Stats returns statistics about the published dataset
func (s *FoodService) Stats(ctx context.Context) (*CatalogStats, error) {
	ds, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogStats{
		Source:     ds.Source(),
		TotalItems: ds.Len(),
		TypeCounts: ds.TypeCounts(),
		LoadedAt:   ds.LoadedAt(),
	}, nil
}

// Ready reports whether a dataset has been published
func (s *FoodService) Ready(ctx context.Context) bool {
	_, err := s.repo.Current(ctx)
	return err == nil
}

func (s *FoodService) observeLoad(items int, err error) {
	if s.metrics != nil {
		s.metrics.ObserveLoad(items, err)
	}
}
