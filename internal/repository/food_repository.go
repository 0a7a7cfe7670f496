package repository

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/Lixing-Zhang/food-finder/internal/models"
)

var (
	ErrFoodNotFound     = errors.New("food not found")
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// FoodRepository defines the interface for food catalog access
type FoodRepository interface {
	Current(ctx context.Context) (*catalog.Dataset, error)
	GetByID(ctx context.Context, id string) (*models.FoodItem, error)
	Publish(ctx context.Context, ds *catalog.Dataset) error
}

// InMemoryFoodRepository holds the currently published dataset. Publishing
// swaps the whole dataset atomically; readers holding the previous one keep
// a consistent view.
type InMemoryFoodRepository struct {
	current atomic.Pointer[catalog.Dataset]
}

// NewInMemoryFoodRepository creates an empty repository. Current fails with
// ErrCatalogNotLoaded until a dataset is published.
func NewInMemoryFoodRepository() *InMemoryFoodRepository {
	return &InMemoryFoodRepository{}
}

// Current returns the published dataset
func (r *InMemoryFoodRepository) Current(ctx context.Context) (*catalog.Dataset, error) {
	ds := r.current.Load()
	if ds == nil {
		return nil, ErrCatalogNotLoaded
	}
	return ds, nil
}

// GetByID returns a food item of the published dataset by its ID
func (r *InMemoryFoodRepository) GetByID(ctx context.Context, id string) (*models.FoodItem, error) {
	ds, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := ds.Get(id)
	if !ok {
		return nil, ErrFoodNotFound
	}
	return &item, nil
}

// Publish replaces the published dataset
func (r *InMemoryFoodRepository) Publish(ctx context.Context, ds *catalog.Dataset) error {
	if ds == nil {
		return errors.New("cannot publish nil dataset")
	}
	r.current.Store(ds)
	return nil
}
