package handlers

import (
	"context"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/Lixing-Zhang/food-finder/internal/config"
	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/Lixing-Zhang/food-finder/internal/repository"
	"github.com/Lixing-Zhang/food-finder/internal/service"
	"github.com/Lixing-Zhang/food-finder/internal/session"
	"github.com/Lixing-Zhang/food-finder/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type stubLoader struct {
	ds    *catalog.Dataset
	err   error
	calls int
}

func (l *stubLoader) Load(ctx context.Context) (*catalog.Dataset, error) {
	l.calls++
	return l.ds, l.err
}

func menu() *catalog.Dataset {
	return catalog.New([]models.FoodItem{
		{ID: "1", Name: "Pancake", Type: "breakfast"},
		{ID: "2", Name: "Salad", Type: "lunch"},
		{ID: "3", Name: "Pizza", Type: "dinner"},
		{ID: "4", Name: "Pan Pizza", Type: "lunch"},
	}, catalog.WithSource("test://menu"))
}

const testAPIKey = "reload-key"

type testServer struct {
	router chi.Router
	loader *stubLoader
	foods  *service.FoodService
}

// newTestServer wires the handlers the way the server binary does. When
// load is true the menu is published before returning.
func newTestServer(load bool) *testServer {
	log := logger.New("error")
	repo := repository.NewInMemoryFoodRepository()
	engine := filter.NewEngine()
	l := &stubLoader{ds: menu()}

	foods := service.NewFoodService(repo, engine, l, nil, log)
	sessions := service.NewSessionService(session.NewStore(16, time.Minute, nil), repo, engine, nil, log)
	if load {
		if _, err := foods.Load(context.Background()); err != nil {
			panic(err)
		}
	}

	r := NewRouter(RouterDeps{
		Foods:    foods,
		Sessions: sessions,
		Auth:     config.AuthConfig{APIKeys: []string{testAPIKey}},
		Version:  "test",
		Logger:   log,
	})

	return &testServer{router: r, loader: l, foods: foods}
}

func itemNames(items []models.FoodItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}
