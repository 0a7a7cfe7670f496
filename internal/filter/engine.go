// Package filter turns a dataset and a filter state into the visible subset.
//
// The name search and the category selection are independent predicates.
// The visible subset is their intersection, in dataset order.
package filter

import (
	"strings"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/bits-and-blooms/bitset"
)

// State is the pair of inputs driving the current view. It is a value:
// callers replace it wholesale rather than mutating it.
type State struct {
	SearchText string   `json:"searchText"`
	Category   Category `json:"category"`
}

// DefaultState returns the state a fresh view starts in
func DefaultState() State {
	return State{SearchText: "", Category: All}
}

// Engine applies filter states to datasets. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	known    map[Category]struct{}
	ordered  []Category
	fromData bool
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithCategories replaces the known category set. Labels are case-folded;
// All is always accepted and need not be listed.
func WithCategories(categories ...Category) EngineOption {
	return func(e *Engine) {
		e.known = make(map[Category]struct{}, len(categories))
		e.ordered = e.ordered[:0]
		for _, c := range categories {
			c = ParseCategory(string(c))
			if c == All {
				continue
			}
			if _, dup := e.known[c]; dup {
				continue
			}
			e.known[c] = struct{}{}
			e.ordered = append(e.ordered, c)
		}
	}
}

// WithDataCategories also accepts every type present in the dataset being
// filtered, so new categories need no code or config change.
func WithDataCategories(enabled bool) EngineOption {
	return func(e *Engine) {
		e.fromData = enabled
	}
}

// NewEngine creates an engine that knows DefaultCategories unless
// configured otherwise
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	WithCategories(DefaultCategories...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories returns the selectable categories for ds: All first, then the
// configured categories, then (when enabled) types only found in the data.
func (e *Engine) Categories(ds *catalog.Dataset) []Category {
	out := make([]Category, 0, len(e.ordered)+1)
	out = append(out, All)
	out = append(out, e.ordered...)
	if e.fromData && ds != nil {
		for _, t := range ds.Types() {
			c := Category(t)
			if c == All {
				continue
			}
			if _, ok := e.known[c]; !ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// Validate checks that the state's category is selectable for ds
func (e *Engine) Validate(ds *catalog.Dataset, state State) error {
	c := ParseCategory(string(state.Category))
	if c == All {
		return nil
	}
	if _, ok := e.known[c]; ok {
		return nil
	}
	if e.fromData && ds != nil && ds.HasType(string(c)) {
		return nil
	}
	return &InvalidFilterError{Category: c}
}

// Apply returns the items of ds matching both the name search and the
// category of state, in dataset order. An empty result is not an error.
func (e *Engine) Apply(ds *catalog.Dataset, state State) ([]models.FoodItem, error) {
	if err := e.Validate(ds, state); err != nil {
		return nil, err
	}
	if ds == nil {
		return []models.FoodItem{}, nil
	}

	matches := e.byName(ds, state.SearchText)
	matches.InPlaceIntersection(e.byCategory(ds, ParseCategory(string(state.Category))))

	return ds.Select(matches), nil
}

// byName is the set of items whose folded name contains the folded search
// text. Whitespace is matched literally.
func (e *Engine) byName(ds *catalog.Dataset, searchText string) *bitset.BitSet {
	if searchText == "" {
		return ds.AllSet()
	}

	needle := catalog.Fold(searchText)
	set := bitset.New(uint(ds.Len()))
	for i := 0; i < ds.Len(); i++ {
		if strings.Contains(ds.FoldedName(i), needle) {
			set.Set(uint(i))
		}
	}
	return set
}

func (e *Engine) byCategory(ds *catalog.Dataset, c Category) *bitset.BitSet {
	if c == All {
		return ds.AllSet()
	}
	return ds.TypeSet(string(c))
}
