// Package catalog holds the immutable, ordered food dataset and the
// read-only index the filter engine evaluates predicates against.
package catalog

import (
	"fmt"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"
)

// itemNamespace seeds the name-based ids given to items that arrive without one
var itemNamespace = uuid.MustParse("3b8f5c1e-6a2d-4e7f-9c10-5d2b7a4e8f31")

// Dataset is an ordered, immutable sequence of food items. It is safe for
// concurrent readers; nothing mutates it after New returns.
type Dataset struct {
	items    []models.FoodItem
	names    []string // case-folded names, parallel to items
	types    []string // distinct case-folded types in first-seen order
	byType   map[string]*bitset.BitSet
	byID     map[string]int
	source   string
	loadedAt time.Time
}

// Option configures a Dataset at construction
type Option func(*Dataset)

// WithSource records where the dataset was loaded from
func WithSource(source string) Option {
	return func(d *Dataset) {
		d.source = source
	}
}

// WithLoadedAt overrides the load timestamp
func WithLoadedAt(t time.Time) Option {
	return func(d *Dataset) {
		d.loadedAt = t
	}
}

// New builds a Dataset from items, preserving their order. The slice is
// copied. Items without an id get a stable name-based UUID derived from
// their position and name.
func New(items []models.FoodItem, opts ...Option) *Dataset {
	d := &Dataset{
		items:    make([]models.FoodItem, len(items)),
		names:    make([]string, len(items)),
		byType:   make(map[string]*bitset.BitSet),
		byID:     make(map[string]int, len(items)),
		loadedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(d)
	}

	n := uint(len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewSHA1(itemNamespace, []byte(fmt.Sprintf("%d:%s", i, item.Name))).String()
		}
		d.items[i] = item
		d.names[i] = Fold(item.Name)

		if _, exists := d.byID[item.ID]; !exists {
			d.byID[item.ID] = i
		}

		t := Fold(item.Type)
		set, ok := d.byType[t]
		if !ok {
			set = bitset.New(n)
			d.byType[t] = set
			d.types = append(d.types, t)
		}
		set.Set(uint(i))
	}

	return d
}

// Len returns the number of items
func (d *Dataset) Len() int {
	return len(d.items)
}

// At returns the item at position i
func (d *Dataset) At(i int) models.FoodItem {
	return d.items[i]
}

// Items returns a copy of all items in dataset order
func (d *Dataset) Items() []models.FoodItem {
	out := make([]models.FoodItem, len(d.items))
	copy(out, d.items)
	return out
}

// Get returns the item with the given id
func (d *Dataset) Get(id string) (models.FoodItem, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.FoodItem{}, false
	}
	return d.items[i], true
}

// FoldedName returns the case-folded name of the item at position i
func (d *Dataset) FoldedName(i int) string {
	return d.names[i]
}

// Types returns the distinct case-folded item types in first-seen order
func (d *Dataset) Types() []string {
	out := make([]string, len(d.types))
	copy(out, d.types)
	return out
}

// HasType reports whether any item has the given case-folded type
func (d *Dataset) HasType(t string) bool {
	_, ok := d.byType[t]
	return ok
}

// TypeCounts returns the number of items per case-folded type
func (d *Dataset) TypeCounts() map[string]int {
	counts := make(map[string]int, len(d.byType))
	for t, set := range d.byType {
		counts[t] = int(set.Count())
	}
	return counts
}

// AllSet returns a fresh set containing every position
func (d *Dataset) AllSet() *bitset.BitSet {
	n := uint(len(d.items))
	return bitset.New(n).FlipRange(0, n)
}

// TypeSet returns a fresh set of the positions whose folded type equals t
func (d *Dataset) TypeSet(t string) *bitset.BitSet {
	if set, ok := d.byType[t]; ok {
		return set.Clone()
	}
	return bitset.New(uint(len(d.items)))
}

// Select returns the items whose positions are in set, in dataset order
func (d *Dataset) Select(set *bitset.BitSet) []models.FoodItem {
	out := make([]models.FoodItem, 0, set.Count())
	for i, ok := set.NextSet(0); ok && int(i) < len(d.items); i, ok = set.NextSet(i + 1) {
		out = append(out, d.items[i])
	}
	return out
}

// Source returns where the dataset was loaded from, if known
func (d *Dataset) Source() string {
	return d.source
}

// LoadedAt returns when the dataset was built
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}
