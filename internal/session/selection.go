package session

import (
	"github.com/Lixing-Zhang/food-finder/internal/filter"
)

// Selection tracks the active category and the current search text.
// Transitions return a new Selection; the receiver is never modified.
// There is no terminal state: any transition is accepted at any time.
type Selection struct {
	state filter.State
}

// NewSelection returns the initial selection: no search text, category All
func NewSelection() Selection {
	return Selection{state: filter.DefaultState()}
}

// SelectCategory sets the category, leaving the search text untouched
func (s Selection) SelectCategory(c filter.Category) Selection {
	s.state.Category = c
	return s
}

// SetSearchText sets the search text, leaving the category untouched
func (s Selection) SetSearchText(text string) Selection {
	s.state.SearchText = text
	return s
}

// State returns the filter state the selection represents
func (s Selection) State() filter.State {
	return s.state
}

// Event is a user action that moves the selection to a new state
type Event interface {
	apply(Selection) Selection
}

// SelectCategory is emitted when a category button is chosen
type SelectCategory struct {
	Category filter.Category
}

func (e SelectCategory) apply(s Selection) Selection {
	return s.SelectCategory(e.Category)
}

// SetSearchText is emitted on every change of the search box
type SetSearchText struct {
	Text string
}

func (e SetSearchText) apply(s Selection) Selection {
	return s.SetSearchText(e.Text)
}
