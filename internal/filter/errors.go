package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter is matched by every InvalidFilterError via errors.Is
var ErrInvalidFilter = errors.New("invalid filter")

// InvalidFilterError reports a category outside the engine's known set
type InvalidFilterError struct {
	Category Category
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: unknown category %q", string(e.Category))
}

// Is makes errors.Is(err, ErrInvalidFilter) hold
func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}
