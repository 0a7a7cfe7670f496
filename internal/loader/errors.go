package loader

import (
	"errors"
	"fmt"
)

var (
	ErrNotArray        = errors.New("payload is not a JSON array")
	ErrPayloadTooLarge = errors.New("payload exceeds size limit")
	ErrUnsupportedURL  = errors.New("unsupported data source")
)

// LoadError reports a dataset that could not be produced. It is terminal
// for the load attempt: no partial dataset accompanies it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(source string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Source: source, Err: err}
}
