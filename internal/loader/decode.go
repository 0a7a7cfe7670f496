package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/go-playground/validator/v10"
)

// limitedReader fails instead of silently truncating once max bytes are read
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// probe for more data beyond the limit
		var one [1]byte
		n, err := l.r.Read(one[:])
		if n > 0 {
			return 0, ErrPayloadTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

// decodeItems reads a JSON array of food items. Every element must be an
// object carrying a non-empty name and type; extra fields are kept.
func decodeItems(r io.Reader, maxBytes int64, validate *validator.Validate) ([]models.FoodItem, error) {
	if maxBytes > 0 {
		r = &limitedReader{r: r, remaining: maxBytes}
	}
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotArray
		}
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, ErrNotArray
	}

	items := make([]models.FoodItem, 0)
	for dec.More() {
		var item models.FoodItem
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to parse item %d: %w", len(items), err)
		}
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("invalid item %d: %w", len(items), err)
		}
		items = append(items, item)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	// only whitespace may follow the array
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("failed to parse payload: %w", err)
		}
		return nil, fmt.Errorf("failed to parse payload: unexpected %v after array", tok)
	}

	return items, nil
}

func buildDataset(items []models.FoodItem, source string) *catalog.Dataset {
	return catalog.New(items, catalog.WithSource(source))
}
