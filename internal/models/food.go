package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FoodItem represents one catalog entry as served by the food data source.
// Only name and type are interpreted; every other field (price, text,
// image, ...) is kept verbatim in Attributes and written back unchanged.
type FoodItem struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`

	Attributes map[string]json.RawMessage `json:"-"`

	// rawID is the payload's id when it was not a JSON string, e.g. 7
	rawID json.RawMessage
}

// Attribute returns a pass-through field by name
func (f FoodItem) Attribute(key string) (json.RawMessage, bool) {
	value, ok := f.Attributes[key]
	return value, ok
}

// UnmarshalJSON decodes name and type and collects the rest into Attributes.
// A non-string id is accepted; ID holds its literal text.
func (f *FoodItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var item FoodItem
	if err := decodeString(raw, "name", &item.Name); err != nil {
		return err
	}
	if err := decodeString(raw, "type", &item.Type); err != nil {
		return err
	}

	if id, ok := raw["id"]; ok {
		delete(raw, "id")
		switch {
		case isNull(id):
		case bytes.HasPrefix(bytes.TrimSpace(id), []byte(`"`)):
			if err := json.Unmarshal(id, &item.ID); err != nil {
				return fmt.Errorf("field id: %w", err)
			}
		default:
			item.rawID = append(json.RawMessage(nil), bytes.TrimSpace(id)...)
			item.ID = string(item.rawID)
		}
	}

	if len(raw) > 0 {
		item.Attributes = raw
	}

	*f = item
	return nil
}

// MarshalJSON writes id, name, type and the pass-through attributes.
// The known fields win over attributes of the same name.
func (f FoodItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(f.Attributes)+3)
	for key, value := range f.Attributes {
		out[key] = value
	}

	if f.rawID != nil && string(f.rawID) == f.ID {
		out["id"] = f.rawID
	} else if err := encodeString(out, "id", f.ID); err != nil {
		return nil, err
	}
	if err := encodeString(out, "name", f.Name); err != nil {
		return nil, err
	}
	if err := encodeString(out, "type", f.Type); err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	if isNull(value) {
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

func encodeString(out map[string]json.RawMessage, key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	out[key] = data
	return nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
