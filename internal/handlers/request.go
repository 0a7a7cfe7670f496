package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 16

var validate = validator.New(validator.WithRequiredStructEnabled())

// CategoryRequest is the body of PUT /api/session/{sessionId}/category
type CategoryRequest struct {
	Category string `json:"category" validate:"required,max=64"`
}

// SearchRequest is the body of PUT /api/session/{sessionId}/search.
// Text may be empty, which clears the search.
type SearchRequest struct {
	Text *string `json:"text" validate:"required"`
}

// decodeRequest reads a JSON body into dst and validates it
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid field %s: failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}
