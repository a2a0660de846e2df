// Package utils holds the shared HTTP transport helpers.
package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"autopart/models"
)

// WriteJSON renders v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a JSON error body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, models.ErrorResponse{Error: msg})
}

// ReadJSON decodes the request body into v, rejecting unknown fields.
func ReadJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
