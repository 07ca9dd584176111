// Package httpx provides JSON response utilities following RFC7807 problem
// details for errors.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// List wraps items with pagination metadata.
type List struct {
	Items      any               `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// JSONList sends a paginated collection response.
func JSONList(w http.ResponseWriter, items any, p shared.Pagination) {
	JSON(w, http.StatusOK, List{Items: items, Pagination: p})
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
