// Package handler provides the HTTP API for the blogging platform.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagedResponse is the envelope for list endpoints.
type pagedResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// decodeJSON decodes the request body into v. A malformed body is a
// validation failure.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	return nil
}

// pageParams reads page/page_size query parameters. Out-of-range values
// clamp rather than fail.
func pageParams(r *http.Request) (pageNumber, pageSize int) {
	pageNumber, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageNumber, pageSize
}

// pathID parses a numeric route parameter.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: malformed id %q", domain.ErrValidation, raw)
	}
	return id, nil
}
