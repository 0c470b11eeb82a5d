package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// errorResponse is the JSON body for every error status.
type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// exposeErrorDetail attaches the cause chain of unclassified errors to 500
// responses. Set once at startup, before the server accepts traffic.
var exposeErrorDetail bool

// ExposeErrorDetail enables diagnostic detail on unclassified errors.
// Intended for non-production environments only.
func ExposeErrorDetail(enable bool) {
	exposeErrorDetail = enable
}

// mapping pairs a taxonomy root with its HTTP translation.
type mapping struct {
	sentinel error
	status   int
	code     string
}

// Ordered most specific first; the generic 500 is the fallthrough.
var errorMappings = []mapping{
	{domain.ErrValidation, http.StatusBadRequest, "validation_failed"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrRuleViolation, http.StatusUnprocessableEntity, "rule_violation"},
	{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
	{domain.ErrExternalService, http.StatusBadGateway, "external_service"},
	{domain.ErrTimeout, http.StatusGatewayTimeout, "timeout"},
}

// writeError translates a service error into an HTTP response. 5xx causes
// are logged at error level with the full chain; 4xx at warn.
func writeError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	message := "internal server error"
	classified := false

	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			status = m.status
			code = m.code
			message = err.Error()
			classified = true
			break
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("request failed")
	} else {
		logger.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}

	resp := errorResponse{Error: message, Code: code}
	if !classified && exposeErrorDetail {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}
