package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Adyime/DadapperDaze-sub001/internal/catalog"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields,omitempty"`
}

type paginationMetadata struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Returned   int  `json:"returned"`
	HasMore    bool `json:"has_more"`
	NextOffset *int `json:"next_offset,omitempty"`
}

type paginatedListResponse struct {
	Items      any                `json:"items"`
	Pagination paginationMetadata `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writePaginatedList reports has_more when the page came back full; the
// listing query does not count the total.
func writePaginatedList(w http.ResponseWriter, limit, offset, returned int, items any) {
	meta := paginationMetadata{Limit: limit, Offset: offset, Returned: returned}
	if limit > 0 && returned >= limit {
		next := offset + returned
		meta.HasMore = true
		meta.NextOffset = &next
	}
	writeJSON(w, http.StatusOK, paginatedListResponse{Items: items, Pagination: meta})
}

// writeServiceError maps catalog errors onto HTTP statuses. Unexpected
// errors are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr validation.Errors
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr})
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrCouponInactive):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrConflict):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrCouponExpired):
		writeJSONError(w, http.StatusGone, "coupon expired")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
