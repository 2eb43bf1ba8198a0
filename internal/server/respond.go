package server

import (
	"encoding/json"
	"net/http"

	"github.com/labelforge/labelforge/pkg/errors"
)

// errorResponse is the JSON shape of every failed request.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps an error code to an HTTP status and writes the
// standard error envelope. Internal errors get a generic message so
// filesystem paths and driver details never reach the client.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForCode(errors.GetCode(err)), errorResponse{
		Status:  "error",
		Message: errors.UserMessage(err),
	})
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidRange,
		errors.ErrCodeInvalidFilename,
		errors.ErrCodeEmptyWorkbook:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeBatchNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized,
		errors.ErrCodeSessionNotFound,
		errors.ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
