package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"giventake/pkg/types"
)

const maxJSONBodyBytes = 1 << 20

type errorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, &errorResponse{Message: message})
}

// writeError maps err onto a status code and a client-safe message.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		rerr *types.RollbackError
		verr *types.ValidationError
		derr *types.DomainError
		perr *types.PersistenceError
	)

	resp := &errorResponse{Message: "Unexpected error occurred"}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &rerr):
		resp.Message = "Failed to insert all donation items, transaction rolled back"
		resp.Errors = rerr.Errors
		if rerr.Validation {
			status = http.StatusBadRequest
		}
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Message = verr.Message
		resp.Errors = verr.Details
	case errors.As(err, &derr):
		status = statusForKind(derr.Kind)
		resp.Message = derr.Message
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
		resp.Message = notFoundMessage(err)
	case errors.As(err, &perr):
		resp.Message = perr.Op
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		if s.config.IsDevelopment() {
			resp.Error = err.Error()
		}
	}

	s.writeJSON(w, status, resp)
}

func statusForKind(kind error) int {
	switch {
	case errors.Is(kind, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, types.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, types.ErrInvalidCredentials), errors.Is(kind, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, types.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// notFoundMessage finds the entity error directly wrapping ErrNotFound, so
// ErrDonationNotFound renders as "Donation not found".
func notFoundMessage(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Unwrap(e) == types.ErrNotFound {
			return capitalize(e.Error())
		}
	}
	return "Not found"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return types.NewValidationError("Request body is required")
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return types.NewValidationError("Request body too large")
		}
		return types.NewValidationError("Invalid JSON body")
	}
}

// decodeQuery fills v from the query string using form tags.
func decodeQuery(r *http.Request, v any) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return types.NewValidationError("Invalid query parameters")
	}
	return nil
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
