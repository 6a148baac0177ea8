// Package httpx holds the JSON request/response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Kind   apperr.Kind       `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its status and writes an ErrorBody. Unclassified
// and internal errors are logged and reported without detail.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		if log != nil {
			log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		}
		WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal error", Kind: apperr.KindInternal})
		return
	}
	WriteJSON(w, ae.Kind.HTTPStatus(), ErrorBody{Error: ae.Message, Kind: ae.Kind, Fields: ae.Fields})
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
// An empty body is accepted when allowEmpty is set and leaves v untouched.
func DecodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return apperr.Wrap(apperr.KindInvalidArgument, "invalid request body", err)
	}
	return nil
}
