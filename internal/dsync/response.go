// ABOUTME: Result envelope for the directory-sync controller
// ABOUTME: Exactly one of Data and Error is populated, never both, never neither

package dsync

import (
	"errors"
	"net/http"

	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

// APIError carries an HTTP-mappable code alongside a human-readable message.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is the data-or-error pair returned by every Directories method.
// Callers branch on which field is set and map Error.Code straight to a
// transport status; no method of this controller raises across the boundary.
type Response[T any] struct {
	Data  *T        `json:"data"`
	Error *APIError `json:"error"`
}

func ok[T any](data *T) Response[T] {
	return Response[T]{Data: data}
}

func fail[T any](code int, message string) Response[T] {
	return Response[T]{Error: &APIError{Code: code, Message: message}}
}

// failFrom converts a raised error into the envelope: license failures keep
// their own status, absent records map to 404, everything else is a 500.
func failFrom[T any](err error) Response[T] {
	var licErr *license.Error
	if errors.As(err, &licErr) {
		return fail[T](licErr.StatusCode, licErr.Message)
	}
	if errors.Is(err, store.ErrNotFound) {
		return fail[T](http.StatusNotFound, "directory configuration not found")
	}
	return fail[T](http.StatusInternalServerError, err.Error())
}
