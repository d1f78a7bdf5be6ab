// ABOUTME: License gate invoked before every controller operation
// ABOUTME: Defines the Checker contract and a typed error carrying an HTTP status

package license

import (
	"context"
	"errors"
	"net/http"
)

// ErrInvalidLicense is wrapped by every gate failure so callers can test with errors.Is.
var ErrInvalidLicense = errors.New("invalid license")

// Error is the typed failure returned by a Checker. StatusCode is directly
// mappable to an HTTP response status.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap ties every gate failure to ErrInvalidLicense.
func (e *Error) Unwrap() error {
	return ErrInvalidLicense
}

// NewError builds a gate failure with the given message and status.
func NewError(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

// Checker validates a license key. Check returns nil on a valid license and a
// *Error on an invalid or missing one. Controllers call it before touching
// any store; validation itself (remote service, signature check) lives behind
// this interface.
type Checker interface {
	Check(ctx context.Context, key string) error
}

// StaticChecker validates keys against a fixed allow set. It stands in for
// the external validation service in self-hosted deployments and tests.
type StaticChecker struct {
	valid map[string]struct{}
}

var _ Checker = (*StaticChecker)(nil)

// NewStaticChecker creates a checker accepting exactly the given keys.
func NewStaticChecker(keys ...string) *StaticChecker {
	valid := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		valid[k] = struct{}{}
	}
	return &StaticChecker{valid: valid}
}

// Check returns nil when key is in the allow set, a 403 *Error otherwise.
func (c *StaticChecker) Check(ctx context.Context, key string) error {
	if key == "" {
		return NewError("license key is missing", http.StatusForbidden)
	}
	if _, ok := c.valid[key]; !ok {
		return NewError("license key is not valid, please reach out to your account manager", http.StatusForbidden)
	}
	return nil
}
