// Package license gates premium features behind a license key check.
//
// Checker validates a key before any gated operation runs. A failed check
// yields an *Error carrying a 403 status and wrapping ErrInvalidLicense, so
// callers can test with errors.Is and HTTP layers can map the status
// directly.
package license
