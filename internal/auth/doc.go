// Package auth authenticates callers of the admin API.
//
// # Tokens
//
// Clients present a bearer JWT signed with HS256 using the configured
// jwt_secret. The subject claim identifies the principal.
//
// # Middleware
//
// Middleware verifies the token, rejects missing or invalid credentials with
// a 401 JSON body, and stores the principal on the request context for
// handlers and audit trails:
//
//	principal, ok := auth.PrincipalFrom(r.Context())
package auth
