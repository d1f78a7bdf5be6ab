// Package connection manages SSO connections keyed by client credentials.
//
// CreateConnection generates both clientID and clientSecret, stores the
// connection under the clientID, and indexes it by tenant+product so
// GetConnectionsByTenantAndProduct can resolve all connections for a tenant.
// DeleteConnection is a no-op for unknown clientIDs and emits an audit event
// only when a connection was actually removed.
package connection
