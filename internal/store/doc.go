// Package store provides the generic record store underlying every domain
// controller: primary-key lookup, full scans, and secondary-index lookup over
// opaque serialized values grouped into named collections.
//
// # Addressing
//
// Every record has exactly one primary identifier, generated with NewID at
// creation time and never recomputed from content. Secondary indexes are
// identified by a closed set of IndexName constants; composite key values are
// built with KeyFromParts, which joins ordered parts injectively (order
// matters, delimiter characters inside parts are escaped). Use the typed
// constructors (TeamUserIndex, ConversationIndex, TenantProductIndex) so the
// arity and part order of each index are fixed at compile time.
//
// # Consistency
//
// Put replaces a record's value and re-derives all of its index memberships
// as one atomic unit; Delete removes the value and every index entry
// referencing it. Readers never observe a stale index row pointing at a
// deleted or updated record.
//
// # Implementations
//
//   - SQLiteStore: SQLite with WAL mode, values and index rows maintained in
//     one transaction. Use NewSQLiteStore(":memory:") in integration tests.
//   - MemStore: mutex-guarded maps for unit tests and ephemeral runs.
//
// # Error Handling
//
// Get returns ErrNotFound for absent ids; absence is a normal outcome, not a
// failure. Backend errors are wrapped and surfaced uninterpreted; the store
// never retries. All methods accept context.Context for cancellation.
package store
