// Package audit records who did what across the admin surfaces.
//
// # Events
//
// An Event captures a single action:
//
//   - ID: random UUID
//   - Action: dotted action name (e.g., "sso.connection.create")
//   - CRUD: one-letter operation class ("c", "r", "u", "d")
//   - Actor: principal that performed the action
//   - OccurredAt: UTC timestamp
//
// Controllers emit events only after the underlying write has succeeded;
// a failed operation produces no event.
//
// # Emitters
//
// Emitter is the delivery interface. LogEmitter writes events to slog,
// NopEmitter discards them, and Recorder collects them for tests.
//
// # Dispatcher
//
// Dispatcher decouples emission from delivery with a buffered channel and a
// single worker goroutine. Emit never blocks: when the buffer is full the
// event is dropped and a warning is logged. Close stops accepting events and
// drains whatever is already buffered.
//
// # Actor Propagation
//
// The authenticated principal travels on the request context:
//
//	ctx = audit.WithActor(ctx, principal)
//	actor := audit.ActorFrom(ctx) // "system" when unset
package audit
