// ABOUTME: Audit event types and emitter contract for compliance logging
// ABOUTME: Events record who did what, tagged with an action name and a CRUD classifier

package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CRUD classifies an audit event as a create, read, update or delete.
type CRUD string

const (
	Create CRUD = "c"
	Read   CRUD = "r"
	Update CRUD = "u"
	Delete CRUD = "d"
)

// Event is a single audit record. Emission is best-effort: a lost event never
// fails or rolls back the operation it describes.
type Event struct {
	ID         string
	Action     string // e.g. "dsync.connection.update"
	CRUD       CRUD
	Actor      string // authenticated principal performing the action
	OccurredAt time.Time
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(action string, crud CRUD, actor string) Event {
	return Event{
		ID:         uuid.New().String(),
		Action:     action,
		CRUD:       crud,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// Emitter accepts audit events, fire-and-forget. Implementations must not
// block the caller's response path and must swallow backend failures.
type Emitter interface {
	Emit(Event)
}

// NopEmitter discards all events. Use when no audit backend is configured.
type NopEmitter struct{}

// Emit discards the event.
func (NopEmitter) Emit(Event) {}

// LogEmitter writes events to a structured logger.
type LogEmitter struct {
	logger *slog.Logger
}

var _ Emitter = (*LogEmitter)(nil)

// NewLogEmitter creates an emitter backed by the given logger.
// If logger is nil, slog.Default() is used.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger.With("component", "audit")}
}

// Emit logs the event.
func (e *LogEmitter) Emit(ev Event) {
	e.logger.Info("audit event",
		"id", ev.ID,
		"action", ev.Action,
		"crud", string(ev.CRUD),
		"actor", ev.Actor,
		"occurred_at", ev.OccurredAt.Format(time.RFC3339),
	)
}
