// ABOUTME: SSO connection controller over the generic record store
// ABOUTME: License-gated CRUD keyed by generated client ids, errors raised unchanged

package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brandlive1941/jackson/internal/audit"
	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

// ErrInvalidParams wraps caller-input validation failures so transport
// layers can map them to a bad-request status with errors.Is.
var ErrInvalidParams = errors.New("invalid parameters")

// Connection is one SSO connection for a tenant and product.
type Connection struct {
	ClientID     string    `json:"clientID"`
	ClientSecret string    `json:"clientSecret"`
	TenantID     string    `json:"tenantId"`
	Product      string    `json:"product"`
	Provider     string    `json:"provider,omitempty"`
	ACSURL       string    `json:"acsUrl,omitempty"`
	EntityID     string    `json:"entityId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateParams is the caller-supplied part of a new connection. Client id and
// secret are always generated; they are never derived from these values.
type CreateParams struct {
	TenantID string
	Product  string
	Provider string
	ACSURL   string
	EntityID string
}

// Params wires a Controller.
type Params struct {
	Connections *store.Collection
	Licenses    license.Checker
	LicenseKey  string
	Audit       audit.Emitter
	Logger      *slog.Logger
}

// Controller exposes SSO connection operations. Like the chat controller it
// raises: errors propagate to the caller unchanged, and the HTTP layer maps
// them to a status itself.
type Controller struct {
	connections *store.Collection
	licenses    license.Checker
	licenseKey  string
	audit       audit.Emitter
	logger      *slog.Logger
}

// New creates a connection controller with explicit dependencies.
func New(p Params) *Controller {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	emitter := p.Audit
	if emitter == nil {
		emitter = audit.NopEmitter{}
	}
	return &Controller{
		connections: p.Connections,
		licenses:    p.Licenses,
		licenseKey:  p.LicenseKey,
		audit:       emitter,
		logger:      logger.With("component", "connection"),
	}
}

// CreateConnection stores a new connection under generated credentials.
func (c *Controller) CreateConnection(ctx context.Context, params CreateParams) (*Connection, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if params.TenantID == "" || params.Product == "" {
		return nil, fmt.Errorf("%w: tenant and product are required", ErrInvalidParams)
	}

	connection := Connection{
		ClientID:     store.NewID(),
		ClientSecret: store.NewID(),
		TenantID:     params.TenantID,
		Product:      params.Product,
		Provider:     params.Provider,
		ACSURL:       params.ACSURL,
		EntityID:     params.EntityID,
		CreatedAt:    time.Now().UTC(),
	}

	value, err := json.Marshal(connection)
	if err != nil {
		return nil, fmt.Errorf("encoding connection: %w", err)
	}

	err = c.connections.Put(ctx, connection.ClientID, value,
		store.TenantProductIndex(connection.TenantID, connection.Product))
	if err != nil {
		return nil, err
	}

	c.audit.Emit(audit.NewEvent("sso.connection.create", audit.Create, audit.ActorFrom(ctx)))
	c.logger.Debug("created connection", "client_id", connection.ClientID, "tenant", connection.TenantID)

	return &connection, nil
}

// GetConnections returns the connections matching a client id. An unknown
// client id yields an empty slice, not an error.
func (c *Controller) GetConnections(ctx context.Context, clientID string) ([]Connection, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientID is required", ErrInvalidParams)
	}

	value, err := c.connections.Get(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return []Connection{}, nil
	}
	if err != nil {
		return nil, err
	}

	var connection Connection
	if err := json.Unmarshal(value, &connection); err != nil {
		return nil, fmt.Errorf("decoding connection %s: %w", clientID, err)
	}

	c.audit.Emit(audit.NewEvent("sso.connection.view", audit.Read, audit.ActorFrom(ctx)))

	return []Connection{connection}, nil
}

// GetConnectionsByTenantAndProduct returns a tenant's connections for one product.
func (c *Controller) GetConnectionsByTenantAndProduct(ctx context.Context, tenant, product string) ([]Connection, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if tenant == "" || product == "" {
		return nil, fmt.Errorf("%w: tenant and product are required", ErrInvalidParams)
	}

	records, err := c.connections.GetByIndex(ctx, store.TenantProductIndex(tenant, product))
	if err != nil {
		return nil, err
	}

	connections := make([]Connection, 0, len(records))
	for _, r := range records {
		var connection Connection
		if err := json.Unmarshal(r.Value, &connection); err != nil {
			return nil, fmt.Errorf("decoding connection %s: %w", r.ID, err)
		}
		connections = append(connections, connection)
	}
	return connections, nil
}

// DeleteConnection removes a connection. Deleting an unknown client id is a
// no-op and emits no audit event.
func (c *Controller) DeleteConnection(ctx context.Context, clientID string) error {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return err
	}
	if clientID == "" {
		return fmt.Errorf("%w: clientID is required", ErrInvalidParams)
	}

	// Existence decides whether a delete event is emitted
	_, err := c.connections.Get(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := c.connections.Delete(ctx, clientID); err != nil {
		return err
	}

	c.audit.Emit(audit.NewEvent("sso.connection.delete", audit.Delete, audit.ActorFrom(ctx)))
	c.logger.Debug("deleted connection", "client_id", clientID)

	return nil
}
