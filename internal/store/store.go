// ABOUTME: Store interface and record types for multi-tenant persistence
// ABOUTME: Defines Record, Index and the Store interface implemented by SQLite and memory backends

package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Record is an opaque serialized value together with its primary identifier.
// The store never inspects Value; controllers own the shape of what they put in.
type Record struct {
	ID    string
	Value json.RawMessage
}

// IndexName identifies a secondary index. The set of index names is closed:
// each name has a fixed composite-key arity and part order, enforced by the
// typed constructors below. Never build an Index from raw strings.
type IndexName string

const (
	// IndexTeamUser addresses records by (teamID, userID), in that order.
	IndexTeamUser IndexName = "team_user"

	// IndexConversation addresses chat messages by conversation id.
	IndexConversation IndexName = "conversation"

	// IndexTenantProduct addresses records by (tenant, product), in that order.
	IndexTenantProduct IndexName = "tenant_product"
)

// Index is a named secondary index together with a composite key value.
type Index struct {
	Name  IndexName
	Value string
}

// TeamUserIndex builds the team+user index entry. Part order is fixed:
// team first, then user.
func TeamUserIndex(teamID, userID string) Index {
	return Index{Name: IndexTeamUser, Value: KeyFromParts(teamID, userID)}
}

// ConversationIndex builds the conversation index entry for chat messages.
func ConversationIndex(conversationID string) Index {
	return Index{Name: IndexConversation, Value: KeyFromParts(conversationID)}
}

// TenantProductIndex builds the tenant+product index entry. Part order is
// fixed: tenant first, then product.
func TenantProductIndex(tenant, product string) Index {
	return Index{Name: IndexTenantProduct, Value: KeyFromParts(tenant, product)}
}

// Store is the generic record store: primary-key lookup, full scan,
// secondary-index lookup, upsert and delete over named collections.
//
// Get returns ErrNotFound for an absent id; absence is a normal outcome,
// callers check it with errors.Is. GetAll and GetByIndex return unordered
// results; callers must not rely on any ordering. Put replaces the value and
// all index memberships of the record as one atomic unit: a concurrent reader
// observes either the previous or the new state, never a mix. Delete is
// idempotent and removes every index entry referencing the record.
//
// Backend failures (unreachable medium) are returned wrapped but
// uninterpreted; the store never retries internally.
type Store interface {
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	GetAll(ctx context.Context, collection string) ([]Record, error)
	GetByIndex(ctx context.Context, collection string, idx Index) ([]Record, error)
	Put(ctx context.Context, collection, id string, value json.RawMessage, indexes ...Index) error
	Delete(ctx context.Context, collection, id string) error

	// Close releases any resources held by the store
	Close() error
}

// Collection is a view of a Store pinned to one collection name. Controllers
// receive Collections so they cannot reach across each other's data.
type Collection struct {
	store Store
	name  string
}

// NewCollection pins a store to a collection name.
func NewCollection(s Store, name string) *Collection {
	return &Collection{store: s, name: name}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Get retrieves a record value by primary id.
func (c *Collection) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return c.store.Get(ctx, c.name, id)
}

// GetAll retrieves every record in the collection.
func (c *Collection) GetAll(ctx context.Context) ([]Record, error) {
	return c.store.GetAll(ctx, c.name)
}

// GetByIndex retrieves every record indexed under idx.
func (c *Collection) GetByIndex(ctx context.Context, idx Index) ([]Record, error) {
	return c.store.GetByIndex(ctx, c.name, idx)
}

// Put upserts a record value and its index memberships.
func (c *Collection) Put(ctx context.Context, id string, value json.RawMessage, indexes ...Index) error {
	return c.store.Put(ctx, c.name, id, value, indexes...)
}

// Delete removes a record and its index entries. Deleting an absent id is a no-op.
func (c *Collection) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}
