// ABOUTME: Directory-sync controller exposing the directories resource
// ABOUTME: Result-pair contract: every method returns a data-or-error envelope

package dsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brandlive1941/jackson/internal/audit"
	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

// Directory is one directory-sync configuration for a tenant.
type Directory struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TenantID      string    `json:"tenantId"`
	Product       string    `json:"product"`
	Type          string    `json:"type"` // provider: okta-scim-v2, azure-scim-v2, ...
	WebhookURL    string    `json:"webhookUrl,omitempty"`
	WebhookSecret string    `json:"webhookSecret,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateParams is the caller-supplied part of a new directory configuration.
type CreateParams struct {
	Name          string
	TenantID      string
	Product       string
	Type          string
	WebhookURL    string
	WebhookSecret string
}

// UpdateParams patches a directory configuration. Nil fields are left as-is.
type UpdateParams struct {
	Name          *string
	WebhookURL    *string
	WebhookSecret *string
}

// Params wires a Controller.
type Params struct {
	Directories *store.Collection
	Licenses    license.Checker
	LicenseKey  string
	Audit       audit.Emitter
	Logger      *slog.Logger
}

// Controller groups the directory-sync resources. Only directories is modeled
// here; users and groups hang off the same store in the full product.
type Controller struct {
	Directories *Directories
}

// New creates a directory-sync controller with explicit dependencies.
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
		Directories: &Directories{
			store:      p.Directories,
			licenses:   p.Licenses,
			licenseKey: p.LicenseKey,
			audit:      emitter,
			logger:     logger.With("component", "dsync"),
		},
	}
}

// Directories is the directory-configuration resource. No method returns a Go
// error: outcomes travel in the Response envelope so HTTP callers can map
// Error.Code to a status without a mismatched try/catch.
type Directories struct {
	store      *store.Collection
	licenses   license.Checker
	licenseKey string
	audit      audit.Emitter
	logger     *slog.Logger
}

// Create validates and stores a new directory configuration.
func (d *Directories) Create(ctx context.Context, params CreateParams) Response[Directory] {
	if err := d.licenses.Check(ctx, d.licenseKey); err != nil {
		return failFrom[Directory](err)
	}

	if params.Name == "" || params.TenantID == "" || params.Product == "" {
		return fail[Directory](http.StatusBadRequest, "name, tenant and product are required")
	}

	directory := Directory{
		ID:            store.NewID(),
		Name:          params.Name,
		TenantID:      params.TenantID,
		Product:       params.Product,
		Type:          params.Type,
		WebhookURL:    params.WebhookURL,
		WebhookSecret: params.WebhookSecret,
		CreatedAt:     time.Now().UTC(),
	}

	if resp := d.put(ctx, directory); resp != nil {
		return *resp
	}

	d.audit.Emit(audit.NewEvent("dsync.connection.create", audit.Create, audit.ActorFrom(ctx)))
	d.logger.Debug("created directory", "id", directory.ID, "tenant", directory.TenantID)

	return ok(&directory)
}

// Get returns one directory configuration and audits the view.
func (d *Directories) Get(ctx context.Context, directoryID string) Response[Directory] {
	if err := d.licenses.Check(ctx, d.licenseKey); err != nil {
		return failFrom[Directory](err)
	}

	directory, err := d.fetch(ctx, directoryID)
	if err != nil {
		return failFrom[Directory](err)
	}

	d.audit.Emit(audit.NewEvent("dsync.connection.view", audit.Read, audit.ActorFrom(ctx)))

	return ok(directory)
}

// List returns every directory configuration.
func (d *Directories) List(ctx context.Context) Response[[]Directory] {
	if err := d.licenses.Check(ctx, d.licenseKey); err != nil {
		return failFrom[[]Directory](err)
	}

	records, err := d.store.GetAll(ctx)
	if err != nil {
		return failFrom[[]Directory](err)
	}

	directories, err := decodeDirectories(records)
	if err != nil {
		return failFrom[[]Directory](err)
	}
	return ok(&directories)
}

// GetByTenantAndProduct returns the directories indexed under tenant+product.
func (d *Directories) GetByTenantAndProduct(ctx context.Context, tenant, product string) Response[[]Directory] {
	if err := d.licenses.Check(ctx, d.licenseKey); err != nil {
		return failFrom[[]Directory](err)
	}
	if tenant == "" || product == "" {
		return fail[[]Directory](http.StatusBadRequest, "tenant and product are required")
	}

	records, err := d.store.GetByIndex(ctx, store.TenantProductIndex(tenant, product))
	if err != nil {
		return failFrom[[]Directory](err)
	}

	directories, err := decodeDirectories(records)
	if err != nil {
		return failFrom[[]Directory](err)
	}
	return ok(&directories)
}

// Update patches a directory configuration and re-stores it.
func (d *Directories) Update(ctx context.Context, directoryID string, params UpdateParams) Response[Directory] {
	if err := d.licenses.Check(ctx, d.licenseKey); err != nil {
		return failFrom[Directory](err)
	}

	directory, err := d.fetch(ctx, directoryID)
	if err != nil {
		return failFrom[Directory](err)
	}

	if params.Name != nil {
		directory.Name = *params.Name
	}
	if params.WebhookURL != nil {
		directory.WebhookURL = *params.WebhookURL
	}
	if params.WebhookSecret != nil {
		directory.WebhookSecret = *params.WebhookSecret
	}

	if resp := d.put(ctx, *directory); resp != nil {
		return *resp
	}

	d.audit.Emit(audit.NewEvent("dsync.connection.update", audit.Update, audit.ActorFrom(ctx)))

	return ok(directory)
}

// Delete removes a directory configuration and its index entries. Deleting an
// absent id is a 404 and emits no audit event; a confirmed delete emits
// exactly one.
func (d *Directories) Delete(ctx context.Context, directoryID string) Response[Directory] {
	if err := d.licenses.Check(ctx, d.licenseKey); err != nil {
		return failFrom[Directory](err)
	}

	directory, err := d.fetch(ctx, directoryID)
	if err != nil {
		return failFrom[Directory](err)
	}

	if err := d.store.Delete(ctx, directoryID); err != nil {
		return failFrom[Directory](err)
	}

	d.audit.Emit(audit.NewEvent("dsync.connection.delete", audit.Delete, audit.ActorFrom(ctx)))
	d.logger.Debug("deleted directory", "id", directoryID)

	return ok(directory)
}

// fetch loads and decodes one directory.
func (d *Directories) fetch(ctx context.Context, directoryID string) (*Directory, error) {
	value, err := d.store.Get(ctx, directoryID)
	if err != nil {
		return nil, err
	}

	var directory Directory
	if err := json.Unmarshal(value, &directory); err != nil {
		return nil, fmt.Errorf("decoding directory %s: %w", directoryID, err)
	}
	return &directory, nil
}

// put encodes and stores a directory with its index memberships.
// Returns a non-nil failure envelope when the store rejects the write.
func (d *Directories) put(ctx context.Context, directory Directory) *Response[Directory] {
	value, err := json.Marshal(directory)
	if err != nil {
		resp := failFrom[Directory](fmt.Errorf("encoding directory: %w", err))
		return &resp
	}

	err = d.store.Put(ctx, directory.ID, value,
		store.TenantProductIndex(directory.TenantID, directory.Product))
	if err != nil {
		resp := failFrom[Directory](err)
		return &resp
	}
	return nil
}

func decodeDirectories(records []store.Record) ([]Directory, error) {
	directories := make([]Directory, 0, len(records))
	for _, r := range records {
		var directory Directory
		if err := json.Unmarshal(r.Value, &directory); err != nil {
			return nil, fmt.Errorf("decoding directory %s: %w", r.ID, err)
		}
		directories = append(directories, directory)
	}
	return directories, nil
}
