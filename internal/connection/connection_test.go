// ABOUTME: Tests for the SSO connection controller
// ABOUTME: Covers credential generation, tenant+product lookup, and delete semantics

package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlive1941/jackson/internal/audit"
	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

const testLicenseKey = "valid-license"

func setupController(t *testing.T) (*Controller, *audit.Recorder) {
	t.Helper()

	rec := audit.NewRecorder()
	controller := New(Params{
		Connections: store.NewCollection(store.NewMemStore(), "saml:config"),
		Licenses:    license.NewStaticChecker(testLicenseKey),
		LicenseKey:  testLicenseKey,
		Audit:       rec,
	})
	return controller, rec
}

func TestCreateConnection_GeneratesCredentials(t *testing.T) {
	controller, rec := setupController(t)

	connection, err := controller.CreateConnection(context.Background(), CreateParams{
		TenantID: "acme",
		Product:  "demo",
		Provider: "okta",
	})
	require.NoError(t, err)

	assert.Len(t, connection.ClientID, 40)
	assert.Len(t, connection.ClientSecret, 40)
	assert.NotEqual(t, connection.ClientID, connection.ClientSecret)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "sso.connection.create", events[0].Action)
	assert.Equal(t, audit.Create, events[0].CRUD)
}

func TestGetConnections_ByClientID(t *testing.T) {
	controller, _ := setupController(t)
	ctx := context.Background()

	created, err := controller.CreateConnection(ctx, CreateParams{
		TenantID: "acme", Product: "demo",
	})
	require.NoError(t, err)

	connections, err := controller.GetConnections(ctx, created.ClientID)
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, created.ClientID, connections[0].ClientID)
	assert.Equal(t, "acme", connections[0].TenantID)
}

func TestCreateConnection_MissingTenant(t *testing.T) {
	controller, rec := setupController(t)

	_, err := controller.CreateConnection(context.Background(), CreateParams{Product: "demo"})
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Empty(t, rec.Events(), "failed create must not audit")
}

func TestGetConnections_EmptyClientID(t *testing.T) {
	controller, _ := setupController(t)

	_, err := controller.GetConnections(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestGetConnections_UnknownClientID(t *testing.T) {
	controller, rec := setupController(t)

	connections, err := controller.GetConnections(context.Background(), "unknown")
	require.NoError(t, err, "absence is a normal outcome")
	assert.Empty(t, connections)
	assert.Empty(t, rec.Events(), "no view event for an absent connection")
}

func TestGetConnectionsByTenantAndProduct(t *testing.T) {
	controller, _ := setupController(t)
	ctx := context.Background()

	_, err := controller.CreateConnection(ctx, CreateParams{TenantID: "acme", Product: "demo"})
	require.NoError(t, err)
	_, err = controller.CreateConnection(ctx, CreateParams{TenantID: "acme", Product: "demo"})
	require.NoError(t, err)
	_, err = controller.CreateConnection(ctx, CreateParams{TenantID: "other", Product: "demo"})
	require.NoError(t, err)

	connections, err := controller.GetConnectionsByTenantAndProduct(ctx, "acme", "demo")
	require.NoError(t, err)
	assert.Len(t, connections, 2)
}

func TestDeleteConnection(t *testing.T) {
	controller, rec := setupController(t)
	ctx := context.Background()

	created, err := controller.CreateConnection(ctx, CreateParams{TenantID: "acme", Product: "demo"})
	require.NoError(t, err)
	rec.Reset()

	require.NoError(t, controller.DeleteConnection(ctx, created.ClientID))

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "sso.connection.delete", events[0].Action)
	assert.Equal(t, audit.Delete, events[0].CRUD)

	connections, err := controller.GetConnections(ctx, created.ClientID)
	require.NoError(t, err)
	assert.Empty(t, connections)

	byTenant, err := controller.GetConnectionsByTenantAndProduct(ctx, "acme", "demo")
	require.NoError(t, err)
	assert.Empty(t, byTenant, "index entries must die with the record")
}

func TestDeleteConnection_UnknownIsNoOp(t *testing.T) {
	controller, rec := setupController(t)

	err := controller.DeleteConnection(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, rec.Events(), "no-op delete must not audit")
}

func TestConnection_InvalidLicenseRaises(t *testing.T) {
	controller := New(Params{
		Connections: store.NewCollection(store.NewMemStore(), "saml:config"),
		Licenses:    license.NewStaticChecker(testLicenseKey),
		LicenseKey:  "wrong",
	})

	_, err := controller.GetConnections(context.Background(), "any")
	require.Error(t, err)
	assert.ErrorIs(t, err, license.ErrInvalidLicense)

	var licErr *license.Error
	require.ErrorAs(t, err, &licErr)
	assert.Equal(t, 403, licErr.StatusCode)
}
