// ABOUTME: HTTP tests for the admin API surface
// ABOUTME: Covers routing, status mapping for both controller styles, and audit flow

package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlive1941/jackson/internal/audit"
	"github.com/brandlive1941/jackson/internal/chat"
	"github.com/brandlive1941/jackson/internal/connection"
	"github.com/brandlive1941/jackson/internal/dsync"
	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

const testLicenseKey = "valid-license"

func setupServer(t *testing.T) (*httptest.Server, *audit.Recorder) {
	t.Helper()

	s := store.NewMemStore()
	rec := audit.NewRecorder()
	checker := license.NewStaticChecker(testLicenseKey)

	dsyncController := dsync.New(dsync.Params{
		Directories: store.NewCollection(s, "dsync:config"),
		Licenses:    checker,
		LicenseKey:  testLicenseKey,
		Audit:       rec,
	})
	connectionController := connection.New(connection.Params{
		Connections: store.NewCollection(s, "saml:config"),
		Licenses:    checker,
		LicenseKey:  testLicenseKey,
		Audit:       rec,
	})
	chatController := chat.New(chat.Params{
		Conversations: store.NewCollection(s, "llm:conversation"),
		Chats:         store.NewCollection(s, "llm:chat"),
		Licenses:      checker,
		LicenseKey:    testLicenseKey,
		Audit:         rec,
	})

	mux := http.NewServeMux()
	New(dsyncController, connectionController, chatController, nil).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, rec
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func createDirectory(t *testing.T, server *httptest.Server) dsync.Directory {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/admin/directory-sync",
		`{"name":"Engineering","tenant":"acme","product":"demo","type":"okta-scim-v2"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var directory dsync.Directory
	require.NoError(t, json.Unmarshal(body["data"], &directory))
	return directory
}

func TestDirectoryLifecycle(t *testing.T) {
	server, _ := setupServer(t)

	directory := createDirectory(t, server)
	assert.NotEmpty(t, directory.ID)

	// GET returns the stored configuration
	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/admin/directory-sync/"+directory.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got dsync.Directory
	require.NoError(t, json.Unmarshal(body["data"], &got))
	assert.Equal(t, "Engineering", got.Name)

	// PATCH updates the name
	resp, body = doJSON(t, http.MethodPatch, server.URL+"/api/admin/directory-sync/"+directory.ID,
		`{"name":"Engineering EU"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body["data"], &got))
	assert.Equal(t, "Engineering EU", got.Name)

	// DELETE removes it
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/admin/directory-sync/"+directory.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/admin/directory-sync/"+directory.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var apiErr dsync.APIError
	require.NoError(t, json.Unmarshal(body["error"], &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
}

func TestDeleteMissingDirectory_404NoAudit(t *testing.T) {
	server, rec := setupServer(t)

	resp, body := doJSON(t, http.MethodDelete, server.URL+"/api/admin/directory-sync/missing-id", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var apiErr dsync.APIError
	require.NoError(t, json.Unmarshal(body["error"], &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Empty(t, rec.Events())
}

func TestMethodNotAllowed(t *testing.T) {
	server, _ := setupServer(t)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/admin/directory-sync", strings.NewReader("{}"))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Allow"))
}

func TestGetConnection(t *testing.T) {
	server, _ := setupServer(t)

	// Unknown client id
	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/admin/connections/unknown-id", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatConversationFlow(t *testing.T) {
	server, _ := setupServer(t)

	// Create a conversation
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/admin/chat/conversations",
		`{"tenantId":"t1","userId":"u1","title":"hi"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var conversation chat.Conversation
	require.NoError(t, json.Unmarshal(body["data"], &conversation))
	assert.NotEmpty(t, conversation.ID)
	assert.Equal(t, "hi", conversation.Title)

	// Filtered listing returns exactly that one
	resp, body = doJSON(t, http.MethodGet,
		server.URL+"/api/admin/chat/conversations?tenantId=t1&userId=u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conversations []chat.Conversation
	require.NoError(t, json.Unmarshal(body["data"], &conversations))
	require.Len(t, conversations, 1)
	assert.Equal(t, conversation.ID, conversations[0].ID)

	// Post a message and read the thread back
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/admin/chat/messages",
		`{"conversationId":"`+conversation.ID+`","role":"user","content":"hello"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet,
		server.URL+"/api/admin/chat/conversations/"+conversation.ID+"/messages", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []chat.Chat
	require.NoError(t, json.Unmarshal(body["data"], &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "hello", chats[0].Content)
}

func TestMissingParamsMapToBadRequest(t *testing.T) {
	server, _ := setupServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/admin/chat/messages", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "conversationId is required")

	resp, _ = doJSON(t, http.MethodGet,
		server.URL+"/api/admin/chat/conversations?tenantId=t1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvalidLicenseMapsToStatus(t *testing.T) {
	s := store.NewMemStore()
	checker := license.NewStaticChecker(testLicenseKey)

	dsyncController := dsync.New(dsync.Params{
		Directories: store.NewCollection(s, "dsync:config"),
		Licenses:    checker,
		LicenseKey:  "wrong",
	})
	connectionController := connection.New(connection.Params{
		Connections: store.NewCollection(s, "saml:config"),
		Licenses:    checker,
		LicenseKey:  "wrong",
	})
	chatController := chat.New(chat.Params{
		Conversations: store.NewCollection(s, "llm:conversation"),
		Chats:         store.NewCollection(s, "llm:chat"),
		Licenses:      checker,
		LicenseKey:    "wrong",
	})

	mux := http.NewServeMux()
	New(dsyncController, connectionController, chatController, nil).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	// Envelope controller: code travels in the error field
	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/admin/directory-sync", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var apiErr dsync.APIError
	require.NoError(t, json.Unmarshal(body["error"], &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Code)

	// Raise controller: status recovered from the typed error
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/admin/connections/any-id", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
