// ABOUTME: Tests for the chat conversation and message controller
// ABOUTME: Covers CRUD, tenant+user filtering, license gating, and audit events

package chat

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

// setupController builds a chat controller over a fresh in-memory store.
func setupController(t *testing.T) (*Controller, *store.MemStore, *audit.Recorder) {
	t.Helper()

	s := store.NewMemStore()
	rec := audit.NewRecorder()

	controller := New(Params{
		Conversations: store.NewCollection(s, "llm:conversation"),
		Chats:         store.NewCollection(s, "llm:chat"),
		Licenses:      license.NewStaticChecker(testLicenseKey),
		LicenseKey:    testLicenseKey,
		Audit:         rec,
	})

	return controller, s, rec
}

func TestCreateConversation_ReturnsStoredValue(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	conversation, err := controller.CreateConversation(ctx, ConversationParams{
		TenantID: "t1",
		UserID:   "u1",
		Title:    "hi",
	})
	require.NoError(t, err)

	assert.Len(t, conversation.ID, 40, "id must be generated, 40 hex chars")
	assert.Equal(t, "t1", conversation.TenantID)
	assert.Equal(t, "u1", conversation.UserID)
	assert.Equal(t, "hi", conversation.Title)
	assert.False(t, conversation.CreatedAt.IsZero())
}

func TestGetConversationsByTeamAndUser(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	created, err := controller.CreateConversation(ctx, ConversationParams{
		TenantID: "t1", UserID: "u1", Title: "hi",
	})
	require.NoError(t, err)

	// A conversation for another user must not appear
	_, err = controller.CreateConversation(ctx, ConversationParams{
		TenantID: "t1", UserID: "u2", Title: "other",
	})
	require.NoError(t, err)

	conversations, err := controller.GetConversationsByTeamAndUser(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, created.ID, conversations[0].ID)
	assert.Equal(t, "hi", conversations[0].Title)

	// Order of key parts matters: user+team is a different index key
	swapped, err := controller.GetConversationsByTeamAndUser(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Empty(t, swapped)
}

func TestGetConversationByID_NotFound(t *testing.T) {
	controller, _, _ := setupController(t)

	_, err := controller.GetConversationByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetConversations_All(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := controller.CreateConversation(ctx, ConversationParams{
			TenantID: "t1", UserID: "u1", Title: "conv",
		})
		require.NoError(t, err)
	}

	conversations, err := controller.GetConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, conversations, 3)
}

func TestCreateChat_AndReadBack(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	conversation, err := controller.CreateConversation(ctx, ConversationParams{
		TenantID: "t1", UserID: "u1", Title: "hi",
	})
	require.NoError(t, err)

	first, err := controller.CreateChat(ctx, ChatParams{
		ConversationID: conversation.ID,
		Role:           "user",
		Content:        "hello",
	})
	require.NoError(t, err)

	second, err := controller.CreateChat(ctx, ChatParams{
		ConversationID: conversation.ID,
		Role:           "assistant",
		Content:        "hi there",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	chats, err := controller.GetChatsByConversationID(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 2)
}

func TestInvalidLicense_AbortsBeforeStore(t *testing.T) {
	s := store.NewMemStore()
	controller := New(Params{
		Conversations: store.NewCollection(s, "llm:conversation"),
		Chats:         store.NewCollection(s, "llm:chat"),
		Licenses:      license.NewStaticChecker(testLicenseKey),
		LicenseKey:    "wrong-key",
		Audit:         audit.NopEmitter{},
	})
	ctx := context.Background()

	_, err := controller.CreateChat(ctx, ChatParams{
		ConversationID: "conv-1",
		Role:           "user",
		Content:        "hello",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, license.ErrInvalidLicense)

	// Nothing was persisted
	records, err := s.GetAll(ctx, "llm:chat")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLicenseError_PropagatesUnchanged(t *testing.T) {
	controller := New(Params{
		Conversations: store.NewCollection(store.NewMemStore(), "llm:conversation"),
		Chats:         store.NewCollection(store.NewMemStore(), "llm:chat"),
		Licenses:      license.NewStaticChecker(testLicenseKey),
		LicenseKey:    "",
	})

	_, err := controller.GetConversations(context.Background())
	var licErr *license.Error
	require.ErrorAs(t, err, &licErr)
	assert.Equal(t, 403, licErr.StatusCode)
}

func TestCreateConversation_EmitsOneAuditEvent(t *testing.T) {
	controller, _, rec := setupController(t)

	_, err := controller.CreateConversation(context.Background(), ConversationParams{
		TenantID: "t1", UserID: "u1", Title: "hi",
	})
	require.NoError(t, err)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "chat.conversation.create", events[0].Action)
	assert.Equal(t, audit.Create, events[0].CRUD)
}

func TestCreateConversation_MissingTeam(t *testing.T) {
	controller, _, rec := setupController(t)

	_, err := controller.CreateConversation(context.Background(), ConversationParams{UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Empty(t, rec.Events(), "failed create must not audit")
}

func TestCreateChat_MissingConversation(t *testing.T) {
	controller, _, _ := setupController(t)

	_, err := controller.CreateChat(context.Background(), ChatParams{Content: "hi"})
	assert.ErrorIs(t, err, ErrInvalidParams)
}
