// ABOUTME: Chat/Conversation controller over the generic record store
// ABOUTME: License-gated CRUD for conversations and chat messages, errors returned unchanged

package chat

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

// Conversation groups chat messages for one team member.
type Conversation struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chat is a single message inside a conversation.
type Chat struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationParams is the caller-supplied part of a new conversation.
type ConversationParams struct {
	TenantID string
	UserID   string
	Title    string
	Provider string
	Model    string
}

// ChatParams is the caller-supplied part of a new chat message.
type ChatParams struct {
	ConversationID string
	Role           string
	Content        string
}

// Params wires a Controller. Conversations and Chats are distinct collections
// of the same store; Licenses gates every operation with LicenseKey.
type Params struct {
	Conversations *store.Collection
	Chats         *store.Collection
	Licenses      license.Checker
	LicenseKey    string
	Audit         audit.Emitter
	Logger        *slog.Logger
}

// Controller exposes conversation and chat operations. Unlike the
// directory-sync controller it raises: every error, the license gate's
// included, propagates to the caller unchanged.
type Controller struct {
	conversations *store.Collection
	chats         *store.Collection
	licenses      license.Checker
	licenseKey    string
	audit         audit.Emitter
	logger        *slog.Logger
}

// New creates a chat controller with explicit dependencies.
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
		conversations: p.Conversations,
		chats:         p.Chats,
		licenses:      p.Licenses,
		licenseKey:    p.LicenseKey,
		audit:         emitter,
		logger:        logger.With("component", "chat"),
	}
}

// GetConversations returns every stored conversation.
func (c *Controller) GetConversations(ctx context.Context) ([]Conversation, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}

	records, err := c.conversations.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return decodeConversations(records)
}

// GetConversationsByTeamAndUser returns the conversations indexed under the
// given team and user, in that key order.
func (c *Controller) GetConversationsByTeamAndUser(ctx context.Context, teamID, userID string) ([]Conversation, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if teamID == "" || userID == "" {
		return nil, fmt.Errorf("%w: tenantId and userId are required", ErrInvalidParams)
	}

	records, err := c.conversations.GetByIndex(ctx, store.TeamUserIndex(teamID, userID))
	if err != nil {
		return nil, err
	}

	return decodeConversations(records)
}

// GetConversationByID returns one conversation. Absent ids surface as
// store.ErrNotFound.
func (c *Controller) GetConversationByID(ctx context.Context, conversationID string) (*Conversation, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}

	value, err := c.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var conversation Conversation
	if err := json.Unmarshal(value, &conversation); err != nil {
		return nil, fmt.Errorf("decoding conversation %s: %w", conversationID, err)
	}
	return &conversation, nil
}

// CreateConversation stores a new conversation under a generated id and
// returns exactly what was stored.
func (c *Controller) CreateConversation(ctx context.Context, params ConversationParams) (*Conversation, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if params.TenantID == "" || params.UserID == "" {
		return nil, fmt.Errorf("%w: tenantId and userId are required", ErrInvalidParams)
	}

	conversation := Conversation{
		ID:        store.NewID(),
		TenantID:  params.TenantID,
		UserID:    params.UserID,
		Title:     params.Title,
		Provider:  params.Provider,
		Model:     params.Model,
		CreatedAt: time.Now().UTC(),
	}

	value, err := json.Marshal(conversation)
	if err != nil {
		return nil, fmt.Errorf("encoding conversation: %w", err)
	}

	err = c.conversations.Put(ctx, conversation.ID, value,
		store.TeamUserIndex(conversation.TenantID, conversation.UserID))
	if err != nil {
		return nil, err
	}

	c.audit.Emit(audit.NewEvent("chat.conversation.create", audit.Create, audit.ActorFrom(ctx)))
	c.logger.Debug("created conversation", "id", conversation.ID, "tenant", conversation.TenantID)

	return &conversation, nil
}

// CreateChat stores a new chat message under a generated id.
func (c *Controller) CreateChat(ctx context.Context, params ChatParams) (*Chat, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if params.ConversationID == "" {
		return nil, fmt.Errorf("%w: conversationId is required", ErrInvalidParams)
	}

	chat := Chat{
		ID:             store.NewID(),
		ConversationID: params.ConversationID,
		Role:           params.Role,
		Content:        params.Content,
		CreatedAt:      time.Now().UTC(),
	}

	value, err := json.Marshal(chat)
	if err != nil {
		return nil, fmt.Errorf("encoding chat: %w", err)
	}

	err = c.chats.Put(ctx, chat.ID, value, store.ConversationIndex(chat.ConversationID))
	if err != nil {
		return nil, err
	}

	c.audit.Emit(audit.NewEvent("chat.message.create", audit.Create, audit.ActorFrom(ctx)))

	return &chat, nil
}

// GetChatsByConversationID returns the messages of one conversation.
func (c *Controller) GetChatsByConversationID(ctx context.Context, conversationID string) ([]Chat, error) {
	if err := c.licenses.Check(ctx, c.licenseKey); err != nil {
		return nil, err
	}
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversationId is required", ErrInvalidParams)
	}

	records, err := c.chats.GetByIndex(ctx, store.ConversationIndex(conversationID))
	if err != nil {
		return nil, err
	}

	chats := make([]Chat, 0, len(records))
	for _, r := range records {
		var chat Chat
		if err := json.Unmarshal(r.Value, &chat); err != nil {
			return nil, fmt.Errorf("decoding chat %s: %w", r.ID, err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func decodeConversations(records []store.Record) ([]Conversation, error) {
	conversations := make([]Conversation, 0, len(records))
	for _, r := range records {
		var conversation Conversation
		if err := json.Unmarshal(r.Value, &conversation); err != nil {
			return nil, fmt.Errorf("decoding conversation %s: %w", r.ID, err)
		}
		conversations = append(conversations, conversation)
	}
	return conversations, nil
}
