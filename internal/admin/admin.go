// ABOUTME: Admin API routes for directory-sync configurations and SSO connections
// ABOUTME: Maps controller envelopes and raised errors onto HTTP statuses

package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/brandlive1941/jackson/internal/chat"
	"github.com/brandlive1941/jackson/internal/connection"
	"github.com/brandlive1941/jackson/internal/dsync"
	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

// Handler serves the admin API. The directory-sync controller reports
// outcomes as data-or-error envelopes; the chat and connection controllers
// raise. Both conventions are mapped to HTTP here, each in its own way.
type Handler struct {
	dsync       *dsync.Controller
	connections *connection.Controller
	chat        *chat.Controller
	logger      *slog.Logger
}

// New creates an admin handler.
func New(dsyncController *dsync.Controller, connectionController *connection.Controller, chatController *chat.Controller, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dsync:       dsyncController,
		connections: connectionController,
		chat:        chatController,
		logger:      logger.With("component", "admin"),
	}
}

// Register mounts the admin routes on the given mux. Method patterns let the
// mux answer unsupported methods with 405 and an Allow header.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/directory-sync", h.listDirectories)
	mux.HandleFunc("POST /api/admin/directory-sync", h.createDirectory)
	mux.HandleFunc("GET /api/admin/directory-sync/{directoryId}", h.getDirectory)
	mux.HandleFunc("PATCH /api/admin/directory-sync/{directoryId}", h.updateDirectory)
	mux.HandleFunc("DELETE /api/admin/directory-sync/{directoryId}", h.deleteDirectory)
	mux.HandleFunc("GET /api/admin/connections/{clientId}", h.getConnection)
	mux.HandleFunc("GET /api/admin/chat/conversations", h.listConversations)
	mux.HandleFunc("POST /api/admin/chat/conversations", h.createConversation)
	mux.HandleFunc("GET /api/admin/chat/conversations/{conversationId}/messages", h.listChats)
	mux.HandleFunc("POST /api/admin/chat/messages", h.createChat)
}

// directoryRequest is the JSON body for directory create and update calls.
type directoryRequest struct {
	Name          *string `json:"name"`
	Tenant        *string `json:"tenant"`
	Product       *string `json:"product"`
	Type          *string `json:"type"`
	WebhookURL    *string `json:"webhookUrl"`
	WebhookSecret *string `json:"webhookSecret"`
}

func (h *Handler) listDirectories(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, h.dsync.Directories.List(r.Context()))
}

func (h *Handler) createDirectory(w http.ResponseWriter, r *http.Request) {
	var body directoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := dsync.CreateParams{
		Name:          deref(body.Name),
		TenantID:      deref(body.Tenant),
		Product:       deref(body.Product),
		Type:          deref(body.Type),
		WebhookURL:    deref(body.WebhookURL),
		WebhookSecret: deref(body.WebhookSecret),
	}

	writeEnvelope(w, http.StatusCreated, h.dsync.Directories.Create(r.Context(), params))
}

func (h *Handler) getDirectory(w http.ResponseWriter, r *http.Request) {
	directoryID := r.PathValue("directoryId")
	writeEnvelope(w, http.StatusOK, h.dsync.Directories.Get(r.Context(), directoryID))
}

func (h *Handler) updateDirectory(w http.ResponseWriter, r *http.Request) {
	directoryID := r.PathValue("directoryId")

	var body directoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := dsync.UpdateParams{
		Name:          body.Name,
		WebhookURL:    body.WebhookURL,
		WebhookSecret: body.WebhookSecret,
	}

	writeEnvelope(w, http.StatusOK, h.dsync.Directories.Update(r.Context(), directoryID, params))
}

func (h *Handler) deleteDirectory(w http.ResponseWriter, r *http.Request) {
	directoryID := r.PathValue("directoryId")
	writeEnvelope(w, http.StatusOK, h.dsync.Directories.Delete(r.Context(), directoryID))
}

// getConnection bridges the raise-style connection controller: raised errors
// become a status here, license failures keeping their own status code.
func (h *Handler) getConnection(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("clientId")

	connections, err := h.connections.GetConnections(r.Context(), clientID)
	if err != nil {
		h.logger.Debug("get connection failed", "client_id", clientID, "error", err)
		writeRaised(w, err)
		return
	}

	if len(connections) == 0 {
		writeErrorMessage(w, http.StatusNotFound, "connection not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": connections[0]})
}

// conversationRequest is the JSON body for creating a conversation.
type conversationRequest struct {
	TenantID string `json:"tenantId"`
	UserID   string `json:"userId"`
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// chatRequest is the JSON body for creating a chat message.
type chatRequest struct {
	ConversationID string `json:"conversationId"`
	Role           string `json:"role"`
	Content        string `json:"content"`
}

// listConversations returns all conversations, or the tenant+user slice when
// both query parameters are present.
func (h *Handler) listConversations(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	userID := r.URL.Query().Get("userId")

	var conversations []chat.Conversation
	var err error
	if tenantID != "" || userID != "" {
		conversations, err = h.chat.GetConversationsByTeamAndUser(r.Context(), tenantID, userID)
	} else {
		conversations, err = h.chat.GetConversations(r.Context())
	}
	if err != nil {
		writeRaised(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": conversations})
}

func (h *Handler) createConversation(w http.ResponseWriter, r *http.Request) {
	var body conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conversation, err := h.chat.CreateConversation(r.Context(), chat.ConversationParams{
		TenantID: body.TenantID,
		UserID:   body.UserID,
		Title:    body.Title,
		Provider: body.Provider,
		Model:    body.Model,
	})
	if err != nil {
		writeRaised(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"data": conversation})
}

func (h *Handler) listChats(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("conversationId")

	chats, err := h.chat.GetChatsByConversationID(r.Context(), conversationID)
	if err != nil {
		writeRaised(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": chats})
}

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chat.CreateChat(r.Context(), chat.ChatParams{
		ConversationID: body.ConversationID,
		Role:           body.Role,
		Content:        body.Content,
	})
	if err != nil {
		writeRaised(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"data": message})
}

// writeRaised maps a raised error to a status: license failures keep their
// own status, absent records are 404, anything else is a 500.
func writeRaised(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var licErr *license.Error
	switch {
	case errors.As(err, &licErr):
		status = licErr.StatusCode
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrInvalidParams), errors.Is(err, connection.ErrInvalidParams):
		status = http.StatusBadRequest
	}
	writeErrorMessage(w, status, err.Error())
}

// writeEnvelope maps a controller envelope to HTTP: data under successStatus,
// error under its own code.
func writeEnvelope[T any](w http.ResponseWriter, successStatus int, resp dsync.Response[T]) {
	if resp.Error != nil {
		writeJSON(w, resp.Error.Code, map[string]any{"error": resp.Error})
		return
	}
	writeJSON(w, successStatus, map[string]any{"data": resp.Data})
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
