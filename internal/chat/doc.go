// Package chat manages LLM conversations and their messages.
//
// A Conversation belongs to a tenant and user and is indexed by the pair,
// so GetConversationsByTeamAndUser resolves a user's conversations without
// scanning the collection. Chats (individual messages) are indexed by
// conversation. All operations are license-gated and audit their writes.
package chat
