// Package admin exposes the HTTP admin API.
//
// # Routes
//
//	GET    /api/admin/directory-sync
//	POST   /api/admin/directory-sync
//	GET    /api/admin/directory-sync/{directoryId}
//	PATCH  /api/admin/directory-sync/{directoryId}
//	DELETE /api/admin/directory-sync/{directoryId}
//	GET    /api/admin/connections/{clientId}
//	GET    /api/admin/chat/conversations
//	POST   /api/admin/chat/conversations
//	GET    /api/admin/chat/conversations/{conversationId}/messages
//	POST   /api/admin/chat/messages
//
// # Status Mapping
//
// Directory-sync handlers pass through the controller's envelope: the
// Error.Code becomes the HTTP status. Connection and chat handlers translate
// raised errors instead: license failures keep their status, missing records
// become 404, and anything else is a 500.
//
// All responses are JSON with either a "data" or an "error" member.
package admin
