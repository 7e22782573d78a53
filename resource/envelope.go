// Package resource implements the CRUD endpoint shape shared by tags, users and blogs.
// Every endpoint answers with a small JSON envelope:
//
//	{"message": "success", "data": ...}      list / get / create
//	{"message": "updated", "response": ...}  update / delete
//	{"error": "..."}                         store or boundary failure
//
// Status codes are part of the public contract and intentionally mostly 200: store
// failures and absent records are reported in the body, not through the status line.
// The only exceptions are the per-resource empty-list status and 400 for request bodies
// rejected at the boundary.
package resource

import (
	"encoding/json"
	"net/http"
)

// Envelope messages.
const (
	MsgSuccess   = "success"
	MsgNotFound  = "not found"
	MsgNoContent = "no content"
	MsgPosted    = "posted"
	MsgUpdated   = "updated"
	MsgDeleted   = "deleted"
)

// DataEnvelope wraps list, get and create results.
type DataEnvelope struct {
	Message string `json:"message" example:"success"`
	Data    any    `json:"data"`
}

// ResponseEnvelope wraps update and delete results.
type ResponseEnvelope struct {
	Message string `json:"message" example:"deleted"`
	Response any   `json:"response"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left to tell the client.
		return
	}
}
