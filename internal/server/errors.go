package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// Error messages follow the API's fixed vocabulary; validation messages name
// the first offending field.
const (
	msgUnauthorized    = "Unauthorized"
	msgNotFound        = "Not found"
	msgInternal        = "Internal Server Error"
	msgMissingEmail    = "Missing email"
	msgMissingPassword = "Missing password"
	msgAlreadyExist    = "Already exist"
	msgMissingName     = "Missing name"
	msgMissingType     = "Missing type"
	msgMissingData     = "Missing data"
	msgParentNotFound  = "Parent not found"
	msgParentNotFolder = "Parent is not a folder"
	msgFolderNoContent = "A folder doesn't have content"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responds with the standard {"error": msg} envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, msgUnauthorized)
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

// serverError logs the cause with the request id and answers an opaque 500.
// Store and filesystem failures are never leaked to callers.
func serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("rid=%s op=%s err=%v", RequestIDFromContext(r.Context()), op, err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
