// files.go - File Manager handlers: upload, show, index, publish, data.
package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// uploadReq is the JSON payload for POST /files. ParentID "" or "0" means the
// root level; Data carries the base64-encoded payload for non-folder types.
type uploadReq struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId,omitempty"`
	IsPublic bool   `json:"isPublic,omitempty"`
	Data     string `json:"data,omitempty"`
}

// postUploadHandler handles POST /files.
//
// Validation is ordered and first-match-wins: session, name, type, data,
// parent existence, parent kind. For non-folder types the payload is written
// to local storage before the record insert; an insert failure removes the
// written file so no orphan survives a failed request.
func (cfg Config) postUploadHandler(w http.ResponseWriter, r *http.Request) {
	if cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
	}

	user, ok := cfg.requireUser(w, r)
	if !ok {
		return
	}

	var req uploadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, msgMissingName)
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, msgMissingName)
		return
	}
	if !validType(req.Type) {
		writeError(w, http.StatusBadRequest, msgMissingType)
		return
	}
	if req.Type != TypeFolder && req.Data == "" {
		writeError(w, http.StatusBadRequest, msgMissingData)
		return
	}

	parent, ok := cfg.resolveParent(w, r, req.ParentID)
	if !ok {
		return
	}

	var content []byte
	if req.Type != TypeFolder {
		var err error
		content, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgMissingData)
			return
		}
	}

	f := &File{
		UserID:    user.ID,
		Name:      req.Name,
		Type:      req.Type,
		IsPublic:  req.IsPublic,
		ParentID:  parent,
		CreatedAt: time.Now().UTC(),
	}

	if req.Type != TypeFolder {
		path, err := cfg.Storage.Save(content)
		if err != nil {
			serverError(w, r, "payload_write", err)
			return
		}
		f.LocalPath = path
	}

	if err := cfg.Records.CreateFile(r.Context(), f); err != nil {
		if f.LocalPath != "" {
			_ = cfg.Storage.Remove(f.LocalPath)
		}
		serverError(w, r, "file_insert", err)
		return
	}

	if req.Type != TypeFolder {
		GetMetrics().RecordUpload(int64(len(content)))
	}

	writeJSON(w, http.StatusCreated, projectFile(f, true))
}

// resolveParent validates the parentId field of an upload. It returns the
// parent reference (nil for root) and false if a response was already
// written. An unparseable id is treated the same as a missing record.
func (cfg Config) resolveParent(w http.ResponseWriter, r *http.Request, raw string) (*primitive.ObjectID, bool) {
	if raw == "" || raw == "0" {
		return nil, true
	}

	pid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgParentNotFound)
		return nil, false
	}

	parent, err := cfg.Records.FileByID(r.Context(), pid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusBadRequest, msgParentNotFound)
		} else {
			serverError(w, r, "parent_lookup", err)
		}
		return nil, false
	}
	if !parent.IsFolder() {
		writeError(w, http.StatusBadRequest, msgParentNotFolder)
		return nil, false
	}

	return &pid, true
}

// getShowHandler handles GET /files/{id}. Owner-only: an ownership mismatch
// is indistinguishable from absence, and the public flag is not honored here.
func (cfg Config) getShowHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := cfg.requireUser(w, r)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		notFound(w)
		return
	}

	f, err := cfg.Records.FileOwnedBy(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, r, "file_lookup", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, projectFile(f, false))
}

// getIndexHandler handles GET /files?parentId=&page=. parentId defaults to
// the root level and page to 0; page size is fixed at PageSize. Records come
// back in the store's natural insertion order, so pagination stability under
// concurrent inserts is not guaranteed.
func (cfg Config) getIndexHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := cfg.requireUser(w, r)
	if !ok {
		return
	}

	var parent *primitive.ObjectID
	if raw := r.URL.Query().Get("parentId"); raw != "" && raw != "0" {
		pid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			// An unparseable parent matches nothing.
			writeJSON(w, http.StatusOK, []fileProjection{})
			return
		}
		parent = &pid
	}

	var page int64
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			page = n
		}
	}

	files, err := cfg.Records.ListFiles(r.Context(), user.ID, parent, page)
	if err != nil {
		serverError(w, r, "file_list", err)
		return
	}

	out := make([]fileProjection, 0, len(files))
	for i := range files {
		out = append(out, projectFile(&files[i], false))
	}
	writeJSON(w, http.StatusOK, out)
}

// setPublicHandler builds the PUT /files/{id}/publish and /unpublish
// handlers. Same ownership rule as getShowHandler; the update is idempotent.
func (cfg Config) setPublicHandler(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := cfg.requireUser(w, r)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
		if err != nil {
			notFound(w)
			return
		}

		f, err := cfg.Records.SetFilePublic(r.Context(), id, user.ID, public)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				notFound(w)
			} else {
				serverError(w, r, "file_publish", err)
			}
			return
		}

		writeJSON(w, http.StatusOK, projectFile(f, false))
	}
}

// getDataHandler handles GET /files/{id}/data. Public records are readable
// without a session; private records only by their owner, and a non-owner
// gets the same 404 as a missing record. Folders carry no content.
func (cfg Config) getDataHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		notFound(w)
		return
	}

	f, err := cfg.Records.FileByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, r, "file_lookup", err)
		}
		return
	}

	if !f.IsPublic {
		user, err := cfg.currentUser(r)
		if err != nil && !errors.Is(err, ErrNoSession) {
			serverError(w, r, "session_resolve", err)
			return
		}
		if err != nil || user.ID != f.UserID {
			notFound(w)
			return
		}
	}

	if f.IsFolder() {
		writeError(w, http.StatusBadRequest, msgFolderNoContent)
		return
	}

	data, err := cfg.Storage.Read(f.LocalPath)
	if err != nil {
		// Record exists but the payload is gone from disk.
		notFound(w)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
