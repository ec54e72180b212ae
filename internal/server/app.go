package server

import (
	"context"
	"net/http"
	"time"
)

// statusHandler handles GET /status, reporting liveness of both collaborators.
func (cfg Config) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]bool{
		"redis": cfg.Sessions.Ping(ctx) == nil,
		"db":    cfg.Records.Ping(ctx) == nil,
	})
}

// statsHandler handles GET /stats with collection counts.
func (cfg Config) statsHandler(w http.ResponseWriter, r *http.Request) {
	users, err := cfg.Records.CountUsers(r.Context())
	if err != nil {
		serverError(w, r, "count_users", err)
		return
	}
	files, err := cfg.Records.CountFiles(r.Context())
	if err != nil {
		serverError(w, r, "count_files", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
