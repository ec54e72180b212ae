// auth.go - Token sessions resolved against the session store.
//
// /connect exchanges Basic credentials for an opaque uuid token held in the
// session store with a TTL; /disconnect revokes it. Handlers resolve the
// caller with currentUser; any resolution failure is a 401.
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tokenFromRequest extracts the session token. X-Token is the primary
// carrier; Authorization: Bearer is accepted as a fallback.
func tokenFromRequest(r *http.Request) string {
	if tok := r.Header.Get("X-Token"); tok != "" {
		return tok
	}
	auth := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

// currentUser resolves the request's token to a full user record. Absence in
// any form (no token, dead session, malformed or dangling user id) reads as
// ErrNoSession; store transport errors pass through untouched so call sites
// can answer 500 instead of telling the client its session is invalid.
func (cfg Config) currentUser(r *http.Request) (*User, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return nil, ErrNoSession
	}

	userID, err := cfg.Sessions.UserID(r.Context(), token)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNoSession
	}

	u, err := cfg.Records.UserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return u, nil
}

// requireUser resolves the caller and writes the failure response itself:
// 401 for a missing or dead session, opaque 500 for a store outage.
func (cfg Config) requireUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	user, err := cfg.currentUser(r)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			unauthorized(w)
		} else {
			serverError(w, r, "session_resolve", err)
		}
		return nil, false
	}
	return user, true
}

// connectHandler handles GET /connect. Basic credentials are checked against
// the record store; success mints a uuid token with the configured TTL.
func (cfg Config) connectHandler(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok || email == "" {
		unauthorized(w)
		return
	}

	user, err := cfg.Records.UserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Absence reads as bad credentials.
			unauthorized(w)
		} else {
			serverError(w, r, "user_lookup", err)
		}
		return
	}
	if !verifyPassword(password, user.Password) {
		unauthorized(w)
		return
	}

	token := uuid.NewString()
	if err := cfg.Sessions.Create(r.Context(), token, user.ID.Hex(), cfg.sessionTTL()); err != nil {
		serverError(w, r, "session_create", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// disconnectHandler handles GET /disconnect, revoking the presented token.
func (cfg Config) disconnectHandler(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		unauthorized(w)
		return
	}

	if err := cfg.Sessions.Delete(r.Context(), token); err != nil {
		if errors.Is(err, ErrNoSession) {
			unauthorized(w)
		} else {
			serverError(w, r, "session_delete", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
