package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// registerReq is the JSON payload for creating an account.
type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerResp echoes only the id and email; the password digest never leaves
// the server.
type registerResp struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// hashPassword generates a bcrypt digest of the password.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword compares a password with its stored digest.
func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// postUsersHandler handles POST /users. Email presence is checked before
// password; a duplicate email answers 400 "Already exist".
func (cfg Config) postUsersHandler(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingEmail)
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, msgMissingEmail)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, msgMissingPassword)
		return
	}

	// Uniqueness check before insert. The store has no unique index, so a
	// concurrent duplicate registration is possible and unguarded.
	_, err := cfg.Records.UserByEmail(r.Context(), req.Email)
	if err == nil {
		writeError(w, http.StatusBadRequest, msgAlreadyExist)
		return
	}
	if !errors.Is(err, ErrNotFound) {
		serverError(w, r, "user_lookup", err)
		return
	}

	digest, err := hashPassword(req.Password)
	if err != nil {
		serverError(w, r, "hash_password", err)
		return
	}

	u := &User{
		Email:     req.Email,
		Password:  digest,
		CreatedAt: time.Now().UTC(),
	}
	if err := cfg.Records.CreateUser(r.Context(), u); err != nil {
		serverError(w, r, "user_insert", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResp{ID: u.ID.Hex(), Email: u.Email})
}

// getMeHandler handles GET /users/me for the session's user.
func (cfg Config) getMeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := cfg.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, registerResp{ID: user.ID.Hex(), Email: user.Email})
}
