package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memSessions is an in-memory SessionStore for tests.
type memSessions struct {
	mu      sync.Mutex
	entries map[string]memSession
	pingErr error

	userIDErr error // when set, UserID fails with it
	deleteErr error // when set, Delete fails with it
}

type memSession struct {
	userID  string
	expires time.Time
}

func newMemSessions() *memSessions {
	return &memSessions{entries: make(map[string]memSession)}
}

func (s *memSessions) Create(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memSession{userID: userID, expires: time.Now().Add(ttl)}
	return nil
}

func (s *memSessions) UserID(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userIDErr != nil {
		return "", s.userIDErr
	}
	e, ok := s.entries[token]
	if !ok || time.Now().After(e.expires) {
		return "", ErrNoSession
	}
	return e.userID, nil
}

func (s *memSessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.entries[token]; !ok {
		return ErrNoSession
	}
	delete(s.entries, token)
	return nil
}

func (s *memSessions) Ping(context.Context) error { return s.pingErr }

// memRecords is an in-memory RecordStore for tests. Files keep insertion
// order so listing behaves like the natural collection order.
type memRecords struct {
	mu      sync.Mutex
	users   []*User
	files   []*File
	pingErr error

	failCreateFile  error // when set, CreateFile fails with it
	failUserByEmail error // when set, UserByEmail fails with it
	failUserByID    error // when set, UserByID fails with it
}

func newMemRecords() *memRecords {
	return &memRecords{}
}

func (s *memRecords) CreateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = primitive.NewObjectID()
	cp := *u
	s.users = append(s.users, &cp)
	return nil
}

func (s *memRecords) UserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUserByEmail != nil {
		return nil, s.failUserByEmail
	}
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memRecords) UserByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUserByID != nil {
		return nil, s.failUserByID
	}
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memRecords) CreateFile(_ context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateFile != nil {
		return s.failCreateFile
	}
	f.ID = primitive.NewObjectID()
	cp := *f
	s.files = append(s.files, &cp)
	return nil
}

func (s *memRecords) FileByID(_ context.Context, id primitive.ObjectID) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memRecords) FileOwnedBy(_ context.Context, id, owner primitive.ObjectID) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID == id && f.UserID == owner {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memRecords) ListFiles(_ context.Context, owner primitive.ObjectID, parent *primitive.ObjectID, page int64) ([]File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []File
	for _, f := range s.files {
		if f.UserID != owner {
			continue
		}
		switch {
		case parent == nil && f.ParentID != nil:
			continue
		case parent != nil && (f.ParentID == nil || *f.ParentID != *parent):
			continue
		}
		matched = append(matched, *f)
	}

	skip := page * PageSize
	if skip >= int64(len(matched)) {
		return []File{}, nil
	}
	end := skip + PageSize
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[skip:end], nil
}

func (s *memRecords) SetFilePublic(_ context.Context, id, owner primitive.ObjectID, public bool) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID == id && f.UserID == owner {
			f.IsPublic = public
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memRecords) CountUsers(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memRecords) CountFiles(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.files)), nil
}

func (s *memRecords) Ping(context.Context) error { return s.pingErr }

// newTestConfig wires a Config around the in-memory fakes and a temp storage
// root.
func newTestConfig(t *testing.T) (Config, *memRecords, *memSessions) {
	t.Helper()
	rec := newMemRecords()
	ses := newMemSessions()
	cfg := Config{
		Addr:     ":0",
		Records:  rec,
		Sessions: ses,
		Storage:  NewLocalStorage(t.TempDir()),
	}
	return cfg, rec, ses
}

// newTestServer starts an httptest server with the full middleware chain.
func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// createUser inserts a user with a hashed password directly into the store.
func createUser(t *testing.T, rec *memRecords, email, password string) *User {
	t.Helper()
	digest, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	u := &User{Email: email, Password: digest, CreatedAt: time.Now().UTC()}
	if err := rec.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// openSession stores a fresh token for the user and returns it.
func openSession(t *testing.T, ses *memSessions, u *User) string {
	t.Helper()
	token := uuid.NewString()
	if err := ses.Create(context.Background(), token, u.ID.Hex(), time.Hour); err != nil {
		t.Fatalf("session create: %v", err)
	}
	return token
}

// doJSON issues a request with an optional token and JSON body and decodes
// the response into out when non-nil.
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body []byte, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

// decodeJSONBody decodes a response body into v.
func decodeJSONBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

// errorMessage decodes the {"error": ...} envelope.
func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}
