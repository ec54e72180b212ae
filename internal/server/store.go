package server

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the fixed window for file listings.
const PageSize = 20

var (
	// ErrNotFound is returned by record lookups that match nothing. Handlers
	// translate it to 404 without distinguishing absence from an ownership
	// mismatch.
	ErrNotFound = errors.New("record not found")

	// ErrNoSession is returned when a token has no live session behind it.
	ErrNoSession = errors.New("no session for token")
)

// SessionStore maps opaque tokens to user identifiers with a TTL. Redis in
// production; tests inject an in-memory fake.
type SessionStore interface {
	// Create stores token -> userID for the given TTL.
	Create(ctx context.Context, token, userID string, ttl time.Duration) error
	// UserID resolves a token, returning ErrNoSession when absent or expired.
	UserID(ctx context.Context, token string) (string, error)
	// Delete removes a token, returning ErrNoSession when it was not present.
	Delete(ctx context.Context, token string) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// RecordStore persists user accounts and file records. Every method operates
// on a single document; the store's own single-document atomicity is the only
// consistency guarantee relied upon.
type RecordStore interface {
	// CreateUser inserts u and assigns its ID.
	CreateUser(ctx context.Context, u *User) error
	// UserByEmail returns the user with the given email or ErrNotFound.
	UserByEmail(ctx context.Context, email string) (*User, error)
	// UserByID returns the user with the given id or ErrNotFound.
	UserByID(ctx context.Context, id primitive.ObjectID) (*User, error)

	// CreateFile inserts f and assigns its ID.
	CreateFile(ctx context.Context, f *File) error
	// FileByID returns the file with the given id or ErrNotFound, regardless
	// of owner. Used for parent lookups and public data reads.
	FileByID(ctx context.Context, id primitive.ObjectID) (*File, error)
	// FileOwnedBy returns the file only when it exists and belongs to owner;
	// ErrNotFound otherwise.
	FileOwnedBy(ctx context.Context, id, owner primitive.ObjectID) (*File, error)
	// ListFiles returns owner's files under parent (nil = root) in natural
	// insertion order, windowed by skip = page*PageSize, limit = PageSize.
	ListFiles(ctx context.Context, owner primitive.ObjectID, parent *primitive.ObjectID, page int64) ([]File, error)
	// SetFilePublic updates the visibility flag of an owned file and returns
	// the updated record, or ErrNotFound. Idempotent.
	SetFilePublic(ctx context.Context, id, owner primitive.ObjectID, public bool) (*File, error)

	// CountUsers and CountFiles back the /stats endpoint.
	CountUsers(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
