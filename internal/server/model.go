package server

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File type values accepted on upload. Images are stored exactly like plain
// files; the distinction only matters to clients.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// validType reports whether t is one of the accepted file types.
func validType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// User is a registered account. The password field holds a bcrypt digest and
// is never serialized back to clients.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// File is a metadata record for a folder, file, or image owned by a user.
// ParentID is nil for records at the root level. LocalPath is set only for
// non-folder records and points at the payload on disk; it is internal and
// excluded from listings.
type File struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `bson:"userId"`
	Name      string              `bson:"name"`
	Type      string              `bson:"type"`
	IsPublic  bool                `bson:"isPublic"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty"`
	LocalPath string              `bson:"localPath,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
}

// IsFolder reports whether the record is a folder.
func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}

// fileProjection is the client-facing view of a File. The root parent is
// rendered as "0" to keep the wire format stable for existing clients.
type fileProjection struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsPublic  bool   `json:"isPublic"`
	ParentID  string `json:"parentId"`
	LocalPath string `json:"localPath,omitempty"`
}

// projectFile builds the client view of f. The local path is included only
// when withPath is set (the upload response for non-folder records).
func projectFile(f *File, withPath bool) fileProjection {
	p := fileProjection{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: "0",
	}
	if f.ParentID != nil {
		p.ParentID = f.ParentID.Hex()
	}
	if withPath && !f.IsFolder() {
		p.LocalPath = f.LocalPath
	}
	return p
}
