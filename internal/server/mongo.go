package server

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the MongoDB-backed RecordStore. Users live in the "users"
// collection, file records in "files".
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ RecordStore = (*MongoStore)(nil)

// OpenMongo connects to the MongoDB at url and validates connectivity before
// returning a store bound to dbName.
func OpenMongo(ctx context.Context, url, dbName string) (*MongoStore, error) {
	if url == "" {
		return nil, errors.New("MONGO_URL is empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) users() *mongo.Collection { return s.db.Collection("users") }
func (s *MongoStore) files() *mongo.Collection { return s.db.Collection("files") }

func (s *MongoStore) CreateUser(ctx context.Context, u *User) error {
	res, err := s.users().InsertOne(ctx, u)
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) UserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) CreateFile(ctx context.Context, f *File) error {
	res, err := s.files().InsertOne(ctx, f)
	if err != nil {
		return err
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoStore) FileByID(ctx context.Context, id primitive.ObjectID) (*File, error) {
	return s.findFile(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FileOwnedBy(ctx context.Context, id, owner primitive.ObjectID) (*File, error) {
	return s.findFile(ctx, bson.M{"_id": id, "userId": owner})
}

func (s *MongoStore) findFile(ctx context.Context, filter bson.M) (*File, error) {
	var f File
	err := s.files().FindOne(ctx, filter).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *MongoStore) ListFiles(ctx context.Context, owner primitive.ObjectID, parent *primitive.ObjectID, page int64) ([]File, error) {
	// A nil parent filter matches root-level records, where the parentId
	// field is absent from the document.
	filter := bson.M{"userId": owner, "parentId": nil}
	if parent != nil {
		filter["parentId"] = *parent
	}

	opts := options.Find().SetSkip(page * PageSize).SetLimit(PageSize)
	cur, err := s.files().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	files := make([]File, 0, PageSize)
	if err := cur.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *MongoStore) SetFilePublic(ctx context.Context, id, owner primitive.ObjectID, public bool) (*File, error) {
	var f File
	err := s.files().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "userId": owner},
		bson.M{"$set": bson.M{"isPublic": public}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	return s.users().CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) CountFiles(ctx context.Context) (int64, error) {
	return s.files().CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
