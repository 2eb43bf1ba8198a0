package auth

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labelforge/labelforge/pkg/errors"
)

// usersCollection is the MongoDB collection holding accounts.
const usersCollection = "users"

// MongoStore is a MongoDB-backed account store.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates an account store on the given database and ensures
// the uniqueness indexes exist.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(usersCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &MongoStore{coll: coll}, nil
}

// Insert stores a new user.
func (s *MongoStore) Insert(ctx context.Context, user *User) error {
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeAlreadyExists, "username or email already registered")
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "insert user")
	}
	return nil
}

// FindByUsername retrieves a user by username.
func (s *MongoStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

// FindByEmail retrieves a user by email.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find user")
	}
	return &user, nil
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
