package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labelforge/labelforge/pkg/errors"
)

// batchesCollection is the MongoDB collection holding batch records.
const batchesCollection = "batches"

// MongoStore is a MongoDB-backed batch store.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a batch store on the given database and ensures
// the owner/created index used by ListByOwner.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(batchesCollection)

	index := mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("create batch index: %w", err)
	}

	return &MongoStore{coll: coll}, nil
}

// Insert records a batch.
func (s *MongoStore) Insert(ctx context.Context, batch *Batch) error {
	if _, err := s.coll.InsertOne(ctx, batch); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "insert batch")
	}
	return nil
}

// Get retrieves a batch by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Batch, error) {
	var batch Batch
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find batch")
	}
	return &batch, nil
}

// ListByOwner returns an owner's batches, newest first.
func (s *MongoStore) ListByOwner(ctx context.Context, owner string) ([]*Batch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list batches")
	}
	defer cur.Close(ctx)

	var out []*Batch
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode batches")
	}
	return out, nil
}

// Delete removes a batch record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete batch")
	}
	return nil
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
