package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryJournal records which (recipient, kind, post) notifications a
// fan-out batch has already written. Fan-out is at-least-once: a batch
// interrupted mid-way may be re-triggered, and the journal lets the replay
// skip recipients that were already delivered instead of duplicating them.
type DeliveryJournal interface {
	// Reserve claims the delivery key. It returns true when the key was
	// fresh (caller should write the notification) and false when a prior
	// batch already delivered it.
	Reserve(ctx context.Context, recipientID uint, kind string, postID uint) (bool, error)
}

type deliveryRecord struct {
	RecipientID uint      `bson:"recipient_id"`
	Kind        string    `bson:"kind"`
	PostID      uint      `bson:"post_id"`
	CreatedAt   time.Time `bson:"created_at"`
}

// MongoDeliveryJournal implements DeliveryJournal on a MongoDB collection
// with a unique compound index over the delivery key.
type MongoDeliveryJournal struct {
	collection *mongo.Collection
}

// NewMongoDeliveryJournal creates the journal and ensures its unique index.
func NewMongoDeliveryJournal(ctx context.Context, db *mongo.Database) (*MongoDeliveryJournal, error) {
	coll := db.Collection("fanout_deliveries")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "recipient_id", Value: 1},
			{Key: "kind", Value: 1},
			{Key: "post_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoDeliveryJournal{collection: coll}, nil
}

// Reserve inserts the key; a duplicate-key error means an earlier batch got
// there first. The insert-or-conflict is a single atomic operation, so two
// concurrent batches cannot both see the key as fresh.
func (j *MongoDeliveryJournal) Reserve(ctx context.Context, recipientID uint, kind string, postID uint) (bool, error) {
	_, err := j.collection.InsertOne(ctx, deliveryRecord{
		RecipientID: recipientID,
		Kind:        kind,
		PostID:      postID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
