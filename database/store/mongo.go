package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCollection = "client_state"

type stateDoc struct {
	ID        string    `bson:"_id"`
	ClientID  string    `bson:"client_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps client state in one document per key.
type MongoStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

// NewMongoStore returns a store on db and makes sure the expiry index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database, ttl time.Duration) (*MongoStore, error) {
	coll := db.Collection(stateCollection)
	if ttl > 0 {
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create state ttl index: %w", err)
		}
	}
	return &MongoStore{coll: coll, ttl: ttl}, nil
}

func docID(clientID, key string) string {
	return clientID + ":" + key
}

func docIDs(clientID string, keys []string) []string {
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = docID(clientID, k)
	}
	return ids
}

func (s *MongoStore) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	if clientID == "" {
		return "", false, ErrEmptyClientID
	}
	var doc stateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": docID(clientID, key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (s *MongoStore) Set(ctx context.Context, clientID, key, value string) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	doc := stateDoc{
		ID:        docID(clientID, key),
		ClientID:  clientID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, clientID string, keys ...string) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	if len(keys) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": docIDs(clientID, keys)}})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
