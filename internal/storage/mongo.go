package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoCollectionsName is the MongoDB collection holding one document per store collection
const mongoCollectionsName = "collections"

// mongoDocument holds a whole collection so that a save replaces it in one write
type mongoDocument[T any] struct {
	ID    string `bson:"_id"`
	Items []T    `bson:"items"`
}

func newMongoDocument[T any](name string, items []T) mongoDocument[T] {
	if items == nil {
		items = []T{}
	}
	return mongoDocument[T]{ID: name, Items: items}
}

// MongoCollection stores a collection as a single document keyed by collection name
type MongoCollection[T any] struct {
	name string
	c    *mongo.Collection
}

// NewMongoCollection creates a new MongoDB-backed collection
func NewMongoCollection[T any](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{name: name, c: db.Collection(mongoCollectionsName)}
}

// Name returns the collection name
func (c *MongoCollection[T]) Name() string {
	return c.name
}

// All reads the collection document. A missing document is an empty collection.
func (c *MongoCollection[T]) All(ctx context.Context) ([]T, error) {
	var doc mongoDocument[T]
	err := c.c.FindOne(ctx, bson.D{{Key: "_id", Value: c.name}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c.name, err)
	}

	if doc.Items == nil {
		return []T{}, nil
	}
	return doc.Items, nil
}

// ReplaceAll upserts the collection document. The write either lands whole or not at all.
func (c *MongoCollection[T]) ReplaceAll(ctx context.Context, items []T) error {
	filter := bson.D{{Key: "_id", Value: c.name}}
	opts := options.Replace().SetUpsert(true)

	if _, err := c.c.ReplaceOne(ctx, filter, newMongoDocument(c.name, items), opts); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.name, err)
	}
	return nil
}
