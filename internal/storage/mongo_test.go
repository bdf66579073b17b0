package storage

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"launcher-api/internal/config"
	"launcher-api/internal/models"
)

func TestMongoDocument_EmptyCollectionIsArray(t *testing.T) {
	data, err := bson.Marshal(newMongoDocument[models.Message](MessagesCollection, nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if raw["_id"] != MessagesCollection {
		t.Errorf("expected _id %q, got %v", MessagesCollection, raw["_id"])
	}
	items, ok := raw["items"].(bson.A)
	if !ok || len(items) != 0 {
		t.Errorf("expected an empty items array, got %#v", raw["items"])
	}
}

func TestMongoBackend_FailedSaveKeepsData(t *testing.T) {
	s := openTestBackend(t, config.BackendMongo, "LAUNCHER_TEST_MONGO_URI")
	ctx := context.Background()

	in := []models.Message{
		{ID: 1, Username: "alice", Message: "first", Group: "NMS"},
		{ID: 2, Username: "bob", Message: "second", Group: "NMS"},
	}
	if err := s.Messages.ReplaceAll(ctx, in); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Messages.ReplaceAll(cancelled, in[:1]); err == nil {
		t.Fatal("expected error with a cancelled context")
	}

	out, err := s.Messages.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("a failed save must leave the collection intact, got %d messages", len(out))
	}

	mc := s.Messages.(*MongoCollection[models.Message])
	n, err := mc.c.CountDocuments(ctx, bson.D{{Key: "_id", Value: MessagesCollection}})
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expected the collection in one document, got %d", n)
	}
}
