package storage

import (
	"context"
	"testing"

	"launcher-api/internal/models"
)

func TestMemoryCollection_CopySemantics(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.User](UsersCollection, models.User{Username: "alice"})

	users, _ := c.All(ctx)
	users[0].IsPremium = true

	again, _ := c.All(ctx)
	if again[0].IsPremium {
		t.Error("mutating a returned slice must not change the collection")
	}

	in := []models.User{{Username: "bob"}}
	if err := c.ReplaceAll(ctx, in); err != nil {
		t.Fatal(err)
	}
	in[0].Username = "mallory"

	again, _ = c.All(ctx)
	if len(again) != 1 || again[0].Username != "bob" {
		t.Errorf("ReplaceAll must copy its input, got %#v", again)
	}
}

func TestMemoryStore_InitCreatesNothing(t *testing.T) {
	s := NewMemoryStore()
	created, err := s.Init(context.Background())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if len(created) != 0 {
		t.Errorf("memory collections have no backing storage, got %v", created)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
