package helpers

import (
	"testing"

	"launcher-api/internal/models"
)

func TestNextID(t *testing.T) {
	if got := NextID([]models.Message{}, models.MessageID); got != 1 {
		t.Errorf("expected 1 for empty collection, got %d", got)
	}

	msgs := []models.Message{{ID: 3}, {ID: 7}, {ID: 5}}
	if got := NextID(msgs, models.MessageID); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
}

func TestAfter(t *testing.T) {
	msgs := []models.Message{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	got := After(msgs, 2, models.MessageID)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 4 {
		t.Errorf("expected ids [3 4], got %+v", got)
	}

	if got := After(msgs, 4, models.MessageID); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseSince(t *testing.T) {
	tests := map[string]int{
		"":      0,
		"0":     0,
		"12":    12,
		"12abc": 12,
		"abc":   0,
		"-3":    -3,
		" 5 ":   5,
	}

	for in, want := range tests {
		if got := ParseSince(in); got != want {
			t.Errorf("ParseSince(%q) = %d, want %d", in, got, want)
		}
	}
}
