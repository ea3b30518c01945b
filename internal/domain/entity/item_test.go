package entity_test

import (
	"encoding/json"
	"testing"

	"wiki-triggers/internal/domain/entity"
)

func TestItemMarshalFlattensFields(t *testing.T) {
	item := entity.Item{
		CreatedAt: "2015-01-02T00:00:00Z",
		Meta:      entity.Meta{ID: "abc", Timestamp: 1420156800},
		Fields: map[string]any{
			"url":   "https://en.wikipedia.org/wiki/Coffee",
			"title": "Coffee",
			"size":  42,
		},
	}

	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got["created_at"] != "2015-01-02T00:00:00Z" {
		t.Errorf("created_at = %v", got["created_at"])
	}
	if got["title"] != "Coffee" {
		t.Errorf("title not flattened: %v", got["title"])
	}
	meta, ok := got["meta"].(map[string]any)
	if !ok {
		t.Fatalf("meta missing: %v", got["meta"])
	}
	if meta["id"] != "abc" {
		t.Errorf("meta.id = %v", meta["id"])
	}
	if meta["timestamp"] != float64(1420156800) {
		t.Errorf("meta.timestamp = %v", meta["timestamp"])
	}
}

func TestItemMarshalReservedKeysWin(t *testing.T) {
	item := entity.Item{
		CreatedAt: "2015-01-01T00:00:00Z",
		Meta:      entity.Meta{ID: "x", Timestamp: 1},
		Fields:    map[string]any{"created_at": "bogus"},
	}

	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["created_at"] != "2015-01-01T00:00:00Z" {
		t.Errorf("created_at overridden by field: %v", got["created_at"])
	}
}
