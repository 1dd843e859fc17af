package docstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	docref "github.com/goliatone/go-docref"
)

func seedUsers(t *testing.T, store *Memory) {
	t.Helper()
	ctx := context.Background()
	docs := map[string]map[string]any{
		"users/1": {"name": "ada", "age": 36, "active": true},
		"users/2": {"name": "grace", "age": 17, "active": true},
		"users/3": {"name": "alan", "age": 41, "active": false},
	}
	for path, fields := range docs {
		if err := store.Set(ctx, path, fields); err != nil {
			t.Fatalf("seed %s: %v", path, err)
		}
	}
	// Nested collections are not direct members and stay out of results.
	if err := store.Set(ctx, "users/1/orders/a1", map[string]any{"total": 12}); err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestQueryEmptyRuleReturnsAll(t *testing.T) {
	store := NewMemory()
	seedUsers(t, store)

	snaps, err := store.Query(context.Background(), "users", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var paths []string
	for _, snap := range snaps {
		paths = append(paths, snap.Path())
	}
	want := []string{"users/1", "users/2", "users/3"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v in path order, got %v", want, paths)
	}
}

func TestQueryFiltersByRule(t *testing.T) {
	store := NewMemory()
	seedUsers(t, store)

	snaps, err := store.Query(context.Background(), "users", "age >= 18 && active")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Path() != "users/1" {
		t.Fatalf("expected only users/1, got %v", snaps)
	}
	if snaps[0].Data()["name"] != "ada" {
		t.Fatalf("expected snapshot data, got %v", snaps[0].Data())
	}
}

func TestQueryRuleSeesLocation(t *testing.T) {
	store := NewMemory()
	seedUsers(t, store)

	snaps, err := store.Query(context.Background(), "users", `doc.id == "2"`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ID() != "2" {
		t.Fatalf("expected only users/2, got %v", snaps)
	}
}

func TestQueryEngineOverride(t *testing.T) {
	store := NewMemory()
	seedUsers(t, store)

	snaps, err := store.Query(context.Background(), "users", "age >= 18 && active",
		docref.WithEvaluator(docref.NewCELEvaluator()))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Path() != "users/1" {
		t.Fatalf("expected only users/1 under cel, got %v", snaps)
	}
}

func TestQueryErrors(t *testing.T) {
	store := NewMemory()
	seedUsers(t, store)

	if _, err := store.Query(context.Background(), "users/1", ""); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for a document path, got %v", err)
	}

	_, err := store.Query(context.Background(), "users", "age >>> 3")
	if err == nil {
		t.Fatalf("expected rule failure to surface")
	}
	if !strings.Contains(err.Error(), `query "users"`) {
		t.Fatalf("error should name the collection, got %q", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Query(ctx, "users", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestQueryEmptyCollection(t *testing.T) {
	store := NewMemory()
	snaps, err := store.Query(context.Background(), "ghosts", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 0 {
		t.Fatalf("expected no members, got %v", snaps)
	}
}
