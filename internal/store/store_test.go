package store

import (
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(nil)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	type entry struct {
		ID    string   `json:"id"`
		Names []string `json:"names"`
		Count int      `json:"count"`
	}
	in := []entry{
		{ID: "a", Names: []string{"x", "y"}, Count: 2},
		{ID: "b", Names: nil, Count: 0},
	}

	s.Set("entries", in)

	var out []entry
	if !s.Get("entries", &out) {
		t.Fatal("Get should report the key as present")
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestStore_MissingKey(t *testing.T) {
	s := openTestStore(t)

	var v map[string]string
	if s.Get("nope", &v) {
		t.Error("Get on missing key should report absence")
	}
	if v != nil {
		t.Errorf("Get on missing key should not touch the target, got %v", v)
	}
}

func TestStore_MalformedValueResolvesToAbsent(t *testing.T) {
	s := openTestStore(t)

	// Corrupt a record behind the JSON layer, as a broken previous
	// session would.
	if _, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES ('bad', '{not json', 0)`,
	); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	var v struct{ X int }
	if s.Get("bad", &v) {
		t.Error("malformed value should be treated as absence")
	}
}

func TestStore_TypeMismatchLeavesTargetUntouched(t *testing.T) {
	s := openTestStore(t)

	type entry struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	// Valid JSON of the wrong shape: id is a number, title decodes fine.
	// The decoder fails partway through; nothing may leak into the target.
	if _, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at)
		 VALUES ('bad', '[{"id": 123, "title": "ghost"}]', 0)`,
	); err != nil {
		t.Fatalf("seed mistyped row: %v", err)
	}

	var v []entry
	if s.Get("bad", &v) {
		t.Error("mistyped value should be treated as absence")
	}
	if len(v) != 0 {
		t.Errorf("target mutated by failed decode: %+v", v)
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := openTestStore(t)

	s.Set("k", "first")
	s.Set("k", "second")

	var v string
	if !s.Get("k", &v) {
		t.Fatal("key should exist")
	}
	if v != "second" {
		t.Errorf("value = %q, want %q", v, "second")
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)

	s.Set("k", 42)
	s.Delete("k")

	var v int
	if s.Get("k", &v) {
		t.Error("deleted key should be absent")
	}

	// Deleting a missing key is a no-op.
	s.Delete("k")
}

func TestStore_SetAfterCloseDoesNotPanic(t *testing.T) {
	s, err := OpenMemory(nil)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	s.Close()

	// Writes after the database is gone are swallowed, not surfaced.
	s.Set("k", "v")

	var v string
	if s.Get("k", &v) {
		t.Error("Get against a closed store should report absence")
	}
}
