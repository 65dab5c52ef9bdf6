package track

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{-10, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{185, "3:05"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestSame(t *testing.T) {
	a := Track{ID: "1", Title: "Song"}
	b := Track{ID: "1", Title: "Same song, different metadata"}
	c := Track{ID: "2", Title: "Song"}

	if !a.Same(b) {
		t.Error("tracks with equal IDs should be the same entity")
	}
	if a.Same(c) {
		t.Error("tracks with different IDs should be distinct")
	}
}

func TestContainsID(t *testing.T) {
	tracks := []Track{{ID: "a"}, {ID: "b"}}

	if !ContainsID(tracks, "b") {
		t.Error("ContainsID should find existing id")
	}
	if ContainsID(tracks, "c") {
		t.Error("ContainsID should not find missing id")
	}
	if ContainsID(nil, "a") {
		t.Error("ContainsID on nil slice should be false")
	}
}

func TestIndexOfID(t *testing.T) {
	tracks := []Track{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := IndexOfID(tracks, "b"); got != 1 {
		t.Errorf("IndexOfID = %d, want 1", got)
	}
	if got := IndexOfID(tracks, "x"); got != -1 {
		t.Errorf("IndexOfID missing = %d, want -1", got)
	}
}
