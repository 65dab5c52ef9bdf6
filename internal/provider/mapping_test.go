package provider

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMapTrack_Defaults(t *testing.T) {
	got := mapTrack("https://node.example", rawTrack{ID: "x1"}, "Trending")

	if got.ID != "x1" {
		t.Errorf("ID = %q, want x1", got.ID)
	}
	if got.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", got.Title)
	}
	if got.Artist != "Unknown Artist" {
		t.Errorf("Artist = %q, want Unknown Artist", got.Artist)
	}
	if got.Album != "Trending" {
		t.Errorf("Album = %q, want fallback Trending", got.Album)
	}
	if !strings.Contains(got.CoverURL, "dicebear.com") {
		t.Errorf("CoverURL = %q, want initials fallback", got.CoverURL)
	}
	if got.Duration != "0:00" {
		t.Errorf("Duration = %q, want 0:00", got.Duration)
	}
	if !strings.HasPrefix(got.AudioURL, "https://node.example/v1/tracks/x1/stream") {
		t.Errorf("AudioURL = %q, want stream URL on the node", got.AudioURL)
	}
}

func TestMapTrack_FullRecord(t *testing.T) {
	r := rawTrack{
		ID:       "abc",
		Title:    "Night Drive",
		Genre:    "Synthwave",
		Duration: 185,
		Artwork: map[string]string{
			"150x150": "http://img.example/small.jpg",
			"480x480": "http://img.example/big.jpg",
		},
	}
	r.User.Name = "Neon Artist"

	got := mapTrack("https://node.example", r, "Audius Track")

	if got.Artist != "Neon Artist" {
		t.Errorf("Artist = %q", got.Artist)
	}
	if got.Album != "Synthwave" {
		t.Errorf("Album = %q, want genre", got.Album)
	}
	if got.CoverURL != "https://img.example/big.jpg" {
		t.Errorf("CoverURL = %q, want 480 artwork upgraded to https", got.CoverURL)
	}
	if got.Duration != "3:05" {
		t.Errorf("Duration = %q, want 3:05", got.Duration)
	}
}

func TestMapTrack_SmallArtworkFallback(t *testing.T) {
	r := rawTrack{ID: "a", Artwork: map[string]string{"150x150": "https://img.example/s.jpg"}}

	if got := mapTrack("https://n", r, "x").CoverURL; got != "https://img.example/s.jpg" {
		t.Errorf("CoverURL = %q, want 150 artwork", got)
	}
}

func TestMapTracks_DropsRecordsWithoutID(t *testing.T) {
	raw := []rawTrack{{ID: ""}, {ID: "keep"}, {ID: ""}}

	got := mapTracks("https://n", raw, "x")
	if len(got) != 1 || got[0].ID != "keep" {
		t.Errorf("mapTracks = %v, want only the identifiable record", got)
	}
}

func TestFlexString_StringAndNumber(t *testing.T) {
	var r rawTrack
	if err := json.Unmarshal([]byte(`{"id":"D7KyD"}`), &r); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}
	if r.ID != "D7KyD" {
		t.Errorf("ID = %q, want D7KyD", r.ID)
	}

	if err := json.Unmarshal([]byte(`{"id":12345}`), &r); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if r.ID != "12345" {
		t.Errorf("ID = %q, want 12345", r.ID)
	}

	if err := json.Unmarshal([]byte(`{"id":null}`), &r); err != nil {
		t.Fatalf("unmarshal null id: %v", err)
	}
	if r.ID != "" {
		t.Errorf("ID = %q, want empty for null", r.ID)
	}
}

func TestEnsureHTTPS(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://a.example/x", "https://a.example/x"},
		{"https://a.example/x", "https://a.example/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ensureHTTPS(tt.in); got != tt.want {
			t.Errorf("ensureHTTPS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
