// Package track defines the canonical track shape shared by the provider,
// the library and the playback controller.
package track

import "fmt"

// Track is an immutable value once fetched from a provider.
// Identity is the ID alone: two tracks with the same title from different
// providers are distinct entities.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	CoverURL string `json:"coverUrl"`
	AudioURL string `json:"audioUrl"`
	// Duration is a precomputed M:SS display string, independent of the
	// live playback clock.
	Duration string `json:"duration"`
}

// Same reports whether two tracks are the same entity.
func (t Track) Same(other Track) bool {
	return t.ID == other.ID
}

// IsZero reports whether the track carries no identity.
func (t Track) IsZero() bool {
	return t.ID == ""
}

// FormatSeconds renders a second count as an M:SS display string.
// Zero and negative counts render as "0:00".
func FormatSeconds(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// ContainsID reports whether tracks holds an entry with the given id.
func ContainsID(tracks []Track, id string) bool {
	for _, t := range tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IndexOfID returns the index of id in tracks, or -1.
func IndexOfID(tracks []Track, id string) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
