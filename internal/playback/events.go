package playback

import (
	"time"

	"github.com/spotyda/spotyda/internal/track"
)

// StatusChange is emitted when the controller status changes.
type StatusChange struct {
	Previous Status
	Current  Status
}

// TrackChange is emitted when a different track occupies the audio
// resource: explicit loads, next/previous navigation, and automatic
// advancement at end of media or after a playback failure.
type TrackChange struct {
	Previous *track.Track
	Current  *track.Track
	Index    int
}

// QueueChange is emitted when the queue contents are replaced.
type QueueChange struct {
	Tracks []track.Track
	Index  int
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when a load or playback failure occurs. The
// controller recovers on its own (skip or reset); subscribers only get
// the reason.
type ErrorEvent struct {
	Op      string // "load", "play", "advance"
	TrackID string
	Err     error
}
