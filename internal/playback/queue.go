package playback

import "github.com/spotyda/spotyda/internal/track"

// Queue is the ordered set of tracks the current track was launched from.
// Entries are unique by track ID. Navigation wraps around both ends.
type Queue struct {
	tracks       []track.Track
	currentIndex int // -1 if nothing current
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{currentIndex: -1}
}

// Replace swaps the queue contents and makes current the active track.
// Duplicate ids are dropped (first occurrence wins). The current track is
// always a member afterwards: if it is missing from tracks it is inserted
// at the front, which keeps wraparound navigation well-defined.
func (q *Queue) Replace(tracks []track.Track, current track.Track) {
	deduped := make([]track.Track, 0, len(tracks))
	seen := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		if t.IsZero() || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		deduped = append(deduped, t)
	}

	if !current.IsZero() && !seen[current.ID] {
		deduped = append([]track.Track{current}, deduped...)
	}

	q.tracks = deduped
	q.currentIndex = track.IndexOfID(q.tracks, current.ID)
}

// SetCurrentID moves the current position to the track with id.
// Returns the track, or nil if id is not a member.
func (q *Queue) SetCurrentID(id string) *track.Track {
	i := track.IndexOfID(q.tracks, id)
	if i < 0 {
		return nil
	}
	q.currentIndex = i
	return &q.tracks[i]
}

// Current returns the current track, or nil if none.
func (q *Queue) Current() *track.Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.currentIndex]
}

// CurrentIndex returns the current position (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Next advances with wraparound and returns the new current track.
// A no-op returning nil when the queue is empty or nothing is current.
func (q *Queue) Next() *track.Track {
	if q.IsEmpty() || q.currentIndex < 0 {
		return nil
	}
	q.currentIndex = (q.currentIndex + 1) % len(q.tracks)
	return q.Current()
}

// Previous steps back with wraparound and returns the new current track.
// A no-op returning nil when the queue is empty or nothing is current.
func (q *Queue) Previous() *track.Track {
	if q.IsEmpty() || q.currentIndex < 0 {
		return nil
	}
	n := len(q.tracks)
	q.currentIndex = (q.currentIndex - 1 + n) % n
	return q.Current()
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}

// Tracks returns a copy of the queue contents.
func (q *Queue) Tracks() []track.Track {
	result := make([]track.Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Len returns the number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}
