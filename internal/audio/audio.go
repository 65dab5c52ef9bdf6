// Package audio defines the single playback resource: an element that loads
// a stream URL and plays it. The playback controller is the only component
// that drives an element; nothing else touches play/pause/seek state.
package audio

import "time"

// State is the element-level play state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Event signals an element lifecycle change.
type Event int

const (
	// EventReady fires when a loaded stream can start playing.
	EventReady Event = iota
	// EventFinished fires at natural end of media.
	EventFinished
	// EventStalled fires when playback is waiting on data.
	EventStalled
	// EventResumed fires when stalled playback has data again.
	EventResumed
)

// Element is the contract for the audio resource.
//
// Load is asynchronous: it resolves the URL in the background and emits
// EventReady (or an error) when done. A newer Load supersedes an in-flight
// one; a superseded load must emit nothing. Events and Errors carry only
// the latest load's lifecycle.
type Element interface {
	Load(url string)
	Play() error
	Pause()
	Stop()
	SeekTo(pos time.Duration)
	Position() time.Duration
	Duration() time.Duration
	State() State
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}
