package playback

// Status represents the controller state over the audio resource.
type Status int

const (
	// StatusIdle means no track is loaded.
	StatusIdle Status = iota
	// StatusLoading means a track is selected but its stream is not ready.
	StatusLoading
	// StatusPaused means a loaded track is ready and not playing.
	StatusPaused
	// StatusPlaying means audio is rendering.
	StatusPlaying
	// StatusBuffering means playback is stalled waiting on data.
	StatusBuffering
	// StatusEnded means the current track reached natural end of media
	// and no queue was available to advance into.
	StatusEnded
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPaused:
		return "Paused"
	case StatusPlaying:
		return "Playing"
	case StatusBuffering:
		return "Buffering"
	case StatusEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// HasTrack returns true if a track occupies the audio resource.
func (s Status) HasTrack() bool {
	return s != StatusIdle
}
