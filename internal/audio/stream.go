package audio

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

// ErrNotReady is returned by Play before the loaded stream is playable.
var ErrNotReady = errors.New("audio: stream not ready")

var speakerInitialized bool

// StreamElement plays provider stream URLs through the speaker. Load
// fetches the stream to a temp file in the background and decodes it as
// mp3, which is what the discovery nodes serve.
type StreamElement struct {
	mu sync.Mutex

	httpClient *http.Client

	state    State
	ready    bool
	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	format   beep.Format
	tmpPath  string
	duration time.Duration

	// generation guards against a superseded load resurrecting playback
	generation int

	events chan Event
	errs   chan error
	closed bool
}

// NewStreamElement creates a stream-backed element.
func NewStreamElement() *StreamElement {
	return &StreamElement{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		state:      Stopped,
		events:     make(chan Event, 16),
		errs:       make(chan error, 16),
	}
}

// Load starts fetching url in the background. Any in-flight load is
// superseded and its eventual outcome discarded.
func (e *StreamElement) Load(url string) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.unloadLocked()
	e.mu.Unlock()

	go e.fetch(gen, url)
}

func (e *StreamElement) fetch(gen int, url string) {
	tmpPath, err := e.download(url)
	if err != nil {
		e.reportLoadError(gen, err)
		return
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		e.reportLoadError(gen, err)
		return
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		e.reportLoadError(gen, fmt.Errorf("decode stream: %w", err))
		return
	}

	e.mu.Lock()
	if gen != e.generation || e.closed {
		e.mu.Unlock()
		streamer.Close()
		os.Remove(tmpPath)
		return
	}
	e.streamer = streamer
	e.format = format
	e.tmpPath = tmpPath
	e.duration = format.SampleRate.D(streamer.Len())
	e.ready = true
	e.state = Stopped
	e.mu.Unlock()

	e.send(EventReady)
}

func (e *StreamElement) download(url string) (string, error) {
	resp, err := e.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch stream: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "spotyda-stream-*.mp3")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("fetch stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (e *StreamElement) reportLoadError(gen int, err error) {
	e.mu.Lock()
	stale := gen != e.generation || e.closed
	e.mu.Unlock()
	if stale {
		return
	}
	select {
	case e.errs <- err:
	default:
	}
}

// Play starts or resumes playback. Returns ErrNotReady before the stream
// has loaded.
func (e *StreamElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready || e.streamer == nil {
		return ErrNotReady
	}

	switch e.state {
	case Playing:
		return nil
	case Paused:
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
		e.state = Playing
		return nil
	case Stopped:
	}

	if !speakerInitialized {
		if err := speaker.Init(e.format.SampleRate, e.format.SampleRate.N(time.Second/10)); err != nil {
			return err
		}
		speakerInitialized = true
	}

	gen := e.generation
	e.ctrl = &beep.Ctrl{Streamer: e.streamer, Paused: false}
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		e.handleFinished(gen)
	})))
	e.state = Playing
	return nil
}

func (e *StreamElement) handleFinished(gen int) {
	e.mu.Lock()
	if gen != e.generation || e.closed || e.state == Stopped {
		e.mu.Unlock()
		return
	}
	e.state = Stopped
	e.mu.Unlock()

	e.send(EventFinished)
}

// Pause pauses playback; a no-op unless playing.
func (e *StreamElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Playing || e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = Paused
}

// Stop unloads the current stream.
func (e *StreamElement) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.unloadLocked()
}

func (e *StreamElement) unloadLocked() {
	if e.state != Stopped || e.streamer != nil {
		speaker.Clear()
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.tmpPath != "" {
		os.Remove(e.tmpPath)
		e.tmpPath = ""
	}
	e.ctrl = nil
	e.ready = false
	e.duration = 0
	e.state = Stopped
}

// SeekTo moves the play position, clamped to the stream bounds.
func (e *StreamElement) SeekTo(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return
	}

	sample := e.format.SampleRate.N(pos)
	if sample < 0 {
		sample = 0
	}
	if last := e.streamer.Len() - 1; sample > last {
		sample = last
	}

	speaker.Lock()
	_ = e.streamer.Seek(sample)
	speaker.Unlock()
}

// Position returns the current play position.
func (e *StreamElement) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.format.SampleRate.D(e.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the loaded stream's duration (0 until ready).
func (e *StreamElement) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// State returns the element play state.
func (e *StreamElement) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *StreamElement) Events() <-chan Event { return e.events }

func (e *StreamElement) Errors() <-chan error { return e.errs }

// Close unloads and marks the element unusable.
func (e *StreamElement) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.generation++
	e.unloadLocked()
	return nil
}

func (e *StreamElement) send(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// Verify StreamElement implements Element at compile time.
var _ Element = (*StreamElement)(nil)
