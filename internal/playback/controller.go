// Package playback drives the single audio resource through track
// transitions, buffering and seeks, and keeps the launch queue consistent
// for wraparound navigation.
package playback

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spotyda/spotyda/internal/audio"
	"github.com/spotyda/spotyda/internal/track"
)

const (
	defaultGraceDelay = 500 * time.Millisecond
	// maxConsecutiveFailures bounds the skip-on-failure loop: a queue of
	// entirely broken tracks must not be skipped through indefinitely.
	maxConsecutiveFailures = 3
)

// Controller owns the audio element. All play/pause/seek mutations on the
// element go through it.
type Controller struct {
	mu sync.Mutex

	element audio.Element
	queue   *Queue
	logger  *log.Logger

	status     Status
	current    *track.Track
	playIntent bool

	// loadGen invalidates grace-delay timers from superseded loads
	loadGen             int
	consecutiveFailures int

	graceDelay time.Duration

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates a controller around an element and starts consuming its
// events. A nil logger discards diagnostics.
func New(element audio.Element, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{
		element:    element,
		queue:      NewQueue(),
		logger:     logger,
		status:     StatusIdle,
		graceDelay: defaultGraceDelay,
		done:       make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *Controller) loop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.element.Events():
			switch ev {
			case audio.EventReady:
				c.handleReady()
			case audio.EventFinished:
				c.handleFinished()
			case audio.EventStalled:
				c.handleStalled()
			case audio.EventResumed:
				c.handleResumed()
			}
		case err := <-c.element.Errors():
			c.handleElementError(err)
		}
	}
}

// Load makes t the current track and starts loading its stream with play
// intent set. The launch queue is replaced when non-empty; an empty queue
// keeps the previous one when t is already a member, otherwise the queue
// collapses to just t.
func (c *Controller) Load(t track.Track, queue []track.Track) {
	c.mu.Lock()
	c.loadGen++
	c.consecutiveFailures = 0

	if len(queue) > 0 {
		c.queue.Replace(queue, t)
	} else if c.queue.SetCurrentID(t.ID) == nil {
		c.queue.Replace(nil, t)
	}

	c.startTrackLocked(t)
	c.emitQueueLocked()
	c.mu.Unlock()
}

// startTrackLocked resets the element onto t's stream. Loading the element
// resets the transient position to zero before the new resource starts.
func (c *Controller) startTrackLocked(t track.Track) {
	prev := c.current
	c.current = &t
	c.playIntent = true
	c.setStatusLocked(StatusLoading)
	c.element.Load(t.AudioURL)

	e := TrackChange{Previous: prev, Current: c.current, Index: c.queue.CurrentIndex()}
	c.forEachSub(func(s *Subscription) { s.sendTrack(e) })
}

// Play resumes a paused track or re-arms play intent during loading.
// A no-op when no track is loaded.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case StatusLoading:
		c.playIntent = true
	case StatusPaused, StatusEnded:
		c.playLocked()
	case StatusIdle, StatusPlaying, StatusBuffering:
	}
}

// playLocked issues the element play call and reconciles intent with the
// outcome: a refused start (the blocked-autoplay analog) clears intent
// rather than leaving a playing-but-paused limbo.
func (c *Controller) playLocked() {
	if err := c.element.Play(); err != nil {
		c.playIntent = false
		c.setStatusLocked(StatusPaused)
		c.emitErrorLocked("play", err)
		return
	}
	c.playIntent = true
	c.consecutiveFailures = 0
	c.setStatusLocked(StatusPlaying)
}

// Pause pauses playback. A no-op when no track is loaded.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case StatusPlaying, StatusBuffering:
		c.element.Pause()
		c.playIntent = false
		c.setStatusLocked(StatusPaused)
	case StatusLoading:
		c.playIntent = false
	case StatusIdle, StatusPaused, StatusEnded:
	}
}

// Toggle flips between playing and paused.
func (c *Controller) Toggle() {
	c.mu.Lock()
	playing := c.status == StatusPlaying || c.status == StatusBuffering ||
		(c.status == StatusLoading && c.playIntent)
	c.mu.Unlock()

	if playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Next advances to the next queue track with wraparound. A no-op when the
// queue is empty or nothing is current.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked(true)
}

// Previous steps back with wraparound. A no-op when the queue is empty or
// nothing is current.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.queue.Previous()
	if t == nil {
		return
	}
	c.loadGen++
	c.startTrackLocked(*t)
}

// advanceLocked moves to the next queue track, used by both explicit Next
// and automatic end-of-media/failure advancement.
func (c *Controller) advanceLocked(explicit bool) {
	t := c.queue.Next()
	if t == nil {
		if !explicit {
			c.playIntent = false
			c.setStatusLocked(StatusEnded)
		}
		return
	}
	c.loadGen++
	c.startTrackLocked(*t)
}

// SeekFraction seeks to a fraction of the track duration. The input is
// clamped to [0,1]; unknown duration makes this a no-op.
func (c *Controller) SeekFraction(f float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.status.HasTrack() {
		return
	}
	d := c.element.Duration()
	if d <= 0 {
		return
	}

	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}

	pos := time.Duration(f * float64(d))
	c.element.SeekTo(pos)

	e := PositionChange{Position: pos}
	c.forEachSub(func(s *Subscription) { s.sendPosition(e) })
}

// Event handlers, driven by the element loop.

func (c *Controller) handleReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusLoading {
		return
	}
	if c.playIntent {
		c.playLocked()
		return
	}
	c.setStatusLocked(StatusPaused)
}

func (c *Controller) handleFinished() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusIdle || c.status == StatusLoading {
		return
	}
	// Natural end of media: never leave playback silently stopped when a
	// queue exists.
	c.advanceLocked(false)
}

func (c *Controller) handleStalled() {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A stall signal that raced with the element stopping carries no
	// information; reconcile against the element before showing Buffering.
	if c.status == StatusPlaying && c.element.State() != audio.Stopped {
		c.setStatusLocked(StatusBuffering)
	}
}

func (c *Controller) handleResumed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusBuffering {
		c.setStatusLocked(StatusPlaying)
	}
}

// handleElementError recovers from a broken stream by skipping to the next
// queue track after a short grace delay, giving up once the consecutive
// failure bound is hit.
func (c *Controller) handleElementError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.emitErrorLocked("load", err)
	c.logger.Warn("playback failure", "err", err)

	c.consecutiveFailures++
	if c.consecutiveFailures >= maxConsecutiveFailures {
		c.playIntent = false
		c.current = nil
		c.loadGen++
		c.element.Stop()
		c.queue.Clear()
		c.setStatusLocked(StatusIdle)
		c.emitQueueLocked()
		return
	}

	gen := c.loadGen
	time.AfterFunc(c.graceDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.loadGen || c.closed {
			// A user action superseded the failed load.
			return
		}
		c.advanceLocked(false)
	})
}

// State queries

// Status returns the controller status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// CurrentTrack returns a copy of the current track, or nil if none.
func (c *Controller) CurrentTrack() *track.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	t := *c.current
	return &t
}

// Position returns the element play position.
func (c *Controller) Position() time.Duration {
	return c.element.Position()
}

// Duration returns the element stream duration.
func (c *Controller) Duration() time.Duration {
	return c.element.Duration()
}

// QueueTracks returns a copy of the launch queue.
func (c *Controller) QueueTracks() []track.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Tracks()
}

// QueueIndex returns the current queue position (-1 if none).
func (c *Controller) QueueIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.CurrentIndex()
}

// QueueLen returns the number of queued tracks.
func (c *Controller) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// IsPlaying reports whether play intent is active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == StatusPlaying || c.status == StatusBuffering ||
		(c.status == StatusLoading && c.playIntent)
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close shuts down the controller and the element.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.loadGen++
	close(c.done)
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return c.element.Close()
}

// Internal helpers

func (c *Controller) setStatusLocked(next Status) {
	if c.status == next {
		return
	}
	e := StatusChange{Previous: c.status, Current: next}
	c.status = next
	c.forEachSub(func(s *Subscription) { s.sendStatus(e) })
}

func (c *Controller) emitQueueLocked() {
	e := QueueChange{Tracks: c.queue.Tracks(), Index: c.queue.CurrentIndex()}
	c.forEachSub(func(s *Subscription) { s.sendQueue(e) })
}

func (c *Controller) emitErrorLocked(op string, err error) {
	e := ErrorEvent{Op: op, Err: err}
	if c.current != nil {
		e.TrackID = c.current.ID
	}
	c.forEachSub(func(s *Subscription) { s.sendError(e) })
}

func (c *Controller) forEachSub(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}
