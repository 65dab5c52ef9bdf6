package audio

import (
	"sync"
	"time"
)

// Mock is a test double for Element. Events are driven explicitly through
// the Simulate helpers. Safe for concurrent use: the controller's event
// loop and the test body touch it from different goroutines.
type Mock struct {
	mu sync.Mutex

	state    State
	position time.Duration
	duration time.Duration
	ready    bool

	playErr error

	loadCalls []string
	seekCalls []time.Duration

	events chan Event
	errs   chan error
}

// NewMock creates a new mock element.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		events: make(chan Event, 16),
		errs:   make(chan error, 16),
	}
}

func (m *Mock) Load(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, url)
	m.state = Stopped
	m.position = 0
	m.ready = false
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Stopped
	m.position = 0
	m.ready = false
}

func (m *Mock) SeekTo(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Errors() <-chan error { return m.errs }

func (m *Mock) Close() error { return nil }

// Test helpers

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(p time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = p
}

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.loadCalls))
	copy(calls, m.loadCalls)
	return calls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]time.Duration, len(m.seekCalls))
	copy(calls, m.seekCalls)
	return calls
}

// SimulateReady marks the pending load as playable and emits EventReady.
func (m *Mock) SimulateReady() {
	m.mu.Lock()
	m.ready = true
	m.mu.Unlock()
	m.events <- EventReady
}

// SimulateFinished emits natural end of media.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	m.state = Stopped
	m.mu.Unlock()
	m.events <- EventFinished
}

// SimulateStalled emits a data stall.
func (m *Mock) SimulateStalled() { m.events <- EventStalled }

// SimulateResumed emits recovery from a stall.
func (m *Mock) SimulateResumed() { m.events <- EventResumed }

// SimulateError emits a load/playback failure.
func (m *Mock) SimulateError(err error) { m.errs <- err }

// Verify Mock implements Element at compile time.
var _ Element = (*Mock)(nil)
