package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spotyda/spotyda/internal/track"
)

// blockingSearcher answers each query only when released, letting tests
// control response ordering.
type blockingSearcher struct {
	mu      sync.Mutex
	waiting map[string]chan struct{}
	entered map[string]chan struct{}
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{
		waiting: make(map[string]chan struct{}),
		entered: make(map[string]chan struct{}),
	}
}

func (b *blockingSearcher) Search(ctx context.Context, query string) []track.Track {
	b.mu.Lock()
	gate, blocked := b.waiting[query]
	if in, ok := b.entered[query]; ok {
		close(in)
		delete(b.entered, query)
	}
	b.mu.Unlock()
	if blocked {
		<-gate
	}
	return []track.Track{{ID: "result-for-" + query}}
}

func (b *blockingSearcher) block(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.waiting[query] = make(chan struct{})
	b.entered[query] = make(chan struct{})
}

// waitEntered blocks until Search(query) is in flight, so the caller can
// issue the next query knowing this one already holds an earlier token.
func (b *blockingSearcher) waitEntered(t *testing.T, query string) {
	t.Helper()
	b.mu.Lock()
	in := b.entered[query]
	b.mu.Unlock()
	select {
	case <-in:
	case <-time.After(time.Second):
		t.Fatalf("query %q never reached the searcher", query)
	}
}

func (b *blockingSearcher) release(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gate, ok := b.waiting[query]; ok {
		close(gate)
		delete(b.waiting, query)
	}
}

func TestSession_Search(t *testing.T) {
	s := NewSession(newBlockingSearcher())

	res := s.Search(context.Background(), "abba")

	if res.Stale {
		t.Error("sole query must not be stale")
	}
	if len(res.Tracks) != 1 || res.Tracks[0].ID != "result-for-abba" {
		t.Errorf("Tracks = %v, want [result-for-abba]", res.Tracks)
	}
}

func TestSession_SlowEarlierQueryIsStale(t *testing.T) {
	b := newBlockingSearcher()
	s := NewSession(b)

	b.block("slow")
	slow := s.SearchAsync(context.Background(), "slow")
	b.waitEntered(t, "slow")

	// The later query resolves first.
	fast := s.Search(context.Background(), "fast")
	if fast.Stale {
		t.Fatal("latest query must win")
	}

	b.release("slow")
	res := <-slow
	if !res.Stale {
		t.Error("superseded query must come back stale even if it resolves last")
	}
	if len(res.Tracks) != 0 {
		t.Errorf("stale result carries %d tracks, want 0", len(res.Tracks))
	}
}

func TestSession_RapidSequenceOnlyLastWins(t *testing.T) {
	b := newBlockingSearcher()
	s := NewSession(b)

	for _, q := range []string{"q1", "q2", "q3"} {
		b.block(q)
	}
	c1 := s.SearchAsync(context.Background(), "q1")
	b.waitEntered(t, "q1")
	c2 := s.SearchAsync(context.Background(), "q2")
	b.waitEntered(t, "q2")
	c3 := s.SearchAsync(context.Background(), "q3")
	b.waitEntered(t, "q3")

	// Release out of issue order; arrival order must not matter.
	b.release("q2")
	b.release("q3")
	b.release("q1")

	r1, r2, r3 := <-c1, <-c2, <-c3
	if !r1.Stale || !r2.Stale {
		t.Error("superseded queries must be stale")
	}
	if r3.Stale {
		t.Error("last issued query must not be stale")
	}
	if len(r3.Tracks) != 1 || r3.Tracks[0].ID != "result-for-q3" {
		t.Errorf("winner Tracks = %v, want [result-for-q3]", r3.Tracks)
	}
}
