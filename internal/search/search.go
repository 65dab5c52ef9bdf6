// Package search serializes concurrent provider queries so that only the
// most recently issued one may publish results. Responses from superseded
// queries are dropped regardless of arrival order.
package search

import (
	"context"
	"sync"

	"github.com/spotyda/spotyda/internal/track"
)

// Searcher is the provider-side query surface the session drives.
type Searcher interface {
	Search(ctx context.Context, query string) []track.Track
}

// Result is a search outcome tagged with the query that produced it.
// Stale reports whether a newer query superseded this one before it
// completed; stale results carry no tracks.
type Result struct {
	Query  string
	Tracks []track.Track
	Stale  bool
}

// Session issues queries against a Searcher and discards out-of-date
// responses. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	searcher Searcher
	seq      uint64
}

// NewSession creates a session over s.
func NewSession(s Searcher) *Session {
	return &Session{searcher: s}
}

// Search runs query against the provider and returns its result, marked
// stale when a later Search call was issued while this one was in flight.
// Callers render only non-stale results; the latest query always wins no
// matter how slowly earlier ones resolve.
func (s *Session) Search(ctx context.Context, query string) Result {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.mu.Unlock()

	tracks := s.searcher.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return Result{Query: query, Stale: true}
	}
	return Result{Query: query, Tracks: tracks}
}

// SearchAsync runs Search on its own goroutine and delivers the result on
// the returned channel. The channel is buffered; an abandoned receive
// never blocks the query goroutine.
func (s *Session) SearchAsync(ctx context.Context, query string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		ch <- s.Search(ctx, query)
	}()
	return ch
}
