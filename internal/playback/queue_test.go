package playback

import (
	"testing"

	"github.com/spotyda/spotyda/internal/track"
)

func tr(id string) track.Track {
	return track.Track{ID: id, Title: "track " + id}
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
}

func TestQueue_Replace(t *testing.T) {
	q := NewQueue()

	q.Replace([]track.Track{tr("a"), tr("b"), tr("c")}, tr("b"))

	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
}

func TestQueue_Replace_DropsDuplicateIDs(t *testing.T) {
	q := NewQueue()

	q.Replace([]track.Track{tr("a"), tr("b"), tr("a")}, tr("a"))

	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (duplicate dropped)", q.Len())
	}
}

func TestQueue_Replace_InsertsMissingCurrent(t *testing.T) {
	q := NewQueue()

	q.Replace([]track.Track{tr("a"), tr("b")}, tr("x"))

	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0 (current inserted at front)", q.CurrentIndex())
	}
	if cur := q.Current(); cur == nil || cur.ID != "x" {
		t.Errorf("Current() = %v, want x", cur)
	}
}

func TestQueue_NextWraparound(t *testing.T) {
	q := NewQueue()
	q.Replace([]track.Track{tr("t1"), tr("t2"), tr("t3")}, tr("t1"))

	for _, want := range []string{"t2", "t3", "t1"} {
		got := q.Next()
		if got == nil || got.ID != want {
			t.Fatalf("Next() = %v, want %s", got, want)
		}
	}
}

func TestQueue_PreviousWraparound(t *testing.T) {
	q := NewQueue()
	q.Replace([]track.Track{tr("t1"), tr("t2"), tr("t3")}, tr("t1"))

	got := q.Previous()
	if got == nil || got.ID != "t3" {
		t.Errorf("Previous() from front = %v, want t3 (wraparound)", got)
	}
}

func TestQueue_NextRoundTrip(t *testing.T) {
	// next() N times returns to the original track.
	q := NewQueue()
	q.Replace([]track.Track{tr("a"), tr("b"), tr("c"), tr("d")}, tr("c"))

	for i := 0; i < q.Len(); i++ {
		q.Next()
	}
	if cur := q.Current(); cur == nil || cur.ID != "c" {
		t.Errorf("after N next calls Current() = %v, want c", cur)
	}
}

func TestQueue_NextThenPrevious(t *testing.T) {
	q := NewQueue()
	q.Replace([]track.Track{tr("t1"), tr("t2"), tr("t3")}, tr("t1"))

	q.Next()
	got := q.Previous()
	if got == nil || got.ID != "t1" {
		t.Errorf("Previous() after Next() = %v, want t1", got)
	}
}

func TestQueue_NavigationOnEmptyIsNoop(t *testing.T) {
	q := NewQueue()

	if q.Next() != nil {
		t.Error("Next() on empty queue should be nil")
	}
	if q.Previous() != nil {
		t.Error("Previous() on empty queue should be nil")
	}
}

func TestQueue_SetCurrentID(t *testing.T) {
	q := NewQueue()
	q.Replace([]track.Track{tr("a"), tr("b")}, tr("a"))

	if got := q.SetCurrentID("b"); got == nil || got.ID != "b" {
		t.Errorf("SetCurrentID(b) = %v, want b", got)
	}
	if got := q.SetCurrentID("missing"); got != nil {
		t.Errorf("SetCurrentID(missing) = %v, want nil", got)
	}
	// Failed jump leaves position unchanged.
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
}

func TestQueue_TracksReturnsCopy(t *testing.T) {
	q := NewQueue()
	q.Replace([]track.Track{tr("a")}, tr("a"))

	tracks := q.Tracks()
	tracks[0].ID = "mutated"

	if cur := q.Current(); cur.ID != "a" {
		t.Error("queue contents must not be mutable through Tracks()")
	}
}
