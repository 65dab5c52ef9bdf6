package provider

import (
	"fmt"
	"testing"
	"time"

	"github.com/spotyda/spotyda/internal/track"
)

func TestQueryCache_HitAndMiss(t *testing.T) {
	c := newQueryCache(4, time.Minute)

	if _, ok := c.get("q"); ok {
		t.Error("empty cache should miss")
	}

	c.put("q", []track.Track{{ID: "1"}})

	got, ok := c.get("q")
	if !ok || len(got) != 1 || got[0].ID != "1" {
		t.Errorf("get = %v, %v; want cached track", got, ok)
	}
}

func TestQueryCache_TTLExpiry(t *testing.T) {
	c := newQueryCache(4, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.put("q", []track.Track{{ID: "1"}})

	now = now.Add(2 * time.Minute)
	if _, ok := c.get("q"); ok {
		t.Error("expired entry should miss")
	}
	if c.len() != 0 {
		t.Errorf("expired entry should be dropped, len = %d", c.len())
	}
}

func TestQueryCache_Bounded(t *testing.T) {
	c := newQueryCache(3, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		c.put(fmt.Sprintf("q%d", i), []track.Track{{ID: fmt.Sprint(i)}})
	}

	if c.len() != 3 {
		t.Errorf("len = %d, want bound of 3", c.len())
	}
	// Oldest entries were evicted, newest survive.
	if _, ok := c.get("q0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.get("q4"); !ok {
		t.Error("newest entry should survive")
	}
}

func TestQueryCache_GetReturnsCopy(t *testing.T) {
	c := newQueryCache(4, time.Minute)
	c.put("q", []track.Track{{ID: "1", Title: "original"}})

	got, _ := c.get("q")
	got[0].Title = "mutated"

	again, _ := c.get("q")
	if again[0].Title != "original" {
		t.Error("cache entries must not be mutable through returned slices")
	}
}
