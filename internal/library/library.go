// Package library maintains the persisted user collections: liked songs,
// recently played, playlists and a few session leftovers. Every mutation
// writes the owning storage key through in the same call, so in-memory
// and persisted state never diverge after a completed operation.
package library

import (
	"sync"
	"time"

	"github.com/spotyda/spotyda/internal/store"
	"github.com/spotyda/spotyda/internal/track"
)

// Storage keys. Each key is owned by this manager alone and always
// rewritten as a whole value.
const (
	keyLiked           = "library"
	keyRecent          = "recent"
	keyPlaylists       = "playlists"
	keyActivePlaylist  = "active_playlist"
	keyRecommendations = "recommendations"
	keyThemeDark       = "theme_dark"
)

const defaultRecentCap = 15

// Manager holds the user collections.
type Manager struct {
	mu sync.Mutex

	store     *store.Store
	recentCap int

	liked     []track.Track
	recent    []track.Track
	playlists []Playlist

	activePlaylistID string

	now func() time.Time
}

// NewManager creates a manager bound to st and loads the persisted
// collections. Missing or unreadable keys resolve to empty collections.
func NewManager(st *store.Store, recentCap int) *Manager {
	if recentCap <= 0 {
		recentCap = defaultRecentCap
	}
	m := &Manager{
		store:     st,
		recentCap: recentCap,
		now:       time.Now,
	}
	st.Get(keyLiked, &m.liked)
	st.Get(keyRecent, &m.recent)
	st.Get(keyPlaylists, &m.playlists)
	st.Get(keyActivePlaylist, &m.activePlaylistID)
	return m
}

// ToggleLiked removes t from the liked collection when present, otherwise
// inserts it at the front. Returns the new liked status.
func (m *Manager) ToggleLiked(t track.Track) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := track.IndexOfID(m.liked, t.ID); i >= 0 {
		m.liked = append(m.liked[:i], m.liked[i+1:]...)
		m.store.Set(keyLiked, m.liked)
		return false
	}

	m.liked = append([]track.Track{t}, m.liked...)
	m.store.Set(keyLiked, m.liked)
	return true
}

// IsLiked reports whether a track id is in the liked collection.
func (m *Manager) IsLiked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return track.ContainsID(m.liked, id)
}

// Liked returns a copy of the liked collection, most recently liked first.
func (m *Manager) Liked() []track.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyTracks(m.liked)
}

// ReorderLiked moves the liked entry at from to position to, keeping the
// relative order of everything else. Out-of-bounds indexes are a no-op.
func (m *Manager) ReorderLiked(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if from < 0 || from >= len(m.liked) || to < 0 || to >= len(m.liked) || from == to {
		return
	}

	t := m.liked[from]
	rest := append(m.liked[:from:from], m.liked[from+1:]...)
	m.liked = append(rest[:to:to], append([]track.Track{t}, rest[to:]...)...)
	m.store.Set(keyLiked, m.liked)
}

// RecordPlayed moves t to the front of the recently-played collection,
// dropping any previous entry with the same id and truncating to the cap.
func (m *Manager) RecordPlayed(t track.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := track.IndexOfID(m.recent, t.ID); i >= 0 {
		m.recent = append(m.recent[:i], m.recent[i+1:]...)
	}
	m.recent = append([]track.Track{t}, m.recent...)
	if len(m.recent) > m.recentCap {
		m.recent = m.recent[:m.recentCap]
	}
	m.store.Set(keyRecent, m.recent)
}

// RecentlyPlayed returns a copy of the recently-played collection, most
// recent first.
func (m *Manager) RecentlyPlayed() []track.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyTracks(m.recent)
}

// CachedRecommendations returns the trending page persisted by the last
// session, if any.
func (m *Manager) CachedRecommendations() []track.Track {
	var recs []track.Track
	m.store.Get(keyRecommendations, &recs)
	return recs
}

// SaveRecommendations persists the latest trending page so the next
// session has something to show before the network answers. An empty
// page never overwrites a good cache.
func (m *Manager) SaveRecommendations(tracks []track.Track) {
	if len(tracks) == 0 {
		return
	}
	m.store.Set(keyRecommendations, tracks)
}

// DarkMode returns the persisted theme preference (dark by default).
func (m *Manager) DarkMode() bool {
	dark := true
	m.store.Get(keyThemeDark, &dark)
	return dark
}

// SetDarkMode persists the theme preference.
func (m *Manager) SetDarkMode(dark bool) {
	m.store.Set(keyThemeDark, dark)
}

func copyTracks(tracks []track.Track) []track.Track {
	result := make([]track.Track, len(tracks))
	copy(result, tracks)
	return result
}
