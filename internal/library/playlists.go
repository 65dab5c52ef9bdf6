package library

import (
	"fmt"
	"strconv"

	"github.com/spotyda/spotyda/internal/track"
)

// Playlist is a user-created ordered track collection.
type Playlist struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Tracks    []track.Track `json:"tracks"`
	CreatedAt int64         `json:"createdAt"`
}

// CreatePlaylist creates a playlist at the front of the collection and
// makes it active. An empty title gets an auto-numbered default.
func (m *Manager) CreatePlaylist(title string) Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()

	if title == "" {
		title = fmt.Sprintf("My Playlist #%d", len(m.playlists)+1)
	}

	p := Playlist{
		ID:        m.nextPlaylistIDLocked(),
		Title:     title,
		Tracks:    []track.Track{},
		CreatedAt: m.now().UnixMilli(),
	}
	m.playlists = append([]Playlist{p}, m.playlists...)
	m.activePlaylistID = p.ID
	m.persistPlaylistsLocked()
	return p
}

// nextPlaylistIDLocked derives an id from the creation timestamp,
// suffixed when two playlists land on the same millisecond.
func (m *Manager) nextPlaylistIDLocked() string {
	base := strconv.FormatInt(m.now().UnixMilli(), 10)
	id := base
	for n := 1; m.playlistIndexLocked(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// RenamePlaylist sets a playlist title. A no-op on a missing id or an
// empty title.
func (m *Manager) RenamePlaylist(id, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.playlistIndexLocked(id)
	if i < 0 || title == "" {
		return
	}
	m.playlists[i].Title = title
	m.persistPlaylistsLocked()
}

// DeletePlaylist removes a playlist. Deleting the active playlist clears
// the active pointer. A no-op on a missing id.
func (m *Manager) DeletePlaylist(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.playlistIndexLocked(id)
	if i < 0 {
		return
	}
	m.playlists = append(m.playlists[:i], m.playlists[i+1:]...)
	if m.activePlaylistID == id {
		m.activePlaylistID = ""
		m.store.Set(keyActivePlaylist, m.activePlaylistID)
	}
	m.persistPlaylistsLocked()
}

// AddToPlaylist appends t to a playlist. A no-op on a missing id or when
// the playlist already contains a track with the same id.
func (m *Manager) AddToPlaylist(id string, t track.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.playlistIndexLocked(id)
	if i < 0 || track.ContainsID(m.playlists[i].Tracks, t.ID) {
		return
	}
	m.playlists[i].Tracks = append(m.playlists[i].Tracks, t)
	m.persistPlaylistsLocked()
}

// RemoveFromPlaylist removes a track from a playlist. A no-op on a
// missing playlist or track id.
func (m *Manager) RemoveFromPlaylist(id, trackID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.playlistIndexLocked(id)
	if i < 0 {
		return
	}
	j := track.IndexOfID(m.playlists[i].Tracks, trackID)
	if j < 0 {
		return
	}
	m.playlists[i].Tracks = append(m.playlists[i].Tracks[:j], m.playlists[i].Tracks[j+1:]...)
	m.persistPlaylistsLocked()
}

// ReorderPlaylist moves the track at from to position to within a
// playlist. Out-of-bounds indexes or a missing id are a no-op.
func (m *Manager) ReorderPlaylist(id string, from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.playlistIndexLocked(id)
	if i < 0 {
		return
	}
	tracks := m.playlists[i].Tracks
	if from < 0 || from >= len(tracks) || to < 0 || to >= len(tracks) || from == to {
		return
	}
	t := tracks[from]
	rest := append(tracks[:from:from], tracks[from+1:]...)
	m.playlists[i].Tracks = append(rest[:to:to], append([]track.Track{t}, rest[to:]...)...)
	m.persistPlaylistsLocked()
}

// Playlists returns a copy of all playlists, newest first.
func (m *Manager) Playlists() []Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Playlist, len(m.playlists))
	for i, p := range m.playlists {
		p.Tracks = copyTracks(p.Tracks)
		result[i] = p
	}
	return result
}

// Playlist returns a copy of the playlist with the given id.
func (m *Manager) Playlist(id string) (Playlist, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.playlistIndexLocked(id)
	if i < 0 {
		return Playlist{}, false
	}
	p := m.playlists[i]
	p.Tracks = copyTracks(p.Tracks)
	return p, true
}

// SetActivePlaylist marks a playlist as the one open in the UI. A no-op
// on a missing id.
func (m *Manager) SetActivePlaylist(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playlistIndexLocked(id) < 0 {
		return
	}
	m.activePlaylistID = id
	m.store.Set(keyActivePlaylist, m.activePlaylistID)
}

// ActivePlaylist returns the playlist last opened, if it still exists.
func (m *Manager) ActivePlaylist() (Playlist, bool) {
	m.mu.Lock()
	id := m.activePlaylistID
	m.mu.Unlock()
	if id == "" {
		return Playlist{}, false
	}
	return m.Playlist(id)
}

func (m *Manager) playlistIndexLocked(id string) int {
	for i, p := range m.playlists {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persistPlaylistsLocked() {
	m.store.Set(keyPlaylists, m.playlists)
}
