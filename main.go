package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/spotyda/spotyda/internal/audio"
	"github.com/spotyda/spotyda/internal/config"
	"github.com/spotyda/spotyda/internal/library"
	"github.com/spotyda/spotyda/internal/playback"
	"github.com/spotyda/spotyda/internal/provider"
	"github.com/spotyda/spotyda/internal/search"
	"github.com/spotyda/spotyda/internal/store"
	"github.com/spotyda/spotyda/internal/track"
)

var (
	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("240"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type view int

const (
	viewTrending view = iota
	viewSearch
	viewLiked
	viewRecent
	viewPlaylists
)

var viewTitles = [...]string{"Trending", "Search", "Liked", "Recent", "Playlists"}

type (
	tickMsg      time.Time
	trendingMsg  []track.Track
	searchMsg    search.Result
	playbackMsg  struct{}
	playedMsg    track.Track
	playbackErr  playback.ErrorEvent
	subClosedMsg struct{}
)

type model struct {
	cfg      *config.Config
	lib      *library.Manager
	provider *provider.Client
	session  *search.Session
	ctrl     *playback.Controller
	sub      *playback.Subscription
	logger   *log.Logger

	input     textinput.Model
	view      view
	cursor    int
	tracks    []track.Track
	playlists []library.Playlist
	statusMsg string

	width  int
	height int
}

func initialModel() (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, err
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)
	if cfg.LogFile != "" {
		if f, ferr := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); ferr == nil {
			logger = log.New(f)
			logger.SetLevel(log.DebugLevel)
		}
	}

	st, err := openStore(logger)
	if err != nil {
		return model{}, err
	}

	provCfg := cfg.GetProviderConfig()
	prov := provider.New(provider.Config{
		Nodes:          provCfg.Nodes,
		ProbeTimeout:   time.Duration(provCfg.ProbeTimeoutSeconds) * time.Second,
		RequestTimeout: time.Duration(provCfg.RequestTimeoutSeconds) * time.Second,
		TrendingLimit:  provCfg.TrendingLimit,
		CacheSize:      provCfg.CacheSize,
		CacheTTL:       time.Duration(provCfg.CacheTTLMinutes) * time.Minute,
	}, logger)

	lib := library.NewManager(st, cfg.GetLibraryConfig().RecentCap)
	ctrl := playback.New(audio.NewStreamElement(), logger)

	input := textinput.New()
	input.Placeholder = "search tracks..."
	input.CharLimit = 120

	return model{
		cfg:      cfg,
		lib:      lib,
		provider: prov,
		session:  search.NewSession(prov),
		ctrl:     ctrl,
		sub:      ctrl.Subscribe(),
		logger:   logger,
		input:    input,
		tracks:   lib.CachedRecommendations(),
	}, nil
}

// openStore falls back to the in-memory store when on-disk storage is
// unavailable; the session still works, it just won't survive a restart.
func openStore(logger *log.Logger) (*store.Store, error) {
	st, err := store.Open(logger)
	if err == nil {
		return st, nil
	}
	logger.Warn("falling back to in-memory store", "err", err)
	return store.OpenMemory(logger)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchTrendingCmd(), m.waitEventCmd(), tickCmd())
}

func (m model) fetchTrendingCmd() tea.Cmd {
	prov := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return trendingMsg(prov.Trending(ctx))
	}
}

func (m model) searchCmd(query string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return searchMsg(<-session.SearchAsync(ctx, query))
	}
}

// waitEventCmd relays one controller event into the update loop and is
// re-armed after each delivery.
func (m model) waitEventCmd() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		select {
		case <-sub.Done:
			return subClosedMsg{}
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				return playedMsg(*e.Current)
			}
			return playbackMsg{}
		case <-sub.StatusChanged:
			return playbackMsg{}
		case e := <-sub.Error:
			return playbackErr(e)
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case trendingMsg:
		m.lib.SaveRecommendations(msg)
		if m.view == viewTrending {
			m.tracks = msg
			m.clampCursor()
		}

	case searchMsg:
		if !msg.Stale && m.view == viewSearch {
			m.tracks = msg.Tracks
			m.cursor = 0
			m.statusMsg = ""
			if len(msg.Tracks) == 0 && msg.Query != "" {
				m.statusMsg = fmt.Sprintf("no results for %q", msg.Query)
			}
		}

	case playedMsg:
		m.lib.RecordPlayed(track.Track(msg))
		return m, m.waitEventCmd()

	case playbackMsg:
		return m, m.waitEventCmd()

	case playbackErr:
		m.statusMsg = fmt.Sprintf("playback: %v", msg.Err)
		return m, m.waitEventCmd()

	case subClosedMsg:
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		switch msg.String() {
		case "enter":
			m.input.Blur()
			query := m.input.Value()
			m.view = viewSearch
			m.statusMsg = "searching..."
			return m, m.searchCmd(query)
		case "esc":
			m.input.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.Close()
		return m, tea.Quit

	case "/":
		m.input.Focus()
		return m, textinput.Blink

	case "tab":
		m.view = (m.view + 1) % view(len(viewTitles))
		m.reloadView()

	case "shift+tab":
		m.view = (m.view + view(len(viewTitles)) - 1) % view(len(viewTitles))
		m.reloadView()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case "enter":
		if m.view == viewPlaylists {
			if m.cursor < len(m.playlists) {
				m.lib.SetActivePlaylist(m.playlists[m.cursor].ID)
				if tracks := m.playlists[m.cursor].Tracks; len(tracks) > 0 {
					m.ctrl.Load(tracks[0], tracks)
				}
			}
			return m, nil
		}
		if m.cursor < len(m.tracks) {
			m.ctrl.Load(m.tracks[m.cursor], m.tracks)
		}

	case " ":
		m.ctrl.Toggle()

	case "n":
		m.ctrl.Next()

	case "b":
		m.ctrl.Previous()

	case "right":
		m.seekBy(5 * time.Second)

	case "left":
		m.seekBy(-5 * time.Second)

	case "l":
		if m.view != viewPlaylists && m.cursor < len(m.tracks) {
			t := m.tracks[m.cursor]
			if m.lib.ToggleLiked(t) {
				m.statusMsg = "liked " + t.Title
			} else {
				m.statusMsg = "unliked " + t.Title
			}
			if m.view == viewLiked {
				m.reloadView()
			}
		}

	case "a":
		if m.view != viewPlaylists && m.cursor < len(m.tracks) {
			t := m.tracks[m.cursor]
			active, ok := m.lib.ActivePlaylist()
			if !ok {
				active = m.lib.CreatePlaylist("")
			}
			m.lib.AddToPlaylist(active.ID, t)
			m.statusMsg = fmt.Sprintf("added %s to %s", t.Title, active.Title)
		}

	case "x":
		if m.view == viewPlaylists && m.cursor < len(m.playlists) {
			m.lib.DeletePlaylist(m.playlists[m.cursor].ID)
			m.reloadView()
		}

	case "d":
		m.lib.SetDarkMode(!m.lib.DarkMode())
	}

	return m, nil
}

func (m *model) seekBy(delta time.Duration) {
	d := m.ctrl.Duration()
	if d <= 0 {
		return
	}
	f := float64(m.ctrl.Position()+delta) / float64(d)
	m.ctrl.SeekFraction(f)
}

func (m *model) reloadView() {
	m.statusMsg = ""
	switch m.view {
	case viewTrending:
		m.tracks = m.lib.CachedRecommendations()
	case viewSearch:
		// keep last results
	case viewLiked:
		m.tracks = m.lib.Liked()
	case viewRecent:
		m.tracks = m.lib.RecentlyPlayed()
	case viewPlaylists:
		m.playlists = m.lib.Playlists()
	}
	m.clampCursor()
}

func (m *model) rowCount() int {
	if m.view == viewPlaylists {
		return len(m.playlists)
	}
	return len(m.tracks)
}

func (m *model) clampCursor() {
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = 0
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	if m.input.Focused() || m.view == viewSearch {
		b.WriteString(" " + m.input.View() + "\n")
	}
	b.WriteString("\n")

	if m.view == viewPlaylists {
		b.WriteString(m.renderPlaylists())
	} else {
		b.WriteString(m.renderTracks())
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + dimStyle.Render(" "+m.statusMsg) + "\n")
	}

	if m.ctrl.Status().HasTrack() {
		b.WriteString(m.renderPlayerBar())
	}

	return b.String()
}

func (m model) renderTabs() string {
	parts := make([]string, len(viewTitles))
	for i, title := range viewTitles {
		if view(i) == m.view {
			parts[i] = activeTabStyle.Render(title)
		} else {
			parts[i] = tabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) renderTracks() string {
	if len(m.tracks) == 0 {
		return dimStyle.Render(" nothing here yet") + "\n"
	}

	var b strings.Builder
	current := m.ctrl.CurrentTrack()
	for i, t := range m.tracks {
		line := fmt.Sprintf("%s - %s", t.Artist, t.Title)
		if t.Duration != "" {
			line += dimStyle.Render("  " + t.Duration)
		}
		if m.lib.IsLiked(t.ID) {
			line += " ♥"
		}
		if current != nil && current.ID == t.ID {
			line = "▶ " + line
		} else {
			line = "  " + line
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) renderPlaylists() string {
	if len(m.playlists) == 0 {
		return dimStyle.Render(" no playlists — press a on a track to start one") + "\n"
	}

	var b strings.Builder
	for i, p := range m.playlists {
		created := humanize.Time(time.UnixMilli(p.CreatedAt))
		line := fmt.Sprintf("  %s %s", p.Title,
			dimStyle.Render(fmt.Sprintf("(%d tracks, %s)", len(p.Tracks), created)))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) renderPlayerBar() string {
	current := m.ctrl.CurrentTrack()
	if current == nil {
		return ""
	}

	status := "▶"
	switch m.ctrl.Status() {
	case playback.StatusPaused, playback.StatusEnded:
		status = "⏸"
	case playback.StatusLoading, playback.StatusBuffering:
		status = "…"
	}

	right := fmt.Sprintf("%s / %s ",
		formatDuration(m.ctrl.Position()), formatDuration(m.ctrl.Duration()))
	left := fmt.Sprintf(" %s  %s - %s", status, current.Artist, current.Title)
	if n := m.ctrl.QueueLen(); n > 1 {
		left += dimStyle.Render(fmt.Sprintf("  [%d/%d]", m.ctrl.QueueIndex()+1, n))
	}

	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	padding := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return playerBarStyle.Width(innerWidth).Render(left + strings.Repeat(" ", padding) + right)
}

func formatDuration(d time.Duration) string {
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func main() {
	m, err := initialModel()
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
