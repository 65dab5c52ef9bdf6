package provider

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spotyda/spotyda/internal/track"
)

// rawTrack models a provider-native track record. Every field is optional;
// mapping supplies a default for anything absent so nothing undefined leaks
// past this boundary.
type rawTrack struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	Genre    string     `json:"genre"`
	Duration int        `json:"duration"`
	User     struct {
		Name string `json:"name"`
	} `json:"user"`
	Artwork map[string]string `json:"artwork"`
}

// flexString decodes a JSON string or number into a string. Provider ids
// have shipped as both across API versions.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// mapTracks converts raw provider records into canonical tracks.
// Records without an id are dropped: an unidentifiable track cannot
// participate in any collection.
func mapTracks(node string, raw []rawTrack, albumFallback string) []track.Track {
	tracks := make([]track.Track, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" {
			continue
		}
		tracks = append(tracks, mapTrack(node, r, albumFallback))
	}
	return tracks
}

func mapTrack(node string, r rawTrack, albumFallback string) track.Track {
	id := string(r.ID)

	title := r.Title
	if title == "" {
		title = "Untitled"
	}

	artist := r.User.Name
	if artist == "" {
		artist = "Unknown Artist"
	}

	album := r.Genre
	if album == "" {
		album = albumFallback
	}

	cover := r.Artwork["480x480"]
	if cover == "" {
		cover = r.Artwork["150x150"]
	}
	if cover == "" {
		cover = initialsAvatarURL(title)
	}

	return track.Track{
		ID:       id,
		Title:    title,
		Artist:   artist,
		Album:    album,
		CoverURL: ensureHTTPS(cover),
		AudioURL: ensureHTTPS(streamURL(node, id)),
		Duration: track.FormatSeconds(r.Duration),
	}
}

func streamURL(node, id string) string {
	return fmt.Sprintf("%s/v1/tracks/%s/stream?app_name=%s", node, url.PathEscape(id), appName)
}

// initialsAvatarURL is the cover fallback for tracks without artwork.
func initialsAvatarURL(seed string) string {
	return "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(seed)
}

// ensureHTTPS upgrades insecure media and image URIs so they stay playable
// in mixed-content-restricted contexts.
func ensureHTTPS(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
