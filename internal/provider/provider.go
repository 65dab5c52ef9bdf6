// Package provider implements the music discovery client over the Audius
// discovery-node API: endpoint selection via health probes, search and
// trending, and the mapping of provider payloads into the canonical track
// shape.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spotyda/spotyda/internal/track"
)

const (
	appName   = "SPOTYDA_APP"
	userAgent = "spotyda/1.0 (https://github.com/spotyda/spotyda)"
)

// defaultNodes are the Audius discovery nodes probed when no override is
// configured.
var defaultNodes = []string{
	"https://discoveryprovider.audius.co",
	"https://audius-discovery-1.cultur3.bet",
	"https://discovery-us-01.audius.openplayer.org",
	"https://audius-metadata-5.figment.io",
	"https://discovery-au-01.audius.openplayer.org",
}

// Config holds the client settings.
type Config struct {
	Nodes          []string
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
	TrendingLimit  int
	CacheSize      int
	CacheTTL       time.Duration
}

// Client talks to one healthy discovery node, selected once per client
// lifetime. Construct it with New; there is no package-level instance.
type Client struct {
	httpClient    *http.Client
	logger        *log.Logger
	nodes         []string
	probeTimeout  time.Duration
	trendingLimit int

	nodeMu       sync.Mutex
	selectedNode string

	cache *queryCache
}

// New creates a provider client. A nil logger discards diagnostics.
func New(cfg Config, logger *log.Logger) *Client {
	nodes := cfg.Nodes
	if len(nodes) == 0 {
		nodes = defaultNodes
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	trendingLimit := cfg.TrendingLimit
	if trendingLimit <= 0 {
		trendingLimit = 20
	}
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 64
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		logger:        logger,
		nodes:         nodes,
		probeTimeout:  probeTimeout,
		trendingLimit: trendingLimit,
		cache:         newQueryCache(cacheSize, cacheTTL),
	}
}

// Search returns tracks matching the query. An empty or whitespace query
// yields an empty result without a network call. Transport and parse
// failures degrade to an empty result; the reason is logged, not raised.
func (c *Client) Search(ctx context.Context, query string) []track.Track {
	tracks, err := c.SearchTracks(ctx, query)
	if err != nil {
		c.logger.Warn("search failed", "query", query, "err", err)
		return nil
	}
	return tracks
}

// Trending returns the current trending page. Failures degrade to an empty
// result; the reason is logged, not raised.
func (c *Client) Trending(ctx context.Context) []track.Track {
	tracks, err := c.TrendingTracks(ctx)
	if err != nil {
		c.logger.Warn("trending failed", "err", err)
		return nil
	}
	return tracks
}

// SearchTracks is the error-carrying variant of Search, for callers that
// want the failure reason instead of silent degradation.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]track.Track, error) {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return []track.Track{}, nil
	}

	if tracks, ok := c.cache.get(normalized); ok {
		return tracks, nil
	}

	node := c.resolveNode(ctx)

	params := url.Values{}
	params.Set("query", query)
	params.Set("app_name", appName)
	reqURL := fmt.Sprintf("%s/v1/tracks/search?%s", node, params.Encode())

	raw, err := c.fetchTracks(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	tracks := mapTracks(node, raw, "Audius Track")
	c.cache.put(normalized, tracks)
	return tracks, nil
}

// TrendingTracks is the error-carrying variant of Trending.
func (c *Client) TrendingTracks(ctx context.Context) ([]track.Track, error) {
	node := c.resolveNode(ctx)

	params := url.Values{}
	params.Set("app_name", appName)
	reqURL := fmt.Sprintf("%s/v1/tracks/trending?%s", node, params.Encode())

	raw, err := c.fetchTracks(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if len(raw) > c.trendingLimit {
		raw = raw[:c.trendingLimit]
	}
	return mapTracks(node, raw, "Trending"), nil
}

func (c *Client) fetchTracks(ctx context.Context, reqURL string) ([]rawTrack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result struct {
		Data []rawTrack `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result.Data, nil
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
