package provider

import (
	"context"
	"fmt"
	"net/http"
)

// resolveNode returns the selected discovery node, probing the candidate
// list on first use. All candidates are probed concurrently with a short
// per-probe timeout; the first healthy node in list order wins and is
// cached for the client lifetime. When every probe fails the first
// candidate is used so callers still get a well-formed endpoint, but the
// failure is not cached: the next request probes again, so a candidate
// that recovers gets picked up.
func (c *Client) resolveNode(ctx context.Context) string {
	c.nodeMu.Lock()
	defer c.nodeMu.Unlock()

	if c.selectedNode != "" {
		return c.selectedNode
	}

	results := make([]bool, len(c.nodes))
	done := make(chan int, len(c.nodes))

	for i, node := range c.nodes {
		go func(i int, node string) {
			results[i] = c.probeNode(ctx, node)
			done <- i
		}(i, node)
	}
	for range c.nodes {
		<-done
	}

	for i, healthy := range results {
		if healthy {
			c.selectedNode = c.nodes[i]
			c.logger.Debug("discovery node selected", "node", c.selectedNode)
			return c.selectedNode
		}
	}

	c.logger.Warn("all discovery node probes failed", "fallback", c.nodes[0])
	return c.nodes[0]
}

// probeNode checks a single node's health endpoint within the probe timeout.
func (c *Client) probeNode(ctx context.Context, node string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/v1/health_check", node)
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
