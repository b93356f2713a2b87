// Package lichess fetches a user's games from the Lichess export API, which
// streams one JSON game object per line (NDJSON).
package lichess

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chessdash/internal/core"
)

const (
	defaultBaseURL = "https://lichess.org/api"
	userAgent      = "chessdash/0.1.0 (https://github.com/chessdash)"

	// Single lines carry the full move list of a game
	maxLineSize = 4 * 1024 * 1024
)

// Client streams games from the Lichess API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// MaxGames caps the number of games requested from the API; 0 means
	// no cap
	MaxGames int
}

// New creates a Lichess client with the production API base URL
func New() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchGames streams username's games and invokes fn for each normalized
// record, in the order the API returns them (most recent first). A non-nil
// error from fn stops the stream and is returned unchanged.
func (c *Client) FetchGames(ctx context.Context, username string, fn func(core.Game) error) error {
	endpoint := fmt.Sprintf("%s/games/user/%s", c.BaseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("lichess: build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("opening", "true")
	if c.MaxGames > 0 {
		q.Set("max", strconv.Itoa(c.MaxGames))
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/x-ndjson")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("lichess: fetch games: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lichess: unexpected status %d for user %s", resp.StatusCode, username)
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw gameJSON
		if err := json.Unmarshal(line, &raw); err != nil {
			return fmt.Errorf("lichess: decode game: %w", err)
		}
		if err := fn(normalize(raw)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("lichess: read stream: %w", err)
	}
	return nil
}
