// Package chesscom fetches a user's games from the Chess.com public API,
// which exposes them as monthly archives of PGN-bearing JSON objects.
package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chessdash/internal/core"
)

const (
	defaultBaseURL = "https://api.chess.com/pub"
	userAgent      = "chessdash/0.1.0 (https://github.com/chessdash)"
)

// Client fetches games from the Chess.com public API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Year and Month restrict fetching to matching monthly archives;
	// zero means no restriction
	Year  int
	Month int
}

// New creates a Chess.com client with the production API base URL
func New() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type archivesJSON struct {
	Archives []string `json:"archives"`
}

type archiveJSON struct {
	Games []struct {
		PGN string `json:"pgn"`
	} `json:"games"`
}

// FetchGames walks username's monthly archives oldest-first and invokes fn
// for each normalized record. Archive entries without a PGN, and PGNs that
// do not parse as a game, are skipped.
func (c *Client) FetchGames(ctx context.Context, username string, fn func(core.Game) error) error {
	archives, err := c.listArchives(ctx, username)
	if err != nil {
		return err
	}

	for _, archiveURL := range archives {
		year, month, ok := archiveYearMonth(archiveURL)
		if !ok {
			continue
		}
		if c.Year != 0 && year != c.Year {
			continue
		}
		if c.Month != 0 && month != c.Month {
			continue
		}

		var payload archiveJSON
		if err := c.getJSON(ctx, archiveURL, &payload); err != nil {
			return err
		}
		for _, entry := range payload.Games {
			if entry.PGN == "" {
				continue
			}
			g, ok := parseGame(entry.PGN)
			if !ok {
				continue
			}
			if err := fn(g); err != nil {
				return err
			}
		}
	}

	return nil
}

// listArchives returns the monthly archive URLs for a user
func (c *Client) listArchives(ctx context.Context, username string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/player/%s/games/archives", c.BaseURL, url.PathEscape(username))
	var payload archivesJSON
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Archives, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("chesscom: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("chesscom: fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chesscom: unexpected status %d for %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("chesscom: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("chesscom: decode response: %w", err)
	}
	return nil
}

// archiveYearMonth extracts the trailing /YYYY/MM path segments of a
// monthly archive URL
func archiveYearMonth(archiveURL string) (int, int, bool) {
	parts := strings.Split(strings.TrimRight(archiveURL, "/"), "/")
	if len(parts) < 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}
