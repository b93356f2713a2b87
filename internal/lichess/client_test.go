package lichess

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessdash/internal/core"
)

// 2024-01-15T12:00:00Z in epoch milliseconds
const fixtureCreatedAt = "1705320000000"

const ndjsonFixture = `{"id":"abc123","createdAt":` + fixtureCreatedAt + `,"winner":"white","perf":"blitz","moves":"e4 c5 Nf3","players":{"white":{"user":{"name":"magnus"}},"black":{"user":{"name":"hikaru"}}},"opening":{"eco":"B90","name":"Sicilian Defense: Najdorf Variation"},"clock":{"initial":300,"increment":0}}

{"id":"def456","winner":"black","perf":"bullet","moves":"d4 d5","players":{"white":{"user":{"name":"magnus"}},"black":{}}}
`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New()
	c.BaseURL = srv.URL
	return c
}

func collectGames(t *testing.T, c *Client, username string) []core.Game {
	t.Helper()
	var games []core.Game
	err := c.FetchGames(context.Background(), username, func(g core.Game) error {
		games = append(games, g)
		return nil
	})
	require.NoError(t, err)
	return games
}

func TestFetchGamesNormalization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/user/magnus", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("opening"))
		assert.Equal(t, "application/x-ndjson", r.Header.Get("Accept"))
		w.Write([]byte(ndjsonFixture))
	})

	games := collectGames(t, c, "magnus")
	require.Len(t, games, 2)

	g := games[0]
	assert.Equal(t, core.PlatformLichess, g.Source)
	assert.Equal(t, "magnus", g.White)
	assert.Equal(t, "hikaru", g.Black)
	assert.Equal(t, "1-0", g.Result)
	require.NotNil(t, g.Year)
	assert.Equal(t, 2024, *g.Year)
	assert.Equal(t, 1, *g.Month)
	assert.Equal(t, 15, *g.Day)
	require.NotNil(t, g.Event)
	assert.Equal(t, "blitz", *g.Event)
	require.NotNil(t, g.ECO)
	assert.Equal(t, "B90", *g.ECO)
	require.NotNil(t, g.OpeningName)
	assert.Equal(t, "Sicilian Defense", *g.OpeningName)
	require.NotNil(t, g.OpeningVariation)
	assert.Equal(t, "Najdorf Variation", *g.OpeningVariation)
	require.NotNil(t, g.TimeControl)
	assert.Equal(t, "300", *g.TimeControl)
	require.NotNil(t, g.URL)
	assert.Equal(t, "https://lichess.org/abc123", *g.URL)
	assert.Equal(t, "e4 c5 Nf3", g.Moves)
}

func TestFetchGamesAnonymousAndMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ndjsonFixture))
	})

	games := collectGames(t, c, "magnus")
	require.Len(t, games, 2)

	g := games[1]
	assert.Equal(t, "Anonymous", g.Black)
	assert.Equal(t, "0-1", g.Result)
	assert.Nil(t, g.Year)
	assert.Nil(t, g.ECO)
	assert.Nil(t, g.TimeControl)
}

func TestFetchGamesMaxParameter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("max"))
		w.Write([]byte(ndjsonFixture))
	})
	c.MaxGames = 5

	collectGames(t, c, "magnus")
}

func TestFetchGamesErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.FetchGames(context.Background(), "nobody", func(core.Game) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchGamesCallbackErrorStopsStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ndjsonFixture))
	})

	sentinel := errors.New("stop")
	calls := 0
	err := c.FetchGames(context.Background(), "magnus", func(core.Game) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestParseResult(t *testing.T) {
	assert.Equal(t, "1-0", parseResult("white"))
	assert.Equal(t, "0-1", parseResult("black"))
	assert.Equal(t, "1/2-1/2", parseResult(""))
}
