package lichess

import (
	"strconv"
	"strings"
	"time"

	"chessdash/internal/core"
)

// gameJSON mirrors one line of the NDJSON game export
type gameJSON struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	Winner    string `json:"winner"`
	Perf      string `json:"perf"`
	Moves     string `json:"moves"`
	Players   struct {
		White playerJSON `json:"white"`
		Black playerJSON `json:"black"`
	} `json:"players"`
	Opening *struct {
		ECO  string `json:"eco"`
		Name string `json:"name"`
	} `json:"opening"`
	Clock *struct {
		Initial   int `json:"initial"`
		Increment int `json:"increment"`
	} `json:"clock"`
}

type playerJSON struct {
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

// normalize converts a raw Lichess game into the shared record format
func normalize(raw gameJSON) core.Game {
	g := core.Game{
		Source: core.PlatformLichess,
		White:  playerName(raw.Players.White),
		Black:  playerName(raw.Players.Black),
		Result: parseResult(raw.Winner),
		Moves:  raw.Moves,
	}

	g.Year, g.Month, g.Day = epochToDate(raw.CreatedAt)

	event := raw.Perf
	if event == "" {
		event = "unknown"
	}
	g.Event = &event

	if raw.Opening != nil && raw.Opening.ECO != "" {
		eco := raw.Opening.ECO
		g.ECO = &eco
		g.OpeningName, g.OpeningVariation = splitOpeningName(raw.Opening.Name)
	}

	if raw.Clock != nil {
		tc := strconv.Itoa(raw.Clock.Initial)
		g.TimeControl = &tc
	}

	if raw.ID != "" {
		// The game page URL is the canonical identity used for dedup
		gameURL := "https://lichess.org/" + raw.ID
		g.URL = &gameURL
	}

	return g
}

// playerName falls back to Anonymous for unregistered opponents, which the
// API reports without a user object
func playerName(p playerJSON) string {
	if p.User.Name == "" {
		return "Anonymous"
	}
	return p.User.Name
}

// parseResult converts the winner field to PGN notation; absent winner means
// a draw or an unfinished game, both recorded as a draw upstream
func parseResult(winner string) string {
	switch winner {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// epochToDate converts epoch milliseconds to a UTC (year, month, day) triple
func epochToDate(epochMS int64) (*int, *int, *int) {
	if epochMS == 0 {
		return nil, nil, nil
	}
	t := time.UnixMilli(epochMS).UTC()
	year, month, day := t.Year(), int(t.Month()), t.Day()
	return &year, &month, &day
}

// splitOpeningName splits "Sicilian Defense: Najdorf Variation" into name
// and variation on the first ": "
func splitOpeningName(full string) (*string, *string) {
	if full == "" {
		return nil, nil
	}
	if name, variation, found := strings.Cut(full, ": "); found {
		return &name, &variation
	}
	return &full, nil
}
