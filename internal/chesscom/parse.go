package chesscom

import (
	"strconv"
	"strings"

	"chessdash/internal/core"
	"chessdash/internal/pgn"
)

// parseGame converts one archived PGN into the shared record format.
// The second return value is false when the text holds no game.
func parseGame(pgnText string) (core.Game, bool) {
	parsed, err := pgn.Parse(pgnText)
	if err != nil {
		return core.Game{}, false
	}

	g := core.Game{
		Source: core.PlatformChesscom,
		White:  tagOrDefault(parsed, "White", "Unknown"),
		Black:  tagOrDefault(parsed, "Black", "Unknown"),
		Result: tagOrDefault(parsed, "Result", core.ResultUnknown),
		Moves:  strings.Join(parsed.Moves, " "),
	}

	// UTCDate is preferred; Date is the fallback older archives carry
	dateStr := parsed.Tag("UTCDate")
	if dateStr == "" {
		dateStr = parsed.Tag("Date")
	}
	g.Year, g.Month, g.Day = parseDate(dateStr)

	g.Event = tagPtr(parsed, "Event")
	g.ECO = tagPtr(parsed, "ECO")
	g.OpeningName = tagPtr(parsed, "Opening")
	g.OpeningVariation = tagPtr(parsed, "Variation")
	g.TimeControl = tagPtr(parsed, "TimeControl")
	g.URL = tagPtr(parsed, "Link")

	return g, true
}

func tagOrDefault(g *pgn.Game, name, fallback string) string {
	if v := g.Tag(name); v != "" {
		return v
	}
	return fallback
}

func tagPtr(g *pgn.Game, name string) *string {
	if v := g.Tag(name); v != "" {
		return &v
	}
	return nil
}

// parseDate splits a PGN date tag ("2024.01.15") into its components.
// Unknown markers ("????", "??") and unparsable parts become nil, so
// partial dates survive as partial dimension keys.
func parseDate(dateStr string) (*int, *int, *int) {
	if dateStr == "" || dateStr == "????.??.??" {
		return nil, nil, nil
	}
	parts := strings.Split(dateStr, ".")
	if len(parts) != 3 {
		return nil, nil, nil
	}
	return datePart(parts[0], "????"), datePart(parts[1], "??"), datePart(parts[2], "??")
}

func datePart(s, unknown string) *int {
	if s == unknown {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
