// Package core holds the normalized game record shared by the platform
// clients, the ingest pipeline and the storage layer.
package core

// Platform identifiers as stored in the dim_source dimension
const (
	PlatformLichess  = "lichess"
	PlatformChesscom = "chesscom"
)

// ResultUnknown is the PGN placeholder for an unknown or unfinished result
const ResultUnknown = "*"

// KnownPlatforms returns the platforms seeded into dim_source at init
func KnownPlatforms() []string {
	return []string{PlatformLichess, PlatformChesscom}
}

// ValidPlatform reports whether p names a supported chess platform
func ValidPlatform(p string) bool {
	for _, known := range KnownPlatforms() {
		if p == known {
			return true
		}
	}
	return false
}

// Game is one normalized game record as produced by the platform clients.
// Optional fields are pointers; nil means the platform did not supply a value.
type Game struct {
	Source string `validate:"required,oneof=lichess chesscom"`
	White  string `validate:"required"`
	Black  string `validate:"required"`
	Result string `validate:"required,oneof=1-0 0-1 1/2-1/2 *"`

	Year  *int
	Month *int
	Day   *int

	Event            *string
	ECO              *string
	OpeningName      *string
	OpeningVariation *string
	TimeControl      *string
	URL              *string

	Moves string
}
