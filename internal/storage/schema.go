package storage

import (
	"time"

	"chessdash/internal/core"
)

// GameRow is one flattened listing row, joining the fact table back to the
// player, date, result and source dimensions
type GameRow struct {
	ID          int64   `json:"id"`
	White       string  `json:"white"`
	Black       string  `json:"black"`
	Year        *int    `json:"year"`
	Month       *int    `json:"month"`
	Day         *int    `json:"day"`
	Result      string  `json:"result"`
	ECO         *string `json:"eco"`
	TimeControl *string `json:"time_control"`
	Source      string  `json:"source"`
}

// OpeningRecord represents a row in the dim_opening dimension
type OpeningRecord struct {
	ECO       string    `db:"eco"`
	Name      *string   `db:"name"`
	Variation *string   `db:"variation"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Star-schema DDL. Surrogate keys are INTEGER PRIMARY KEY rowid aliases:
// SQLite assigns max(existing)+1 starting at 1, which is the key-allocation
// contract the load pipeline depends on.
const (
	dimPlayerDDL = `
CREATE TABLE IF NOT EXISTS dim_player (
	player_id INTEGER PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL
);`

	dimDateDDL = `
CREATE TABLE IF NOT EXISTS dim_date (
	date_id INTEGER PRIMARY KEY,
	date TEXT,
	year INTEGER,
	month INTEGER,
	day INTEGER
);`

	dimEventDDL = `
CREATE TABLE IF NOT EXISTS dim_event (
	event_id INTEGER PRIMARY KEY,
	name TEXT,
	site TEXT,
	round TEXT
);`

	dimResultDDL = `
CREATE TABLE IF NOT EXISTS dim_result (
	result_id INTEGER PRIMARY KEY,
	result TEXT NOT NULL UNIQUE
);`

	dimSourceDDL = `
CREATE TABLE IF NOT EXISTS dim_source (
	source_id INTEGER PRIMARY KEY,
	source TEXT NOT NULL UNIQUE
);`

	dimOpeningDDL = `
CREATE TABLE IF NOT EXISTS dim_opening (
	eco TEXT PRIMARY KEY,
	name TEXT,
	variation TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

	factGamesDDL = `
CREATE TABLE IF NOT EXISTS fact_games (
	game_id INTEGER PRIMARY KEY,
	date_id INTEGER NOT NULL,
	event_id INTEGER NOT NULL,
	source_id INTEGER NOT NULL,
	playing_white_id INTEGER NOT NULL,
	playing_black_id INTEGER NOT NULL,
	result_id INTEGER NOT NULL,
	eco TEXT,
	time_control TEXT,
	url TEXT,
	moves TEXT,
	FOREIGN KEY (playing_white_id) REFERENCES dim_player(player_id),
	FOREIGN KEY (playing_black_id) REFERENCES dim_player(player_id),
	FOREIGN KEY (date_id) REFERENCES dim_date(date_id),
	FOREIGN KEY (event_id) REFERENCES dim_event(event_id),
	FOREIGN KEY (result_id) REFERENCES dim_result(result_id),
	FOREIGN KEY (source_id) REFERENCES dim_source(source_id)
);
CREATE INDEX IF NOT EXISTS idx_fact_games_source_url ON fact_games(source_id, url);`
)

// allDDL lists the creation statements in dependency order, dimensions
// before the fact table
var allDDL = []string{
	dimPlayerDDL,
	dimDateDDL,
	dimEventDDL,
	dimResultDDL,
	dimSourceDDL,
	dimOpeningDDL,
	factGamesDDL,
}

// seededSources are guaranteed to exist in dim_source after InitDB,
// even before any game is loaded
var seededSources = core.KnownPlatforms()
