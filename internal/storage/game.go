package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"chessdash/internal/core"
)

// InsertGame resolves all six dimensions for one normalized game record and
// appends one fact row, returning its freshly allocated game id. The opening
// dimension is only touched when the record carries an eco code. The
// sequence of resolutions is not atomic as a whole; a failed fact insert can
// leave behind dimension rows, which are harmless and reused on retry.
func (s *Store) InsertGame(g core.Game) (int64, error) {
	sourceID, err := getOrCreateSource(s.db, g.Source)
	if err != nil {
		return 0, err
	}
	whiteID, err := getOrCreatePlayer(s.db, g.White)
	if err != nil {
		return 0, err
	}
	blackID, err := getOrCreatePlayer(s.db, g.Black)
	if err != nil {
		return 0, err
	}
	dateID, err := getOrCreateDate(s.db, g.Year, g.Month, g.Day)
	if err != nil {
		return 0, err
	}
	eventID, err := getOrCreateEvent(s.db, g.Event, nil, nil)
	if err != nil {
		return 0, err
	}
	resultID, err := getOrCreateResult(s.db, g.Result)
	if err != nil {
		return 0, err
	}
	if g.ECO != nil && *g.ECO != "" {
		if err := upsertOpening(s.db, *g.ECO, g.OpeningName, g.OpeningVariation); err != nil {
			return 0, err
		}
	}

	res, err := s.db.Exec(`
		INSERT INTO fact_games (date_id, event_id, source_id,
		                        playing_white_id, playing_black_id, result_id,
		                        eco, time_control, url, moves)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dateID, eventID, sourceID, whiteID, blackID, resultID,
		g.ECO, g.TimeControl, g.URL, g.Moves)
	if err != nil {
		return 0, fmt.Errorf("fact_games insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fact_games insert id failed: %w", err)
	}
	return id, nil
}

// GameExists reports whether a fact row already exists for the given source
// platform and canonical game URL. Callers must not pass an empty URL: a
// game without a URL has no external identity and is always loaded.
func (s *Store) GameExists(source, url string) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1
		FROM fact_games g
		JOIN dim_source s ON g.source_id = s.source_id
		WHERE s.source = ? AND g.url = ?
		LIMIT 1`, source, url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("duplicate check failed: %w", err)
	}
	return true, nil
}

// ListGames returns all stored games joined back to their dimensions in
// insertion order. An empty platform returns games from every source.
func (s *Store) ListGames(platform string) ([]GameRow, error) {
	query := `
		SELECT
			g.game_id,
			pw.username,
			pb.username,
			d.year,
			d.month,
			d.day,
			r.result,
			g.eco,
			g.time_control,
			s.source
		FROM fact_games g
		JOIN dim_player pw ON g.playing_white_id = pw.player_id
		JOIN dim_player pb ON g.playing_black_id = pb.player_id
		JOIN dim_date d ON g.date_id = d.date_id
		JOIN dim_result r ON g.result_id = r.result_id
		JOIN dim_source s ON g.source_id = s.source_id`

	var args []any
	if platform != "" {
		query += " WHERE s.source = ?"
		args = append(args, platform)
	}
	query += " ORDER BY g.game_id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRow
	for rows.Next() {
		var row GameRow
		err := rows.Scan(
			&row.ID, &row.White, &row.Black,
			&row.Year, &row.Month, &row.Day,
			&row.Result, &row.ECO, &row.TimeControl, &row.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("list scan failed: %w", err)
		}
		games = append(games, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list iteration failed: %w", err)
	}

	return games, nil
}
