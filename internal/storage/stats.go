package storage

import (
	"fmt"
)

// Read-only aggregates over the star schema, consumed by the dashboard and
// the interactive console. All queries accept an optional platform filter;
// an empty platform means every source.

// Summary holds headline counts for the stored data
type Summary struct {
	Games        int            `json:"games"`
	Players      int            `json:"players"`
	Openings     int            `json:"openings"`
	SourceCounts map[string]int `json:"source_counts"`
}

// PlayerStat aggregates one player's results across both colors
type PlayerStat struct {
	Username string `json:"username"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// OpeningStat counts games per eco code
type OpeningStat struct {
	ECO       string  `json:"eco"`
	Name      *string `json:"name"`
	Games     int     `json:"games"`
	WhiteWins int     `json:"white_wins"`
}

// ResultStat counts games per result string
type ResultStat struct {
	Result string `json:"result"`
	Games  int    `json:"games"`
}

// TimeControlStat counts games per time control
type TimeControlStat struct {
	TimeControl string `json:"time_control"`
	Games       int    `json:"games"`
}

// GetSummary returns headline counts, optionally filtered by platform
func (s *Store) GetSummary(platform string) (*Summary, error) {
	sum := &Summary{SourceCounts: make(map[string]int)}

	query := `
		SELECT COUNT(*)
		FROM fact_games g
		JOIN dim_source s ON g.source_id = s.source_id`
	var args []any
	if platform != "" {
		query += " WHERE s.source = ?"
		args = append(args, platform)
	}
	if err := s.db.QueryRow(query, args...).Scan(&sum.Games); err != nil {
		return nil, fmt.Errorf("summary game count failed: %w", err)
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM dim_player`).Scan(&sum.Players); err != nil {
		return nil, fmt.Errorf("summary player count failed: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM dim_opening`).Scan(&sum.Openings); err != nil {
		return nil, fmt.Errorf("summary opening count failed: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT s.source, COUNT(g.game_id)
		FROM dim_source s
		LEFT JOIN fact_games g ON g.source_id = s.source_id
		GROUP BY s.source`)
	if err != nil {
		return nil, fmt.Errorf("summary source counts failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("summary source scan failed: %w", err)
		}
		sum.SourceCounts[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary source iteration failed: %w", err)
	}

	return sum, nil
}

// GetPlayerStats returns win/loss/draw totals per player, both colors
// combined, most active players first
func (s *Store) GetPlayerStats(platform string) ([]PlayerStat, error) {
	filter := ""
	var args []any
	if platform != "" {
		filter = " AND s.source = ?"
		args = append(args, platform, platform)
	}

	query := fmt.Sprintf(`
		SELECT username,
		       COUNT(*) AS games,
		       SUM(win) AS wins,
		       SUM(loss) AS losses,
		       SUM(draw) AS draws
		FROM (
			SELECT pw.username AS username,
			       CASE WHEN r.result = '1-0' THEN 1 ELSE 0 END AS win,
			       CASE WHEN r.result = '0-1' THEN 1 ELSE 0 END AS loss,
			       CASE WHEN r.result = '1/2-1/2' THEN 1 ELSE 0 END AS draw
			FROM fact_games g
			JOIN dim_player pw ON g.playing_white_id = pw.player_id
			JOIN dim_result r ON g.result_id = r.result_id
			JOIN dim_source s ON g.source_id = s.source_id
			WHERE 1=1%s
			UNION ALL
			SELECT pb.username,
			       CASE WHEN r.result = '0-1' THEN 1 ELSE 0 END,
			       CASE WHEN r.result = '1-0' THEN 1 ELSE 0 END,
			       CASE WHEN r.result = '1/2-1/2' THEN 1 ELSE 0 END
			FROM fact_games g
			JOIN dim_player pb ON g.playing_black_id = pb.player_id
			JOIN dim_result r ON g.result_id = r.result_id
			JOIN dim_source s ON g.source_id = s.source_id
			WHERE 1=1%s
		) AS per_color
		GROUP BY username
		ORDER BY games DESC, username ASC`, filter, filter)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("player stats query failed: %w", err)
	}
	defer rows.Close()

	var stats []PlayerStat
	for rows.Next() {
		var ps PlayerStat
		if err := rows.Scan(&ps.Username, &ps.Games, &ps.Wins, &ps.Losses, &ps.Draws); err != nil {
			return nil, fmt.Errorf("player stats scan failed: %w", err)
		}
		stats = append(stats, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("player stats iteration failed: %w", err)
	}
	return stats, nil
}

// GetOpeningStats returns per-eco game counts, most played first
func (s *Store) GetOpeningStats(platform string, limit int) ([]OpeningStat, error) {
	query := `
		SELECT g.eco, o.name,
		       COUNT(*) AS games,
		       SUM(CASE WHEN r.result = '1-0' THEN 1 ELSE 0 END) AS white_wins
		FROM fact_games g
		LEFT JOIN dim_opening o ON g.eco = o.eco
		JOIN dim_result r ON g.result_id = r.result_id
		JOIN dim_source s ON g.source_id = s.source_id
		WHERE g.eco IS NOT NULL`
	var args []any
	if platform != "" {
		query += " AND s.source = ?"
		args = append(args, platform)
	}
	query += `
		GROUP BY g.eco, o.name
		ORDER BY games DESC, g.eco ASC
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("opening stats query failed: %w", err)
	}
	defer rows.Close()

	var stats []OpeningStat
	for rows.Next() {
		var os OpeningStat
		if err := rows.Scan(&os.ECO, &os.Name, &os.Games, &os.WhiteWins); err != nil {
			return nil, fmt.Errorf("opening stats scan failed: %w", err)
		}
		stats = append(stats, os)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("opening stats iteration failed: %w", err)
	}
	return stats, nil
}

// GetResultStats returns game counts per result string
func (s *Store) GetResultStats(platform string) ([]ResultStat, error) {
	query := `
		SELECT r.result, COUNT(*) AS games
		FROM fact_games g
		JOIN dim_result r ON g.result_id = r.result_id
		JOIN dim_source s ON g.source_id = s.source_id`
	var args []any
	if platform != "" {
		query += " WHERE s.source = ?"
		args = append(args, platform)
	}
	query += " GROUP BY r.result ORDER BY games DESC, r.result ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("result stats query failed: %w", err)
	}
	defer rows.Close()

	var stats []ResultStat
	for rows.Next() {
		var rs ResultStat
		if err := rows.Scan(&rs.Result, &rs.Games); err != nil {
			return nil, fmt.Errorf("result stats scan failed: %w", err)
		}
		stats = append(stats, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("result stats iteration failed: %w", err)
	}
	return stats, nil
}

// GetTimeControlStats returns game counts per time control
func (s *Store) GetTimeControlStats(platform string) ([]TimeControlStat, error) {
	query := `
		SELECT g.time_control, COUNT(*) AS games
		FROM fact_games g
		JOIN dim_source s ON g.source_id = s.source_id
		WHERE g.time_control IS NOT NULL`
	var args []any
	if platform != "" {
		query += " AND s.source = ?"
		args = append(args, platform)
	}
	query += " GROUP BY g.time_control ORDER BY games DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("time control stats query failed: %w", err)
	}
	defer rows.Close()

	var stats []TimeControlStat
	for rows.Next() {
		var ts TimeControlStat
		if err := rows.Scan(&ts.TimeControl, &ts.Games); err != nil {
			return nil, fmt.Errorf("time control stats scan failed: %w", err)
		}
		stats = append(stats, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("time control stats iteration failed: %w", err)
	}
	return stats, nil
}

// RecentGames returns the most recently loaded games, newest first
func (s *Store) RecentGames(platform string, limit int) ([]GameRow, error) {
	games, err := s.ListGames(platform)
	if err != nil {
		return nil, err
	}
	// ListGames is ordered by ascending game id; take the tail reversed
	if limit <= 0 || limit > len(games) {
		limit = len(games)
	}
	recent := make([]GameRow, 0, limit)
	for i := len(games) - 1; i >= len(games)-limit; i-- {
		recent = append(recent, games[i])
	}
	return recent, nil
}
