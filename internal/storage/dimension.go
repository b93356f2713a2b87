package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"chessdash/internal/core"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Dimension resolution runs on the bare connection during loads and inside
// the init transaction when seeding.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// getOrCreate implements the shared lookup-then-insert contract for the
// surrogate-keyed dimensions. Natural-key comparison uses the SQLite IS
// operator so that NULL matches NULL; dedup of partial dates and events
// depends on this. Lookup and insert are deliberately not wrapped in a
// transaction: the store assumes a single writer.
func getOrCreate(q querier, table, keyColumn string, naturalCols []string, naturalVals []any, extraCols []string, extraVals []any) (int64, error) {
	conds := make([]string, len(naturalCols))
	for i, col := range naturalCols {
		conds[i] = col + " IS ?"
	}
	lookup := fmt.Sprintf("SELECT %s FROM %s WHERE %s", keyColumn, table, strings.Join(conds, " AND "))

	var id int64
	err := q.QueryRow(lookup, naturalVals...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s lookup failed: %w", table, err)
	}

	cols := append(append([]string{}, naturalCols...), extraCols...)
	vals := append(append([]any{}, naturalVals...), extraVals...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)

	res, err := q.Exec(insert, vals...)
	if err != nil {
		return 0, fmt.Errorf("%s insert failed: %w", table, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s insert id failed: %w", table, err)
	}
	return id, nil
}

func getOrCreatePlayer(q querier, username string) (int64, error) {
	return getOrCreate(q, "dim_player", "player_id",
		[]string{"username"}, []any{username},
		[]string{"display_name"}, []any{username})
}

func getOrCreateDate(q querier, year, month, day *int) (int64, error) {
	// The derived ISO string is only set for complete dates
	var date *string
	if year != nil && month != nil && day != nil {
		s := fmt.Sprintf("%04d-%02d-%02d", *year, *month, *day)
		date = &s
	}
	return getOrCreate(q, "dim_date", "date_id",
		[]string{"year", "month", "day"}, []any{year, month, day},
		[]string{"date"}, []any{date})
}

func getOrCreateEvent(q querier, name, site, round *string) (int64, error) {
	return getOrCreate(q, "dim_event", "event_id",
		[]string{"name", "site", "round"}, []any{name, site, round},
		nil, nil)
}

func getOrCreateResult(q querier, result string) (int64, error) {
	if result == "" {
		result = core.ResultUnknown
	}
	return getOrCreate(q, "dim_result", "result_id",
		[]string{"result"}, []any{result},
		nil, nil)
}

func getOrCreateSource(q querier, source string) (int64, error) {
	return getOrCreate(q, "dim_source", "source_id",
		[]string{"source"}, []any{source},
		nil, nil)
}

// upsertOpening inserts or overwrites a dim_opening row. The eco code is the
// key; on update, incoming NULLs never overwrite stored values.
func upsertOpening(q querier, eco string, name, variation *string) error {
	var existing string
	err := q.QueryRow(`SELECT eco FROM dim_opening WHERE eco = ?`, eco).Scan(&existing)
	switch {
	case err == nil:
		_, err = q.Exec(`
			UPDATE dim_opening
			SET name = COALESCE(?, name),
			    variation = COALESCE(?, variation),
			    updated_at = CURRENT_TIMESTAMP
			WHERE eco = ?`,
			name, variation, eco)
		if err != nil {
			return fmt.Errorf("dim_opening update failed: %w", err)
		}
		return nil
	case errors.Is(err, sql.ErrNoRows):
		_, err = q.Exec(`INSERT INTO dim_opening (eco, name, variation) VALUES (?, ?, ?)`,
			eco, name, variation)
		if err != nil {
			return fmt.Errorf("dim_opening insert failed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("dim_opening lookup failed: %w", err)
	}
}

// GetOpening returns the stored opening for an eco code, or nil if absent
func (s *Store) GetOpening(eco string) (*OpeningRecord, error) {
	var rec OpeningRecord
	err := s.db.QueryRow(`
		SELECT eco, name, variation, created_at, updated_at
		FROM dim_opening WHERE eco = ?`, eco).
		Scan(&rec.ECO, &rec.Name, &rec.Variation, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dim_opening lookup failed: %w", err)
	}
	return &rec, nil
}
