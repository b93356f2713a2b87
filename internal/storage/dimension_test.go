package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessdash/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.InitDB())
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestPlayerResolutionIdempotent(t *testing.T) {
	s := newTestStore(t)

	first, err := getOrCreatePlayer(s.db, "magnus")
	require.NoError(t, err)
	second, err := getOrCreatePlayer(s.db, "magnus")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, countRows(t, s, "dim_player"))
}

func TestSurrogateKeysStartAtOneAndIncrement(t *testing.T) {
	s := newTestStore(t)

	ids := make([]int64, 0, 3)
	for _, name := range []string{"magnus", "hikaru", "fabiano"} {
		id, err := getOrCreatePlayer(s.db, name)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestDateNullTolerantMatching(t *testing.T) {
	s := newTestStore(t)

	yearOnly, err := getOrCreateDate(s.db, intp(2024), nil, nil)
	require.NoError(t, err)
	yearOnlyAgain, err := getOrCreateDate(s.db, intp(2024), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, yearOnly, yearOnlyAgain)
	assert.Equal(t, 1, countRows(t, s, "dim_date"))

	full, err := getOrCreateDate(s.db, intp(2024), intp(1), intp(15))
	require.NoError(t, err)
	partial, err := getOrCreateDate(s.db, intp(2024), intp(1), nil)
	require.NoError(t, err)
	assert.NotEqual(t, full, partial)
	assert.Equal(t, 3, countRows(t, s, "dim_date"))
}

func TestAllNullDateIsSingleRow(t *testing.T) {
	s := newTestStore(t)

	first, err := getOrCreateDate(s.db, nil, nil, nil)
	require.NoError(t, err)
	second, err := getOrCreateDate(s.db, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, countRows(t, s, "dim_date"))
}

func TestDateDerivedISOString(t *testing.T) {
	s := newTestStore(t)

	id, err := getOrCreateDate(s.db, intp(2024), intp(1), intp(5))
	require.NoError(t, err)
	var date *string
	require.NoError(t, s.db.QueryRow(`SELECT date FROM dim_date WHERE date_id = ?`, id).Scan(&date))
	require.NotNil(t, date)
	assert.Equal(t, "2024-01-05", *date)

	partialID, err := getOrCreateDate(s.db, intp(2024), nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.db.QueryRow(`SELECT date FROM dim_date WHERE date_id = ?`, partialID).Scan(&date))
	assert.Nil(t, date)
}

func TestEventNullTolerantMatching(t *testing.T) {
	s := newTestStore(t)

	first, err := getOrCreateEvent(s.db, nil, nil, nil)
	require.NoError(t, err)
	second, err := getOrCreateEvent(s.db, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	named, err := getOrCreateEvent(s.db, strp("Blitz"), nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, named)
	assert.Equal(t, 2, countRows(t, s, "dim_event"))
}

func TestResultDefaultsToStar(t *testing.T) {
	s := newTestStore(t)

	id, err := getOrCreateResult(s.db, "")
	require.NoError(t, err)
	var stored string
	require.NoError(t, s.db.QueryRow(`SELECT result FROM dim_result WHERE result_id = ?`, id).Scan(&stored))
	assert.Equal(t, core.ResultUnknown, stored)

	again, err := getOrCreateResult(s.db, "*")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, countRows(t, s, "dim_result"))
}

func TestSourceSeeding(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, 2, countRows(t, s, "dim_source"))

	// Re-running init must not duplicate the seeds
	require.NoError(t, s.InitDB())
	assert.Equal(t, 2, countRows(t, s, "dim_source"))

	for _, platform := range core.KnownPlatforms() {
		var n int
		require.NoError(t, s.db.QueryRow(
			`SELECT COUNT(*) FROM dim_source WHERE source = ?`, platform).Scan(&n))
		assert.Equal(t, 1, n, "expected exactly one %s row", platform)
	}
}

func TestOpeningCoalesceUpdate(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, upsertOpening(s.db, "B90", strp("Sicilian"), nil))
	require.NoError(t, upsertOpening(s.db, "B90", nil, strp("Najdorf")))

	assert.Equal(t, 1, countRows(t, s, "dim_opening"))

	rec, err := s.GetOpening("B90")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Name)
	require.NotNil(t, rec.Variation)
	assert.Equal(t, "Sicilian", *rec.Name)
	assert.Equal(t, "Najdorf", *rec.Variation)
}

func TestOpeningNullsNeverOverwrite(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, upsertOpening(s.db, "C42", strp("Petrov Defense"), strp("Classical")))
	require.NoError(t, upsertOpening(s.db, "C42", nil, nil))

	rec, err := s.GetOpening("C42")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Petrov Defense", *rec.Name)
	assert.Equal(t, "Classical", *rec.Variation)
}

func TestGetOpeningMissing(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.GetOpening("Z99")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
