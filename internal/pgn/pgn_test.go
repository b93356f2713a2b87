package pgn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePGN = `[Event "Live Chess"]
[Site "Chess.com"]
[Date "2024.01.15"]
[White "magnus"]
[Black "hikaru"]
[Result "1-0"]
[ECO "B90"]
[Opening "Sicilian Defense"]
[TimeControl "300"]
[Link "https://www.chess.com/game/live/99"]

1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 1-0`

func TestParseTags(t *testing.T) {
	g, err := Parse(samplePGN)
	require.NoError(t, err)

	assert.Equal(t, "Live Chess", g.Tag("Event"))
	assert.Equal(t, "magnus", g.Tag("White"))
	assert.Equal(t, "hikaru", g.Tag("Black"))
	assert.Equal(t, "1-0", g.Tag("Result"))
	assert.Equal(t, "B90", g.Tag("ECO"))
	assert.Equal(t, "", g.Tag("Missing"))
}

func TestParseMoves(t *testing.T) {
	g, err := Parse(samplePGN)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"e4", "c5", "Nf3", "d6", "d4", "cxd4", "Nxd4", "Nf6"},
		g.Moves)
}

func TestParseStripsCommentsAndAnnotations(t *testing.T) {
	text := `[Event "Test"]

1. e4 {[%clk 0:04:58.1]} 1... e5 {a comment
spanning lines} 2. Nf3 $1 (2. f4 exf4 {alt}) 2... Nc6 ; rest of line
3. Bb5 *`

	g, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}, g.Moves)
}

func TestParseGluedMoveNumbers(t *testing.T) {
	g, err := Parse("1.e4 e5 2.Nf3 Nc6 3...Bc5 1/2-1/2")
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bc5"}, g.Moves)
}

func TestParseCastling(t *testing.T) {
	g, err := Parse("1. e4 e5 2. Nf3 Nc6 3. Bb5 Nf6 4. O-O Nxe4 *")
	require.NoError(t, err)
	assert.Contains(t, g.Moves, "O-O")

	g, err = Parse("1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. 0-0 Nf6 *")
	require.NoError(t, err)
	assert.Contains(t, g.Moves, "0-0")
}

func TestParseEscapedTagValue(t *testing.T) {
	g, err := Parse(`[Event "The \"Big\" Open"]

1. d4 d5 *`)
	require.NoError(t, err)
	assert.Equal(t, `The "Big" Open`, g.Tag("Event"))
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrNoGame)

	_, err = Parse("   \n\n  ")
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestParseTagsOnly(t *testing.T) {
	g, err := Parse(`[Event "Adjourned"]
[Result "*"]`)
	require.NoError(t, err)
	assert.Equal(t, "Adjourned", g.Tag("Event"))
	assert.Empty(t, g.Moves)
}
