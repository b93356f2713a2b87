package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHESSDASH_DB", "")
	t.Setenv("CHESSDASH_HOST", "")
	t.Setenv("CHESSDASH_PORT", "")
	t.Setenv("LICHESS_USERNAME", "")
	t.Setenv("CHESSCOM_USERNAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, filepath.Base(cfg.DBPath), "games.db")
	assert.Empty(t, cfg.Usernames())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHESSDASH_DB", "/tmp/other.db")
	t.Setenv("CHESSDASH_HOST", "0.0.0.0")
	t.Setenv("CHESSDASH_PORT", "9000")
	t.Setenv("LICHESS_USERNAME", "magnus")
	t.Setenv("CHESSCOM_USERNAME", "hikaru")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, map[string]string{
		"lichess":  "magnus",
		"chesscom": "hikaru",
	}, cfg.Usernames())
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("CHESSDASH_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHESSDASH_PORT")
}
