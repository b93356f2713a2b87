package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-01-15", formatDate(intp(2024), intp(1), intp(15)))
	assert.Equal(t, "2024-01-??", formatDate(intp(2024), intp(1), nil))
	assert.Equal(t, "2024-??-??", formatDate(intp(2024), nil, nil))
	assert.Equal(t, "-", formatDate(nil, intp(1), intp(15)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "magnus", truncate("magnus", 20))
	assert.Equal(t, "verylongusernamet...", truncate("verylongusernamethatkeepsgoing", 20))
	assert.Equal(t, "abc", truncate("abcdef", 3))
}

func TestRunRejectsUnknownSubcommand(t *testing.T) {
	err := Run([]string{"bogus"})
	assert.ErrorContains(t, err, "unknown subcommand")

	err = Run(nil)
	assert.ErrorContains(t, err, "subcommand required")
}
