package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-08-26")

	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "abc123", commit)
	assert.Equal(t, "2026-08-26", date)
}

func TestVersion(t *testing.T) {
	cmd := Version()

	assert.Equal(t, "version", cmd.Use)
	assert.NotNil(t, cmd.Run)
}
