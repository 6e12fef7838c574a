package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSetRejectsUnknownMode(t *testing.T) {
	settingsMode = "turbo"
	defer func() { settingsMode = "" }()

	err := runSettingsSet(settingsSetCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestSettingsSetRequiresAFlag(t *testing.T) {
	err := runSettingsSet(settingsSetCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no settings given")
}
