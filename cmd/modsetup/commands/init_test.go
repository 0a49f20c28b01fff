package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/modsetup/cmd/modsetup/handlers"
)

func TestInit(t *testing.T) {
	cmd := Init(&handlers.GlobalOptions{})

	require.NotNil(t, cmd)
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Write the demo setup document", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestInit_Flags(t *testing.T) {
	cmd := Init(&handlers.GlobalOptions{})

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "output", shorthand: "o", defValue: ""},
		{name: "force", shorthand: "f", defValue: "false"},
		{name: "assets", defValue: "true"},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, flag, "%s flag should exist", tt.name)
		assert.Equal(t, tt.shorthand, flag.Shorthand)
		assert.Equal(t, tt.defValue, flag.DefValue)
	}
}
