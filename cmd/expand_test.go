package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandFlagsExplicitZeroIsDistinguishable(t *testing.T) {
	cmd := newExpandCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--min-episodes", "0", "--target", "5"}))

	assert.True(t, cmd.Flags().Changed("min-episodes"), "explicit zero must not look unset")
	v, err := cmd.Flags().GetInt("min-episodes")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	assert.True(t, cmd.Flags().Changed("target"))
}

func TestExpandFlagsUnsetFallBackToConfig(t *testing.T) {
	cmd := newExpandCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	assert.False(t, cmd.Flags().Changed("min-episodes"))
	assert.False(t, cmd.Flags().Changed("target"))
}
