package main

import (
	"testing"

	"github.com/milk9111/rigidtris/levels"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSimulation(t *testing.T) {
	sum, err := run(config{ticks: 600, seed: 7, logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, 600, sum.Ticks)
	assert.Positive(t, sum.Stats.Spawns)
	assert.GreaterOrEqual(t, sum.Score, 0)
	assert.NotEmpty(t, sum.Level)
}

func TestRunUnknownLevel(t *testing.T) {
	_, err := run(config{ticks: 1, levelName: "99_missing", logger: zerolog.Nop()})
	assert.ErrorIs(t, err, levels.ErrNotFound)
}
