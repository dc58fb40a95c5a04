package main

import (
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vctt94/cardcounter/pkg/config"
)

func TestSimulateFlat(t *testing.T) {
	cfg := config.Default(t.TempDir())
	res, err := simulate(cfg, simConfig{Hands: 30, Style: styleFlat, Seed: 3, Think: 5 * time.Second}, slog.Disabled)
	require.NoError(t, err)

	assert.Positive(t, res.Hands)
	assert.LessOrEqual(t, res.Hands, 30)
	assert.Zero(t, res.SatOut)
	assert.Equal(t, cfg.Rules.MinBet, res.MaxBet)
	assert.Equal(t, cfg.Table.StartingChips+res.Stats.Net, res.Chips)
	assert.Equal(t, res.Hands, res.Stats.HandsPlayed)
	assert.InDelta(t, 1, res.Stats.Accuracy, 0.001)
	assert.Len(t, res.Timeline, res.Hands)
}

func TestSimulateWong(t *testing.T) {
	cfg := config.Default(t.TempDir())
	res, err := simulate(cfg, simConfig{Hands: 60, Style: styleWong, Seed: 11, Think: 5 * time.Second}, slog.Disabled)
	require.NoError(t, err)

	assert.Equal(t, res.SatOut, res.Stats.HandsSatOut)
	assert.Len(t, res.Timeline, res.Hands+res.SatOut)
	assert.Equal(t, cfg.Table.StartingChips+res.Stats.Net, res.Chips)
}

func TestSimulateRejectsStyle(t *testing.T) {
	_, err := simulate(config.Default(t.TempDir()), simConfig{Hands: 1, Style: "martingale"}, slog.Disabled)
	assert.Error(t, err)
}

func TestLoadSettingsPreset(t *testing.T) {
	cfg, err := loadSettings(t.TempDir(), "single-deck")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Rules.NumDecks)

	_, err = loadSettings(t.TempDir(), "nope")
	assert.Error(t, err)
}
