package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vctt94/cardcounter/pkg/blackjack"
)

func TestLoadWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, blackjack.DefaultRules(), cfg.Rules)
	assert.FileExists(t, filepath.Join(dir, FileName))

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rules, again.Rules)
	assert.Equal(t, cfg.Table, again.Table)
	assert.Equal(t, 2*time.Second, again.Table.DecayInterval)
}

func TestParsePresetAndOverrides(t *testing.T) {
	cfg, err := Parse(t.TempDir(), []byte(`
preset: single-deck
rules:
  countingSystem: KO
  lateSurrender: true
table:
  decayInterval: 5s
`))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Rules.NumDecks)
	assert.Equal(t, blackjack.DoubleTenElev, cfg.Rules.DoubleRule)
	assert.Equal(t, blackjack.KO, cfg.Rules.CountingSystem)
	assert.True(t, cfg.Rules.LateSurrender)
	assert.Equal(t, 5*time.Second, cfg.Table.DecayInterval)
	assert.Equal(t, int64(1000), cfg.Table.StartingChips)
}

func TestValidate(t *testing.T) {
	_, err := Parse("", []byte("preset: nope\n"))
	assert.ErrorContains(t, err, "unknown preset")

	_, err = Parse("", []byte("rules:\n  decks: 3\n  penetration: 95\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "decks must be")
	assert.ErrorContains(t, err, "penetration")

	_, err = Parse("", []byte("table:\n  humanSeat: 1\n"))
	assert.ErrorContains(t, err, "seat 1 assigned twice")

	_, err = Parse("", []byte("rules:\n  blackjackPayout: \"7:5\"\n"))
	assert.ErrorContains(t, err, "unknown blackjack payout")
}

func TestTableConfig(t *testing.T) {
	cfg := Default(t.TempDir())
	tc := cfg.TableConfig("t1", nil, rand.New(rand.NewSource(1)), nil)
	assert.Len(t, tc.Actors, len(cfg.Table.ActorSeats))
	assert.Equal(t, 0.25, tc.Detector.PitBossDecay)
	assert.Equal(t, cfg.Rules, tc.Rules)

	_, err := os.Stat(cfg.DataDir)
	assert.NoError(t, err)
}
