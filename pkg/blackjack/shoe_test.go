package blackjack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShoe(t *testing.T, decks int, system CountingSystem) *Shoe {
	t.Helper()
	s, err := NewShoe(ShoeConfig{
		NumDecks:    decks,
		Penetration: 75,
		System:      system,
		Rng:         rand.New(rand.NewSource(42)),
	})
	require.NoError(t, err)
	return s
}

func TestCreateShoeComposition(t *testing.T) {
	shoe := CreateShoe(6, HiLo, rand.New(rand.NewSource(1)))
	require.Len(t, shoe, 6*52)

	perRank := make(map[Rank]int)
	for _, c := range shoe {
		perRank[c.Rank()]++
	}
	for _, r := range Ranks {
		assert.Equal(t, 24, perRank[r], "rank %s", r)
	}
}

func TestCreateShoeDeterministicWithSeed(t *testing.T) {
	a := CreateShoe(2, HiLo, rand.New(rand.NewSource(7)))
	b := CreateShoe(2, HiLo, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestFullShoeCountsToZero(t *testing.T) {
	for _, system := range CountingSystems {
		t.Run(string(system), func(t *testing.T) {
			s := newTestShoe(t, 2, system)
			// Deal the whole shoe without hitting the cut card.
			s.cut = len(s.cards)
			for s.Remaining() > 0 {
				d := s.DealOne()
				require.False(t, d.Reshuffled)
				require.True(t, s.Reveal(d.Card))
			}
			if system.Balanced() {
				assert.Equal(t, 0, s.RunningCount())
			} else {
				assert.Equal(t, 4*2, s.RunningCount())
			}
		})
	}
}

func TestCutCardPosition(t *testing.T) {
	assert.Equal(t, 234, CutCardPosition(6, 75))
	assert.Equal(t, 52*90/100, CutCardPosition(1, 95))
	assert.Equal(t, 2*52*40/100, CutCardPosition(2, 10))
}

func TestDealOneReshufflesAtCutCard(t *testing.T) {
	s := newTestShoe(t, 1, HiLo)
	cut := s.CutCard()
	for i := 0; i < cut; i++ {
		d := s.DealOne()
		require.False(t, d.Reshuffled, "card %d", i)
		s.Reveal(d.Card)
	}
	assert.True(t, s.NeedsReshuffle())
	stale := s.DealOne()
	assert.True(t, stale.Reshuffled)
	assert.Equal(t, 1, s.CardsDealt())
	assert.Equal(t, 1, s.ShoesDealt())
	assert.Equal(t, 0, s.RunningCount())
	assert.Equal(t, 51, s.Remaining())
}

func TestRevealIgnoresCardsFromEarlierShoe(t *testing.T) {
	s := newTestShoe(t, 1, HiLo)
	hole := s.DealOne().Card
	s.Reshuffle()
	assert.False(t, s.Reveal(hole))
	assert.Equal(t, 0, s.RunningCount())
}

func TestDecksRemainingAndTrueCount(t *testing.T) {
	s := newTestShoe(t, 6, HiLo)
	assert.Equal(t, 6.0, s.DecksRemaining())

	prev := s.DecksRemaining()
	for i := 0; i < 100; i++ {
		s.Reveal(s.DealOne().Card)
		cur := s.DecksRemaining()
		assert.Less(t, cur, prev)
		prev = cur
	}
	assert.InDelta(t, float64(s.RunningCount())/s.DecksRemaining(), s.TrueCount(), 1e-9)

	s.Reshuffle()
	assert.Equal(t, 6.0, s.DecksRemaining())
	assert.Equal(t, 0.0, s.TrueCount())
}

func TestDecksRemainingFloor(t *testing.T) {
	s := newTestShoe(t, 1, HiLo)
	s.cut = len(s.cards)
	for s.Remaining() > 10 {
		s.DealOne()
	}
	assert.Equal(t, 0.5, s.DecksRemaining())
}

func TestStackedShoe(t *testing.T) {
	stack := cards(Ten, Six, Seven)
	s, err := NewShoeFromCards(ShoeConfig{NumDecks: 6, Penetration: 75, System: HiLo,
		Rng: rand.New(rand.NewSource(1))}, stack)
	require.NoError(t, err)
	assert.Equal(t, 6*52, s.Remaining())
	for _, want := range []Rank{Ten, Six, Seven} {
		assert.Equal(t, want, s.DealOne().Card.Rank())
	}

	_, err = NewShoeFromCards(ShoeConfig{NumDecks: 0}, nil)
	assert.Error(t, err)
}

func TestCountingSystemTags(t *testing.T) {
	tests := []struct {
		system CountingSystem
		rank   Rank
		tag    int
	}{
		{HiLo, Two, 1}, {HiLo, Seven, 0}, {HiLo, King, -1}, {HiLo, Ace, -1},
		{KO, Seven, 1}, {KO, Ace, -1},
		{HiOptI, Two, 0}, {HiOptI, Three, 1}, {HiOptI, Ace, 0},
		{HiOptII, Four, 2}, {HiOptII, Ten, -2}, {HiOptII, Ace, 0},
		{OmegaII, Six, 2}, {OmegaII, Nine, -1}, {OmegaII, Queen, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tag, tt.system.Tag(tt.rank), "%s %s", tt.system, tt.rank)
	}
	assert.Error(t, CountingSystem("ZEN").Validate())
}
