package blackjack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(r Rank) Card {
	return NewCard(r, Spades, HiLo)
}

var allOptions = Options{CanSplit: true, CanDouble: true, CanSurrender: true}

func TestBasicStrategyAction(t *testing.T) {
	h17 := DefaultRules()
	s17 := DefaultRules()
	s17.DealerHitsSoft17 = false
	noDAS := DefaultRules()
	noDAS.DoubleAfterSplit = false

	tests := []struct {
		name  string
		hand  []Card
		up    Rank
		rules Rules
		opts  Options
		want  Action
	}{
		{"hard 8 hits", cards(Five, Three), Six, h17, allOptions, ActionHit},
		{"11 doubles vs ace under H17", cards(Six, Five), Ace, h17, allOptions, ActionDouble},
		{"11 hits vs ace under S17", cards(Six, Five), Ace, s17, allOptions, ActionHit},
		{"10 vs ten hits", cards(Six, Four), Ten, h17, allOptions, ActionHit},
		{"12 vs 4 stands", cards(Ten, Two), Four, h17, allOptions, ActionStand},
		{"12 vs 2 hits", cards(Ten, Two), Two, h17, allOptions, ActionHit},
		{"16 vs ten surrenders", cards(Ten, Six), King, h17, allOptions, ActionSurrender},
		{"16 vs ten hits without surrender", cards(Ten, Six), King, h17, Options{}, ActionHit},
		{"16 vs 6 stands", cards(Ten, Six), Six, h17, allOptions, ActionStand},
		{"17 stands vs ace", cards(Ten, Seven), Ace, h17, allOptions, ActionStand},
		{"soft 18 vs 3 doubles", cards(Ace, Seven), Three, h17, allOptions, ActionDouble},
		{"soft 18 vs 3 stands when double unavailable", cards(Ace, Seven), Three, h17, Options{}, ActionStand},
		{"soft 18 vs 9 hits", cards(Ace, Seven), Nine, h17, allOptions, ActionHit},
		{"soft 18 vs 2 stands under S17", cards(Ace, Seven), Two, s17, allOptions, ActionStand},
		{"soft 17 vs 3 hits when double unavailable", cards(Ace, Six), Three, h17, Options{}, ActionHit},
		{"soft 19 vs 6 doubles under H17", cards(Ace, Eight), Six, h17, allOptions, ActionDouble},
		{"soft 19 vs 6 stands under S17", cards(Ace, Eight), Six, s17, allOptions, ActionStand},
		{"aces split", cards(Ace, Ace), Ten, h17, allOptions, ActionSplit},
		{"aces hit when split unavailable", cards(Ace, Ace), Ten, h17, Options{}, ActionHit},
		{"eights split vs ace", cards(Eight, Eight), Ace, h17, allOptions, ActionSplit},
		{"tens stand", cards(King, King), Six, h17, allOptions, ActionStand},
		{"fives double vs 9", cards(Five, Five), Nine, h17, allOptions, ActionDouble},
		{"nines stand vs 7", cards(Nine, Nine), Seven, h17, allOptions, ActionStand},
		{"nines split vs 8", cards(Nine, Nine), Eight, h17, allOptions, ActionSplit},
		{"fours split vs 5 with DAS", cards(Four, Four), Five, h17, allOptions, ActionSplit},
		{"fours hit vs 5 without DAS", cards(Four, Four), Five, noDAS, allOptions, ActionHit},
		{"twos split vs 2 with DAS", cards(Two, Two), Two, h17, allOptions, ActionSplit},
		{"twos hit vs 2 without DAS", cards(Two, Two), Two, noDAS, allOptions, ActionHit},
		{"three card 13 vs 2 stands", cards(Five, Four, Four), Two, h17, allOptions, ActionStand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicStrategyAction(tt.hand, up(tt.up), tt.rules, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasicStrategyIsDeterministic(t *testing.T) {
	rules := DefaultRules()
	for i := 0; i < 10; i++ {
		assert.Equal(t, ActionDouble, BasicStrategyAction(cards(Six, Four), up(Nine), rules, allOptions))
	}
}

func TestDecideActorAction(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// A perfect actor follows everything but double.
	assert.Equal(t, ActionStand, DecideActorAction(100, ActionStand, cards(Ten, Two), rng))
	assert.Equal(t, ActionSplit, DecideActorAction(100, ActionSplit, cards(Eight, Eight), rng))
	assert.Equal(t, ActionHit, DecideActorAction(100, ActionDouble, cards(Six, Five), rng))

	// A zero skill actor always falls back to hit below 17.
	assert.Equal(t, ActionHit, DecideActorAction(0, ActionStand, cards(Ten, Two), rng))
	assert.Equal(t, ActionStand, DecideActorAction(0, ActionHit, cards(Ten, Seven), rng))
}

func TestSuggestedBet(t *testing.T) {
	tests := []struct {
		tc    int
		chips int64
		want  int64
	}{
		{-3, 1000, 10},
		{0, 1000, 10},
		{1, 1000, 20},
		{2, 1000, 40},
		{3, 1000, 60},
		{4, 1000, 80},
		{9, 1000, 80},
		{4, 50, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestedBet(tt.tc, 10, 500, tt.chips), "tc %d", tt.tc)
	}
	assert.Equal(t, int64(60), SuggestedBet(5, 10, 60, 1000))

	prev := int64(0)
	for tc := -5; tc <= 10; tc++ {
		bet := SuggestedBet(tc, 10, 500, 1000)
		assert.GreaterOrEqual(t, bet, prev)
		prev = bet
	}
}

func TestDecisionTracker(t *testing.T) {
	tr := NewDecisionTracker()

	d := tr.Record(ActionHit, ActionHit)
	assert.True(t, d.Correct)
	assert.Equal(t, 10, d.Points)

	d = tr.Record(ActionHit, ActionDouble)
	assert.True(t, d.Correct)
	assert.Equal(t, 22, d.Points)

	d = tr.Record(ActionStand, ActionHit)
	assert.False(t, d.Correct)
	assert.Equal(t, -20, d.Points)

	cur, best := tr.Streak()
	assert.Equal(t, 0, cur)
	assert.Equal(t, 2, best)
	assert.Equal(t, 12, tr.Score())
	assert.InDelta(t, 2.0/3.0, tr.Accuracy(), 1e-9)

	// A wrong decision ends the streak but keeps the multiplier.
	d = tr.Record(ActionStand, ActionStand)
	assert.Equal(t, 12, d.Points)

	tr.Reset()
	for i := 0; i < 5; i++ {
		d = tr.Record(ActionStand, ActionStand)
	}
	assert.Equal(t, 50, d.Bonus)
}

func TestDecisionTrackerLongStreak(t *testing.T) {
	tr := NewDecisionTracker()
	prev := 0
	for i := 0; i < 100; i++ {
		d := tr.Record(ActionStand, ActionStand)
		require.Positive(t, d.Points, "decision %d", i+1)
		require.GreaterOrEqual(t, d.Points, prev)
		prev = d.Points
	}
	// Doubling stops at 2^20 with the full multiplier.
	assert.Equal(t, 10*(1<<20)*2, prev)
	assert.Positive(t, tr.Score())

	d := tr.Record(ActionStand, ActionHit)
	assert.Equal(t, -10*(1<<20)/2, d.Points)
}
