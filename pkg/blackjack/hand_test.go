package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cards(ranks ...Rank) []Card {
	out := make([]Card, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, NewCard(r, Hearts, HiLo))
	}
	return out
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		hand  []Card
		value int
		soft  bool
	}{
		{"two aces and nine", cards(Ace, Ace, Nine), 21, true},
		{"ace nine", cards(Ace, Nine), 20, true},
		{"king queen", cards(King, Queen), 20, false},
		{"three aces and eight", cards(Ace, Ace, Ace, Eight), 21, true},
		{"ace six ten", cards(Ace, Six, Ten), 17, false},
		{"four aces", cards(Ace, Ace, Ace, Ace), 14, true},
		{"bust", cards(King, Six, Nine), 25, false},
		{"empty", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, HandValue(tt.hand))
			assert.Equal(t, tt.soft, IsSoft(tt.hand))
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, IsBlackjack(cards(Ace, King)))
	assert.True(t, IsBlackjack(cards(Ten, Ace)))
	assert.False(t, IsBlackjack(cards(Ace, Five, Five)))
	assert.Equal(t, 21, HandValue(cards(Ace, Five, Five)))
	assert.False(t, IsBlackjack(cards(King, Queen)))
}

func TestIsBusted(t *testing.T) {
	assert.True(t, IsBusted(cards(King, Queen, Two)))
	assert.False(t, IsBusted(cards(Ace, King, Queen)))
}

func TestCanSplit(t *testing.T) {
	assert.True(t, CanSplit(cards(Eight, Eight), false))
	assert.True(t, CanSplit(cards(King, King), false))
	assert.False(t, CanSplit(cards(King, Queen), false))
	assert.True(t, CanSplit(cards(King, Queen), true))
	assert.False(t, CanSplit(cards(Eight, Eight, Two), false))
	assert.False(t, CanSplit(cards(Ace, Nine), true))
}

func TestCanDouble(t *testing.T) {
	assert.True(t, CanDouble(cards(Six, Five), 10, 10))
	assert.False(t, CanDouble(cards(Six, Five), 9, 10))
	assert.False(t, CanDouble(cards(Six, Three, Two), 100, 10))
}

func TestDoubleRules(t *testing.T) {
	rules := DefaultRules()
	h := &Hand{Cards: cards(Six, Five), Bet: 10}
	assert.True(t, rules.CanDoubleHand(h, 10))

	rules.DoubleRule = DoubleTenElev
	assert.True(t, rules.CanDoubleHand(h, 10))
	h.Cards = cards(Five, Four)
	assert.False(t, rules.CanDoubleHand(h, 10))

	rules.DoubleRule = DoubleAnyTwo
	rules.DoubleAfterSplit = false
	h.IsSplit = true
	assert.False(t, rules.CanDoubleHand(h, 10))
}

func TestHandActiveAdvancesThroughSplits(t *testing.T) {
	h := &Hand{SplitHands: []*Hand{
		{Cards: cards(Eight, Three), Bet: 10, IsSplit: true},
		{Cards: cards(Eight, King), Bet: 10, IsSplit: true},
	}}
	assert.Same(t, h.SplitHands[0], h.Active())
	h.SplitHands[0].Stood = true
	assert.Same(t, h.SplitHands[1], h.Active())
	assert.False(t, h.Done())
	h.SplitHands[1].Stood = true
	assert.True(t, h.Done())
	assert.Equal(t, int64(20), h.TotalBet())
}
