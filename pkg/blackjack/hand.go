package blackjack

// HandValue returns the best total of the cards. Aces count 11 and are
// reduced to 1, one at a time, while the total is over 21.
func HandValue(cards []Card) int {
	total, _ := evaluate(cards)
	return total
}

// IsSoft reports whether at least one ace is still counted as 11.
func IsSoft(cards []Card) bool {
	_, softAces := evaluate(cards)
	return softAces > 0
}

// IsBlackjack reports a two card 21.
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

// IsBusted reports a total over 21.
func IsBusted(cards []Card) bool {
	return HandValue(cards) > 21
}

// CanSplit reports whether the two cards form a pair. Ten-value cards of
// different ranks only pair when splitTenValues is set.
func CanSplit(cards []Card, splitTenValues bool) bool {
	if len(cards) != 2 {
		return false
	}
	a, b := cards[0].rank, cards[1].rank
	if a == b {
		return true
	}
	return splitTenValues && a.IsTenValue() && b.IsTenValue()
}

// CanDouble reports whether a two card hand can be doubled with the chips
// left behind the bet.
func CanDouble(cards []Card, chips, bet int64) bool {
	return len(cards) == 2 && chips >= bet
}

func evaluate(cards []Card) (total, softAces int) {
	for _, c := range cards {
		total += c.rank.Points()
		if c.rank == Ace {
			softAces++
		}
	}
	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}
	return total, softAces
}

// Outcome is the result tag of a resolved hand.
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"
	OutcomeBust      Outcome = "BUST"
	OutcomeSurrender Outcome = "SURRENDER"
)

// Hand is a player or dealer hand. After a split the hand itself holds no
// cards and play moves to SplitHands.
type Hand struct {
	Cards            []Card
	Bet              int64
	IsSplit          bool // true on the two hands created by a split
	SplitHands       []*Hand
	ActiveSplitIndex int
	Doubled          bool
	Surrendered      bool
	Stood            bool
	Result           Outcome
}

// Value returns the hand total.
func (h *Hand) Value() int {
	return HandValue(h.Cards)
}

// IsNatural reports a two card 21 that did not come from a split.
func (h *Hand) IsNatural() bool {
	return !h.IsSplit && IsBlackjack(h.Cards)
}

// HasSplit reports whether the hand was replaced by split hands.
func (h *Hand) HasSplit() bool {
	return len(h.SplitHands) > 0
}

// Done reports whether the hand takes no more cards.
func (h *Hand) Done() bool {
	if h.HasSplit() {
		for _, sh := range h.SplitHands {
			if !sh.Done() {
				return false
			}
		}
		return true
	}
	return h.Stood || h.Doubled || h.Surrendered || HandValue(h.Cards) >= 21
}

// Active returns the hand currently being played: the hand itself or the
// active split hand.
func (h *Hand) Active() *Hand {
	if !h.HasSplit() {
		return h
	}
	for h.ActiveSplitIndex < len(h.SplitHands)-1 && h.SplitHands[h.ActiveSplitIndex].Done() {
		h.ActiveSplitIndex++
	}
	return h.SplitHands[h.ActiveSplitIndex]
}

// Playable returns the hands that are resolved against the dealer.
func (h *Hand) Playable() []*Hand {
	if h.HasSplit() {
		return h.SplitHands
	}
	return []*Hand{h}
}

// TotalBet returns the chips staked across the hand and its split hands.
func (h *Hand) TotalBet() int64 {
	var total int64
	for _, ph := range h.Playable() {
		total += ph.Bet
	}
	return total
}
