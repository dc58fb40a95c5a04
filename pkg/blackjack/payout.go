package blackjack

// Resolution is the settled result of one hand. Net is the chip change
// relative to the stake; Returned is what goes back to the player's stack
// (stake plus winnings).
type Resolution struct {
	Outcome  Outcome
	Net      int64
	Returned int64
}

// ResolveHand settles a hand against the dealer's final cards.
func ResolveHand(h *Hand, dealer []Card, ratio PayoutRatio) Resolution {
	bet := h.Bet
	playerTotal := h.Value()
	dealerTotal := HandValue(dealer)
	natural := h.IsNatural()
	dealerNatural := IsBlackjack(dealer)

	var res Resolution
	switch {
	case h.Surrendered:
		half := bet / 2
		res = Resolution{Outcome: OutcomeSurrender, Net: -(bet - half), Returned: half}
	case playerTotal > 21:
		res = Resolution{Outcome: OutcomeBust, Net: -bet}
	case natural && dealerNatural:
		res = Resolution{Outcome: OutcomePush, Returned: bet}
	case natural:
		win := ratio.Winnings(bet)
		res = Resolution{Outcome: OutcomeBlackjack, Net: win, Returned: bet + win}
	case dealerNatural:
		res = Resolution{Outcome: OutcomeLose, Net: -bet}
	case dealerTotal > 21, playerTotal > dealerTotal:
		res = Resolution{Outcome: OutcomeWin, Net: bet, Returned: 2 * bet}
	case playerTotal == dealerTotal:
		res = Resolution{Outcome: OutcomePush, Returned: bet}
	default:
		res = Resolution{Outcome: OutcomeLose, Net: -bet}
	}
	h.Result = res.Outcome
	return res
}

// InsuranceNet returns the chip change of an insurance stake: 2:1 when the
// dealer has blackjack, the stake lost otherwise.
func InsuranceNet(stake int64, dealerBlackjack bool) int64 {
	if dealerBlackjack {
		return 2 * stake
	}
	return -stake
}
