package blackjack

import (
	"math/rand"
)

// Action is a playing decision.
type Action string

const (
	ActionHit       Action = "H"
	ActionStand     Action = "S"
	ActionDouble    Action = "D"
	ActionSplit     Action = "SP"
	ActionSurrender Action = "SU"
)

// String returns a readable action name.
func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	case ActionSplit:
		return "split"
	case ActionSurrender:
		return "surrender"
	}
	return string(a)
}

// Options describes which optional actions are legal for the hand.
type Options struct {
	CanSplit     bool
	CanDouble    bool
	CanSurrender bool
}

// Table cells, one per dealer up card 2..9, ten, ace:
//
//	H hit, S stand, D double else hit, d double else stand,
//	R surrender else hit, P split, '.' no split.
var (
	hardTable = map[int]string{
		9:  "HDDDDHHHHH",
		10: "DDDDDDDDHH",
		11: "DDDDDDDDDD",
		12: "HHSSSHHHHH",
		13: "SSSSSHHHHH",
		14: "SSSSSHHHHH",
		15: "SSSSSHHHRH",
		16: "SSSSSHHRRR",
	}
	hardTableS17 = map[int]string{
		11: "DDDDDDDDDH",
	}
	hardTableH17 = map[int]string{
		15: "SSSSSHHHRR",
	}

	softTable = map[int]string{
		13: "HHHDDHHHHH",
		14: "HHHDDHHHHH",
		15: "HHDDDHHHHH",
		16: "HHDDDHHHHH",
		17: "HDDDDHHHHH",
		18: "dddddSSHHH",
		19: "SSSSdSSSSS",
	}
	softTableS17 = map[int]string{
		18: "SddddSSHHH",
		19: "SSSSSSSSSS",
	}

	pairTableDAS = map[int]string{
		2:  "PPPPPP....",
		3:  "PPPPPP....",
		4:  "...PP.....",
		6:  "PPPPP.....",
		7:  "PPPPPP....",
		8:  "PPPPPPPPPP",
		9:  "PPPPP.PP..",
		11: "PPPPPPPPPP",
	}
	pairTableNoDAS = map[int]string{
		2:  "..PPPP....",
		3:  "..PPPP....",
		6:  ".PPPP.....",
		7:  "PPPPPP....",
		8:  "PPPPPPPPPP",
		9:  "PPPPP.PP..",
		11: "PPPPPPPPPP",
	}
)

func upCardIndex(up Card) int {
	return up.rank.Points() - 2
}

func lookup(tables []map[int]string, key, col int) (byte, bool) {
	for _, t := range tables {
		if row, ok := t[key]; ok {
			return row[col], true
		}
	}
	return 0, false
}

// BasicStrategyAction returns the basic strategy play for the hand against
// the dealer up card. It is a pure table lookup: pairs first, then soft
// totals, then hard totals.
func BasicStrategyAction(cards []Card, upCard Card, rules Rules, opts Options) Action {
	col := upCardIndex(upCard)
	if col < 0 || col > 9 {
		return ActionStand
	}

	if opts.CanSplit && len(cards) == 2 && cards[0].rank.Points() == cards[1].rank.Points() {
		pairs := pairTableNoDAS
		if rules.DoubleAfterSplit {
			pairs = pairTableDAS
		}
		if cell, ok := lookup([]map[int]string{pairs}, cards[0].rank.Points(), col); ok && cell == 'P' {
			return ActionSplit
		}
	}

	total := HandValue(cards)
	var (
		cell byte
		ok   bool
	)
	if IsSoft(cards) {
		if total >= 20 {
			return ActionStand
		}
		tables := []map[int]string{softTable}
		if !rules.DealerHitsSoft17 {
			tables = []map[int]string{softTableS17, softTable}
		}
		cell, ok = lookup(tables, total, col)
	} else {
		if total >= 17 {
			return ActionStand
		}
		tables := []map[int]string{hardTableH17, hardTable}
		if !rules.DealerHitsSoft17 {
			tables = []map[int]string{hardTableS17, hardTable}
		}
		cell, ok = lookup(tables, total, col)
	}
	if !ok {
		return ActionHit
	}

	switch cell {
	case 'S':
		return ActionStand
	case 'D':
		if opts.CanDouble {
			return ActionDouble
		}
		return ActionHit
	case 'd':
		if opts.CanDouble {
			return ActionDouble
		}
		return ActionStand
	case 'R':
		if opts.CanSurrender {
			return ActionSurrender
		}
		return ActionHit
	}
	return ActionHit
}

// DecideActorAction picks an automated actor's play. A recommended double is
// played as a hit. The actor follows the recommendation when a draw from
// [0,100) falls below its skill level and otherwise hits below 17.
func DecideActorAction(skillLevel int, recommended Action, cards []Card, rng *rand.Rand) Action {
	if recommended == ActionDouble {
		recommended = ActionHit
	}
	if rng.Intn(100) < skillLevel {
		return recommended
	}
	if HandValue(cards) < 17 {
		return ActionHit
	}
	return ActionStand
}

// betUnits maps the floored true count to a bet ramp in table minimums.
func betUnits(trueCount int) int64 {
	switch {
	case trueCount <= 0:
		return 1
	case trueCount == 1:
		return 2
	case trueCount == 2:
		return 4
	case trueCount == 3:
		return 6
	}
	return 8
}

// SuggestedBet returns the bet a counter would place at the given floored
// true count, within [minBet, min(maxBet, chips)].
func SuggestedBet(trueCount int, minBet, maxBet, chips int64) int64 {
	bet := betUnits(trueCount) * minBet
	if bet > maxBet {
		bet = maxBet
	}
	if bet < minBet {
		bet = minBet
	}
	if bet > chips {
		bet = chips
	}
	return bet
}
