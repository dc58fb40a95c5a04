package blackjack

import (
	"errors"
	"fmt"
)

// PayoutRatio is the price paid on a natural blackjack.
type PayoutRatio string

const (
	Payout3to2 PayoutRatio = "3:2"
	Payout6to5 PayoutRatio = "6:5"
	Payout2to1 PayoutRatio = "2:1"
	Payout1to1 PayoutRatio = "1:1"
)

func (p PayoutRatio) fraction() (num, den int64, ok bool) {
	switch p {
	case Payout3to2:
		return 3, 2, true
	case Payout6to5:
		return 6, 5, true
	case Payout2to1:
		return 2, 1, true
	case Payout1to1:
		return 1, 1, true
	}
	return 0, 0, false
}

// Winnings returns the amount won on bet at this ratio. Fractional chips are
// rounded down.
func (p PayoutRatio) Winnings(bet int64) int64 {
	num, den, ok := p.fraction()
	if !ok {
		num, den = 3, 2
	}
	return bet * num / den
}

// DoubleRule restricts which two card totals may be doubled.
type DoubleRule string

const (
	DoubleAnyTwo     DoubleRule = "ANY_TWO_CARDS"
	DoubleNineToElev DoubleRule = "9_10_11"
	DoubleTenElev    DoubleRule = "10_11"
	DoubleNotAllowed DoubleRule = "NOT_ALLOWED"
)

// Allows reports whether a hand with the given total may double.
func (d DoubleRule) Allows(total int) bool {
	switch d {
	case DoubleNineToElev:
		return total >= 9 && total <= 11
	case DoubleTenElev:
		return total == 10 || total == 11
	case DoubleNotAllowed:
		return false
	}
	return true
}

// Rules holds the table configuration consumed by the round engine.
type Rules struct {
	NumDecks           int            `yaml:"decks" json:"decks"`
	Penetration        int            `yaml:"penetration" json:"penetration"`
	DealerHitsSoft17   bool           `yaml:"dealerHitsSoft17" json:"dealerHitsSoft17"`
	BlackjackPayout    PayoutRatio    `yaml:"blackjackPayout" json:"blackjackPayout"`
	DoubleAfterSplit   bool           `yaml:"doubleAfterSplit" json:"doubleAfterSplit"`
	LateSurrender      bool           `yaml:"lateSurrender" json:"lateSurrender"`
	InsuranceAvailable bool           `yaml:"insurance" json:"insurance"`
	CountingSystem     CountingSystem `yaml:"countingSystem" json:"countingSystem"`
	DoubleRule         DoubleRule     `yaml:"doubleRule" json:"doubleRule"`
	SplitTenValues     bool           `yaml:"splitTenValues" json:"splitTenValues"`
	MinBet             int64          `yaml:"minBet" json:"minBet"`
	MaxBet             int64          `yaml:"maxBet" json:"maxBet"`
	MinDecksRemaining  float64        `yaml:"minDecksRemaining" json:"minDecksRemaining"`
}

// DefaultRules returns the standard six deck game: dealer hits soft 17, 3:2
// blackjacks, double any two with double after split, no surrender.
func DefaultRules() Rules {
	return Rules{
		NumDecks:           6,
		Penetration:        75,
		DealerHitsSoft17:   true,
		BlackjackPayout:    Payout3to2,
		DoubleAfterSplit:   true,
		LateSurrender:      false,
		InsuranceAvailable: true,
		CountingSystem:     HiLo,
		DoubleRule:         DoubleAnyTwo,
		MinBet:             10,
		MaxBet:             500,
		MinDecksRemaining:  defaultMinDecksRemaining,
	}
}

// Presets are named rule sets offered by the settings layer.
var Presets = map[string]func() Rules{
	"vegas-strip": func() Rules {
		r := DefaultRules()
		r.NumDecks = 6
		r.DealerHitsSoft17 = false
		r.LateSurrender = true
		return r
	},
	"single-deck": func() Rules {
		r := DefaultRules()
		r.NumDecks = 1
		r.Penetration = 65
		r.DoubleRule = DoubleTenElev
		r.DoubleAfterSplit = false
		return r
	},
	"double-deck": func() Rules {
		r := DefaultRules()
		r.NumDecks = 2
		r.Penetration = 70
		return r
	},
	"european": func() Rules {
		r := DefaultRules()
		r.DealerHitsSoft17 = false
		r.DoubleRule = DoubleNineToElev
		r.DoubleAfterSplit = false
		r.InsuranceAvailable = false
		return r
	},
	"bad-rules": func() Rules {
		r := DefaultRules()
		r.NumDecks = 8
		r.Penetration = 50
		r.BlackjackPayout = Payout6to5
		r.DoubleRule = DoubleTenElev
		r.DoubleAfterSplit = false
		return r
	},
}

var validDecks = map[int]bool{1: true, 2: true, 4: true, 6: true, 8: true}

// Validate checks the rules against the supported configuration space.
func (r Rules) Validate() error {
	var errs []error
	if !validDecks[r.NumDecks] {
		errs = append(errs, fmt.Errorf("decks must be 1, 2, 4, 6 or 8, got %d", r.NumDecks))
	}
	if r.Penetration < MinPenetration || r.Penetration > MaxPenetration {
		errs = append(errs, fmt.Errorf("penetration must be within [%d,%d], got %d",
			MinPenetration, MaxPenetration, r.Penetration))
	}
	if _, _, ok := r.BlackjackPayout.fraction(); !ok {
		errs = append(errs, fmt.Errorf("unknown blackjack payout %q", string(r.BlackjackPayout)))
	}
	if err := r.CountingSystem.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch r.DoubleRule {
	case DoubleAnyTwo, DoubleNineToElev, DoubleTenElev, DoubleNotAllowed:
	default:
		errs = append(errs, fmt.Errorf("unknown double rule %q", string(r.DoubleRule)))
	}
	if r.MinBet <= 0 || r.MaxBet < r.MinBet {
		errs = append(errs, fmt.Errorf("invalid bet limits [%d,%d]", r.MinBet, r.MaxBet))
	}
	return errors.Join(errs...)
}

// CanDoubleHand combines CanDouble with the table's double restrictions.
func (r Rules) CanDoubleHand(h *Hand, chips int64) bool {
	if h.IsSplit && !r.DoubleAfterSplit {
		return false
	}
	return CanDouble(h.Cards, chips, h.Bet) && r.DoubleRule.Allows(HandValue(h.Cards))
}

// ValidateBet checks a bet against the table limits and the chips available.
func (r Rules) ValidateBet(amount, chips int64) error {
	switch {
	case amount < r.MinBet:
		return fmt.Errorf("%w: %d is below the table minimum %d", ErrInvalidBet, amount, r.MinBet)
	case amount > r.MaxBet:
		return fmt.Errorf("%w: %d is above the table maximum %d", ErrInvalidBet, amount, r.MaxBet)
	case amount > chips:
		return fmt.Errorf("%w: %d exceeds available chips %d", ErrInvalidBet, amount, chips)
	}
	return nil
}
