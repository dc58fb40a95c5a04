package blackjack

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/decred/slog"
)

const (
	cardsPerDeck = 52

	MinPenetration = 40
	MaxPenetration = 90

	defaultMinDecksRemaining = 0.5
)

// ShoeConfig holds the parameters of a multi-deck shoe.
type ShoeConfig struct {
	Log         slog.Logger
	NumDecks    int
	Penetration int // percent of the shoe dealt before the cut card
	System      CountingSystem

	// MinDecksRemaining floors the true count divisor. Defaults to 0.5.
	MinDecksRemaining float64

	Rng *rand.Rand
}

// Deal is the result of dealing one card. Reshuffled is set when the cut card
// had been reached and the card came from a fresh shoe.
type Deal struct {
	Card       Card
	Reshuffled bool
}

// Shoe owns the cards left to deal along with the running count of the
// current shoe. It is not safe for concurrent use.
type Shoe struct {
	log    slog.Logger
	cfg    ShoeConfig
	rng    *rand.Rand
	cards  []Card
	pos    int
	cut    int
	gen    uint32
	count  int
	shoes  int
	minDks float64
}

// CreateShoe composes numDecks decks and shuffles them with a uniform
// Fisher-Yates permutation.
func CreateShoe(numDecks int, system CountingSystem, rng *rand.Rand) []Card {
	cards := make([]Card, 0, numDecks*cardsPerDeck)
	for d := 0; d < numDecks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, NewCard(rank, suit, system))
			}
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// CutCardPosition returns how many cards are dealt before the cut card comes
// out. Penetration is clamped to [MinPenetration, MaxPenetration].
func CutCardPosition(numDecks, penetration int) int {
	if penetration < MinPenetration {
		penetration = MinPenetration
	}
	if penetration > MaxPenetration {
		penetration = MaxPenetration
	}
	return numDecks * cardsPerDeck * penetration / 100
}

// NewShoe creates a freshly shuffled shoe.
func NewShoe(cfg ShoeConfig) (*Shoe, error) {
	return NewShoeFromCards(cfg, nil)
}

// NewShoeFromCards creates a shoe whose first cards are stacked in the given
// order. The rest of the shoe is filled from a shuffled composition so the
// shoe always holds NumDecks*52 cards.
func NewShoeFromCards(cfg ShoeConfig, stacked []Card) (*Shoe, error) {
	if cfg.NumDecks < 1 {
		return nil, fmt.Errorf("invalid deck count %d", cfg.NumDecks)
	}
	if cfg.System == "" {
		cfg.System = HiLo
	}
	if err := cfg.System.Validate(); err != nil {
		return nil, err
	}
	total := cfg.NumDecks * cardsPerDeck
	if len(stacked) > total {
		return nil, fmt.Errorf("stacked %d cards into a %d card shoe", len(stacked), total)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Disabled
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(rand.Int63()))
	}
	minDecks := cfg.MinDecksRemaining
	if minDecks <= 0 {
		minDecks = defaultMinDecksRemaining
	}

	s := &Shoe{
		log:    cfg.Log,
		cfg:    cfg,
		rng:    cfg.Rng,
		cut:    CutCardPosition(cfg.NumDecks, cfg.Penetration),
		gen:    1,
		minDks: minDecks,
	}
	fill := CreateShoe(cfg.NumDecks, cfg.System, s.rng)
	s.cards = append(append(make([]Card, 0, total), stacked...), fill[len(stacked):]...)
	return s, nil
}

// DealOne deals the next card. When the cut card has been reached the
// current shoe is discarded first and the card comes from a fresh one.
func (s *Shoe) DealOne() Deal {
	var reshuffled bool
	if s.Remaining() <= len(s.cards)-s.cut {
		s.Reshuffle()
		reshuffled = true
	}
	c := s.cards[s.pos]
	c.shoe = s.gen
	s.pos++
	return Deal{Card: c, Reshuffled: reshuffled}
}

// Reveal adds the card's tag to the running count. Cards dealt from an
// earlier shoe are ignored and Reveal reports false for them.
func (s *Shoe) Reveal(c Card) bool {
	if c.shoe != s.gen {
		return false
	}
	s.count += c.countTag
	return true
}

// Reshuffle replaces the shoe with a freshly shuffled one and resets the
// shoe-scoped counters.
func (s *Shoe) Reshuffle() {
	s.cards = CreateShoe(s.cfg.NumDecks, s.cfg.System, s.rng)
	s.pos = 0
	s.count = 0
	s.gen++
	s.shoes++
	s.log.Debugf("Reshuffled shoe %d (%d decks, cut at %d)", s.shoes, s.cfg.NumDecks, s.cut)
}

// NeedsReshuffle reports whether the cut card has come out.
func (s *Shoe) NeedsReshuffle() bool {
	return s.pos >= s.cut
}

// Remaining returns the number of undealt cards.
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.pos
}

// CardsDealt returns the number of cards dealt from the current shoe.
func (s *Shoe) CardsDealt() int {
	return s.pos
}

// CutCard returns the cut card position of the shoe.
func (s *Shoe) CutCard() int {
	return s.cut
}

// ShoesDealt returns how many times the shoe has been replaced.
func (s *Shoe) ShoesDealt() int {
	return s.shoes
}

// NumDecks returns the configured deck count.
func (s *Shoe) NumDecks() int {
	return s.cfg.NumDecks
}

// System returns the counting system used to tag cards.
func (s *Shoe) System() CountingSystem {
	return s.cfg.System
}

// RunningCount returns the running count of the current shoe.
func (s *Shoe) RunningCount() int {
	return s.count
}

// DecksRemaining returns the undealt decks, floored at the configured minimum.
func (s *Shoe) DecksRemaining() float64 {
	return math.Max(s.minDks, float64(s.Remaining())/cardsPerDeck)
}

// TrueCount returns the running count per remaining deck.
func (s *Shoe) TrueCount() float64 {
	return float64(s.count) / s.DecksRemaining()
}

// FlooredTrueCount returns the true count rounded toward negative infinity,
// the form used for bet ramps.
func (s *Shoe) FlooredTrueCount() int {
	return int(math.Floor(s.TrueCount()))
}
