package blackjack

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits and Ranks list every suit and rank in deck order.
var (
	Suits = []Suit{Spades, Hearts, Diamonds, Clubs}
	Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
)

// Points returns the blackjack value of the rank with aces counted as 11.
func (r Rank) Points() int {
	switch r {
	case Ace:
		return 11
	case Ten, Jack, Queen, King:
		return 10
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	}
	return 0
}

// IsTenValue reports whether the rank is worth ten.
func (r Rank) IsTenValue() bool {
	return r.Points() == 10
}

// Card represents a playing card. Cards are immutable once built.
type Card struct {
	rank     Rank
	suit     Suit
	countTag int

	// shoe is the generation of the shoe the card was dealt from. Zero means
	// the card did not come out of a Shoe.
	shoe uint32
}

// NewCard builds a card tagged under the given counting system.
func NewCard(rank Rank, suit Suit, system CountingSystem) Card {
	return Card{rank: rank, suit: suit, countTag: system.Tag(rank)}
}

// Rank returns the card's rank
func (c Card) Rank() Rank {
	return c.rank
}

// Suit returns the card's suit
func (c Card) Suit() Suit {
	return c.suit
}

// CountTag returns the card's contribution to the running count.
func (c Card) CountTag() int {
	return c.countTag
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.rank == Ace
}

// String returns a string representation of the card
func (c Card) String() string {
	return string(c.rank) + string(c.suit)
}

// CardJSON represents a card for JSON serialization
type CardJSON struct {
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Count int    `json:"count"`
}

// MarshalJSON implements json.Marshaler interface for Card
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(CardJSON{
		Rank:  string(c.rank),
		Suit:  string(c.suit),
		Count: c.countTag,
	})
}

// UnmarshalJSON implements json.Unmarshaler interface for Card
func (c *Card) UnmarshalJSON(data []byte) error {
	var cardJSON CardJSON
	if err := json.Unmarshal(data, &cardJSON); err != nil {
		return err
	}

	switch cardJSON.Suit {
	case "♠", "s", "S", "spades", "Spades":
		c.suit = Spades
	case "♥", "h", "H", "hearts", "Hearts":
		c.suit = Hearts
	case "♦", "d", "D", "diamonds", "Diamonds":
		c.suit = Diamonds
	case "♣", "c", "C", "clubs", "Clubs":
		c.suit = Clubs
	default:
		return fmt.Errorf("invalid suit: %s", cardJSON.Suit)
	}

	rank, err := ParseRank(cardJSON.Rank)
	if err != nil {
		return err
	}
	c.rank = rank
	c.countTag = cardJSON.Count
	return nil
}

// ParseRank converts a textual rank ("A", "t", "10", "king", ...) to a Rank.
func ParseRank(s string) (Rank, error) {
	switch s {
	case "A", "a", "ace", "Ace":
		return Ace, nil
	case "K", "k", "king", "King":
		return King, nil
	case "Q", "q", "queen", "Queen":
		return Queen, nil
	case "J", "j", "jack", "Jack":
		return Jack, nil
	case "10", "T", "t", "ten", "Ten":
		return Ten, nil
	case "9":
		return Nine, nil
	case "8":
		return Eight, nil
	case "7":
		return Seven, nil
	case "6":
		return Six, nil
	case "5":
		return Five, nil
	case "4":
		return Four, nil
	case "3":
		return Three, nil
	case "2":
		return Two, nil
	}
	return "", fmt.Errorf("invalid rank: %s", s)
}
