package blackjack

// Player is a seated participant, human or automated. Players persist across
// rounds; the hand is reset every round.
type Player struct {
	ID        string
	Name      string
	Seat      int
	Chips     int64
	Automated bool

	// Automated players only.
	SkillLevel  int
	BaseBet     int64
	CharacterID string

	Hand      *Hand
	Insurance int64
	SatOut    bool
}

// NewPlayer creates a human player.
func NewPlayer(id, name string, seat int, chips int64) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Seat:  seat,
		Chips: chips,
		Hand:  &Hand{},
	}
}

// NewAutomatedPlayer creates a computer controlled player.
func NewAutomatedPlayer(id, name string, seat int, chips int64, skillLevel int, baseBet int64) *Player {
	p := NewPlayer(id, name, seat, chips)
	p.Automated = true
	p.SkillLevel = skillLevel
	p.BaseBet = baseBet
	return p
}

// InRound reports whether the player has a bet in the current round.
func (p *Player) InRound() bool {
	return p.Hand != nil && p.Hand.TotalBet() > 0
}

func (p *Player) resetHand() {
	p.Hand = &Hand{}
	p.Insurance = 0
	p.SatOut = false
}
