package blackjack

import "errors"

var (
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrInvalidBet       = errors.New("invalid bet")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrSeatTaken        = errors.New("seat already taken")
	ErrAlreadyDecided   = errors.New("decision already made")
	ErrInvalidAction    = errors.New("invalid action")
	ErrInvalidInsurance = errors.New("invalid insurance stake")
)
