package table

import "math/rand"

// Character is an automated player personality.
type Character struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Nickname   string `json:"nickname" yaml:"nickname"`
	SkillLevel int    `json:"skillLevel" yaml:"skillLevel"`
}

// DefaultRoster is the stock cast of automated players.
var DefaultRoster = []Character{
	{ID: "drunk-danny", Name: "Danny Martinez", Nickname: "Drunk Danny", SkillLevel: 15},
	{ID: "clumsy-claire", Name: "Claire Thompson", Nickname: "Clumsy Claire", SkillLevel: 35},
	{ID: "chatty-carlos", Name: "Carlos Rodriguez", Nickname: "Chatty Carlos", SkillLevel: 50},
	{ID: "superstitious-susan", Name: "Susan Chen", Nickname: "Lucky Susan", SkillLevel: 40},
	{ID: "cocky-kyle", Name: "Kyle Morrison", Nickname: "Big K", SkillLevel: 25},
	{ID: "nervous-nancy", Name: "Nancy Park", Nickname: "Nervous Nancy", SkillLevel: 60},
	{ID: "lucky-larry", Name: "Larry Goldman", Nickname: "Lucky Larry", SkillLevel: 20},
	{ID: "unlucky-ursula", Name: "Ursula Kowalski", Nickname: "Unlucky Ursula", SkillLevel: 55},
}

// Actor is an automated player placed at a seat.
type Actor struct {
	Character Character `json:"character" yaml:"character"`
	Seat      int       `json:"seat" yaml:"seat"`
	BaseBet   int64     `json:"baseBet,omitempty" yaml:"baseBet,omitempty"`
}

// SeatActors fills seats with distinct characters drawn from roster. Seats
// beyond the roster size are left empty.
func SeatActors(rng *rand.Rand, roster []Character, seats []int) []Actor {
	order := rng.Perm(len(roster))
	actors := make([]Actor, 0, len(seats))
	for i, seat := range seats {
		if i >= len(order) {
			break
		}
		actors = append(actors, Actor{Character: roster[order[i]], Seat: seat})
	}
	return actors
}
