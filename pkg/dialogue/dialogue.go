// Package dialogue supplies the lines spoken at the table. The engine only
// decides when someone speaks; what they say comes from a Provider.
package dialogue

import (
	"fmt"
	"math/rand"
	"sync"
)

// Category groups lines by the moment they are spoken in.
type Category string

const (
	Opener         Category = "opener"
	SmallTalk      Category = "small_talk"
	DealerQuestion Category = "dealer_question"
	PlayerQuestion Category = "player_question"
	HeatMoment     Category = "heat_moment"
	Exit           Category = "exit"

	SuspicionLow    Category = "suspicion_low"
	SuspicionMedium Category = "suspicion_medium"
	SuspicionHigh   Category = "suspicion_high"
	CallingPitBoss  Category = "calling_pit_boss"

	PitBossApproach Category = "pit_boss_approach"

	Blackjack Category = "blackjack"
	Bust      Category = "bust"
	BigWin    Category = "big_win"
)

// Generic is the fallback speaker consulted when a speaker has no lines in
// a category.
const Generic = "generic"

// PitBoss is the speaker key of pit boss lines.
const PitBoss = "pit-boss"

// Line is one spoken line. ID is stable for a given pool.
type Line struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Provider picks a line for a speaker.
type Provider interface {
	Line(speaker string, cat Category, rng *rand.Rand) (Line, bool)
}

// CommentCategory maps a dealer suspicion tier to its comment category.
func CommentCategory(tier int) Category {
	switch {
	case tier >= 80:
		return CallingPitBoss
	case tier >= 60:
		return SuspicionHigh
	case tier >= 30:
		return SuspicionMedium
	default:
		return SuspicionLow
	}
}

// Pool is an in-memory Provider.
type Pool struct {
	mtx   sync.RWMutex
	lines map[string]map[Category][]string
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{lines: make(map[string]map[Category][]string)}
}

// Add appends lines for the speaker and category.
func (p *Pool) Add(speaker string, cat Category, text ...string) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	byCat, ok := p.lines[speaker]
	if !ok {
		byCat = make(map[Category][]string)
		p.lines[speaker] = byCat
	}
	byCat[cat] = append(byCat[cat], text...)
}

// Line returns a random line for the speaker, falling back to the generic
// speaker.
func (p *Pool) Line(speaker string, cat Category, rng *rand.Rand) (Line, bool) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	for _, s := range []string{speaker, Generic} {
		pool := p.lines[s][cat]
		if len(pool) == 0 {
			continue
		}
		i := rng.Intn(len(pool))
		return Line{ID: fmt.Sprintf("%s/%s/%d", s, cat, i), Text: pool[i]}, true
	}
	return Line{}, false
}
