package suspicion

import "math/rand"

// Personality drives a dealer's reporting behaviour and dialogue.
type Personality string

const (
	Counter   Personality = "counter"
	Rookie    Personality = "rookie"
	Strict    Personality = "strict"
	Friendly  Personality = "friendly"
	Oblivious Personality = "oblivious"
	Veteran   Personality = "veteran"
)

// NeverReports is the reporting threshold of dealers that never escalate.
const NeverReports = 999

var reportingThresholds = map[Personality]float64{
	Counter:   NeverReports,
	Rookie:    NeverReports,
	Oblivious: NeverReports,
	Friendly:  90,
	Veteran:   75,
	Strict:    60,
}

// DealerCharacter describes a dealer. It does not change while the dealer is
// at the table.
type DealerCharacter struct {
	ID                  string      `json:"id" yaml:"id"`
	Name                string      `json:"name" yaml:"name"`
	Nickname            string      `json:"nickname" yaml:"nickname"`
	Personality         Personality `json:"personality" yaml:"personality"`
	DetectionSkill      int         `json:"detectionSkill" yaml:"detectionSkill"`
	OnPlayerSide        bool        `json:"onPlayerSide" yaml:"onPlayerSide"`
	DealSpeedMultiplier float64     `json:"dealSpeedMultiplier" yaml:"dealSpeedMultiplier"`

	// ReportingThreshold overrides the personality default when non-zero.
	ReportingThreshold float64 `json:"reportingThreshold,omitempty" yaml:"reportingThreshold,omitempty"`
}

// Threshold returns the dealer suspicion at which the dealer reports the
// player to the pit boss.
func (d DealerCharacter) Threshold() float64 {
	if d.ReportingThreshold > 0 {
		return d.ReportingThreshold
	}
	if t, ok := reportingThresholds[d.Personality]; ok {
		return t
	}
	return NeverReports
}

// DefaultDealers is the stock dealer roster.
var DefaultDealers = []DealerCharacter{
	{ID: "maria-counter", Name: "Maria", Nickname: "The Ex-Counter", Personality: Counter,
		DetectionSkill: 95, OnPlayerSide: true, DealSpeedMultiplier: 1.0},
	{ID: "rookie-jenny", Name: "Jenny", Nickname: "The Rookie", Personality: Rookie,
		DetectionSkill: 15, DealSpeedMultiplier: 0.8},
	{ID: "strict-harold", Name: "Harold", Nickname: "By The Book", Personality: Strict,
		DetectionSkill: 85, DealSpeedMultiplier: 1.3},
	{ID: "friendly-marcus", Name: "Marcus", Nickname: "Smooth Operator", Personality: Friendly,
		DetectionSkill: 40, OnPlayerSide: true, DealSpeedMultiplier: 1.1},
	{ID: "oblivious-frank", Name: "Frank", Nickname: "Daydreamer", Personality: Oblivious,
		DetectionSkill: 10, DealSpeedMultiplier: 0.9},
	{ID: "veteran-lisa", Name: "Lisa", Nickname: "Eagle Eye", Personality: Veteran,
		DetectionSkill: 70, DealSpeedMultiplier: 1.2},
}

// PickDealer picks a random dealer from roster, avoiding excludeID when
// another dealer is available.
func PickDealer(rng *rand.Rand, roster []DealerCharacter, excludeID string) DealerCharacter {
	candidates := make([]DealerCharacter, 0, len(roster))
	for _, d := range roster {
		if d.ID != excludeID {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		candidates = roster
	}
	return candidates[rng.Intn(len(candidates))]
}

// FindDealer returns the roster entry with the id.
func FindDealer(roster []DealerCharacter, id string) (DealerCharacter, bool) {
	for _, d := range roster {
		if d.ID == id {
			return d, true
		}
	}
	return DealerCharacter{}, false
}
