package blackjack

import "fmt"

// CountingSystem selects the tag each rank contributes to the running count.
type CountingSystem string

const (
	HiLo    CountingSystem = "HI_LO"
	KO      CountingSystem = "KO"
	HiOptI  CountingSystem = "HI_OPT_I"
	HiOptII CountingSystem = "HI_OPT_II"
	OmegaII CountingSystem = "OMEGA_II"
)

// CountingSystems lists the supported systems.
var CountingSystems = []CountingSystem{HiLo, KO, HiOptI, HiOptII, OmegaII}

// countTags is indexed by rank points (2..11, ace is 11).
var countTags = map[CountingSystem][12]int{
	//          0  1  2  3  4  5  6  7  8  9 10  A
	HiLo:    {0, 0, 1, 1, 1, 1, 1, 0, 0, 0, -1, -1},
	KO:      {0, 0, 1, 1, 1, 1, 1, 1, 0, 0, -1, -1},
	HiOptI:  {0, 0, 0, 1, 1, 1, 1, 0, 0, 0, -1, 0},
	HiOptII: {0, 0, 1, 1, 2, 2, 1, 1, 0, 0, -2, 0},
	OmegaII: {0, 0, 1, 1, 2, 2, 2, 1, 0, -1, -2, 0},
}

// Tag returns the count contribution of rank under the system. Unknown
// systems fall back to Hi-Lo.
func (s CountingSystem) Tag(r Rank) int {
	tags, ok := countTags[s]
	if !ok {
		tags = countTags[HiLo]
	}
	return tags[r.Points()]
}

// Balanced reports whether a full shoe sums to zero under the system.
func (s CountingSystem) Balanced() bool {
	return s != KO
}

// Validate returns an error for unknown systems.
func (s CountingSystem) Validate() error {
	if _, ok := countTags[s]; !ok {
		return fmt.Errorf("unknown counting system %q", string(s))
	}
	return nil
}
