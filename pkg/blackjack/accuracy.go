package blackjack

import "math"

const (
	basePoints     = 10
	maxMultiplier  = 2.0
	multiplierStep = 0.1

	// maxStreakExponent caps the doubling so long streaks saturate instead
	// of overflowing.
	maxStreakExponent = 20
)

var streakBonuses = map[int]int{5: 50, 10: 100, 15: 200, 20: 400, 25: 800}

// IsCorrectAction reports whether played matches optimal. Hitting is accepted
// where a double or surrender was optimal.
func IsCorrectAction(played, optimal Action) bool {
	if played == optimal {
		return true
	}
	return played == ActionHit && (optimal == ActionDouble || optimal == ActionSurrender)
}

// Decision is one graded playing decision.
type Decision struct {
	Played  Action
	Optimal Action
	Correct bool
	Points  int
	Bonus   int
}

// DecisionTracker grades a player's decisions against basic strategy and keeps
// the streak scoring used for feedback.
type DecisionTracker struct {
	total      int
	correct    int
	streak     int
	bestStreak int
	multiplier float64
	score      int
}

// NewDecisionTracker returns a tracker with a neutral multiplier.
func NewDecisionTracker() *DecisionTracker {
	return &DecisionTracker{multiplier: 1}
}

func streakPoints(streak int, multiplier float64) int {
	exp := min(max(streak-1, 0), maxStreakExponent)
	return int(math.Round(basePoints * math.Pow(2, float64(exp)) * multiplier))
}

// Record grades a decision and updates the score.
func (t *DecisionTracker) Record(played, optimal Action) Decision {
	d := Decision{Played: played, Optimal: optimal, Correct: IsCorrectAction(played, optimal)}
	t.total++
	if d.Correct {
		t.correct++
		t.streak++
		if t.streak > t.bestStreak {
			t.bestStreak = t.streak
		}
		d.Points = streakPoints(t.streak, t.multiplier)
		d.Bonus = streakBonuses[t.streak]
		t.multiplier = math.Min(maxMultiplier, t.multiplier+multiplierStep)
	} else {
		d.Points = -streakPoints(t.streak+1, 1) / 2
		t.streak = 0
	}
	t.score += d.Points + d.Bonus
	return d
}

// Accuracy returns the share of correct decisions in [0,1].
func (t *DecisionTracker) Accuracy() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.total)
}

// Decisions returns the number of graded decisions.
func (t *DecisionTracker) Decisions() int {
	return t.total
}

// Streak returns the current and best streaks.
func (t *DecisionTracker) Streak() (current, best int) {
	return t.streak, t.bestStreak
}

// Score returns the accumulated score.
func (t *DecisionTracker) Score() int {
	return t.score
}

// Reset clears the tracker.
func (t *DecisionTracker) Reset() {
	*t = DecisionTracker{multiplier: 1}
}
