package table

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/dialogue"
	"github.com/vctt94/cardcounter/pkg/suspicion"
)

const human = "alice"

func watchers(t *testing.T) []suspicion.DealerCharacter {
	t.Helper()
	var out []suspicion.DealerCharacter
	for _, id := range []string{"strict-harold", "veteran-lisa"} {
		d, ok := suspicion.FindDealer(suspicion.DefaultDealers, id)
		require.True(t, ok)
		out = append(out, d)
	}
	return out
}

func newTestTable(t *testing.T, mutate func(*Config)) *Table {
	t.Helper()
	rules := blackjack.DefaultRules()
	rules.InsuranceAvailable = false
	rng := rand.New(rand.NewSource(42))
	cfg := Config{
		ID:         "t1",
		Rules:      rules,
		Rng:        rng,
		Dealers:    watchers(t),
		ActorChips: 100000,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	tb, err := NewTable(cfg)
	require.NoError(t, err)
	require.NoError(t, tb.Join(human, "Alice", 3, 100000))
	return tb
}

// playHand bets (or sits out when bet is zero), stands on every decision and
// moves on to the next hand.
func playHand(t *testing.T, tb *Table, bet int64) {
	t.Helper()
	if bet > 0 {
		require.NoError(t, tb.PlaceBet(human, bet))
	} else {
		require.NoError(t, tb.SitOut(human))
	}
	for i := 0; i < 20 && tb.Phase() != blackjack.PhaseRoundEnd; i++ {
		switch tb.Phase() {
		case blackjack.PhaseInsurance:
			require.NoError(t, tb.Insure(human, 0))
		case blackjack.PhasePlayerTurn:
			require.NoError(t, tb.Act(human, blackjack.ActionStand))
		default:
			t.Fatalf("round stuck in %s", tb.Phase())
		}
	}
	require.Equal(t, blackjack.PhaseRoundEnd, tb.Phase())
	require.NoError(t, tb.NextHand())
	require.Equal(t, blackjack.PhaseBetting, tb.Phase())
}

func TestPlayHandsRecordsStats(t *testing.T) {
	tb := newTestTable(t, func(c *Config) {
		c.Actors = SeatActors(rand.New(rand.NewSource(1)), DefaultRoster, []int{0, 5})
	})

	playHand(t, tb, 10)
	playHand(t, tb, 0)
	playHand(t, tb, 40)

	stats := tb.Stats()
	assert.Equal(t, 2, stats.HandsPlayed)
	assert.Equal(t, 1, stats.HandsSatOut)
	assert.Equal(t, 2, stats.Wins+stats.Losses+stats.Pushes)

	points, buckets, _ := tb.HeatMap()
	assert.Len(t, points, 3)
	assert.NotEmpty(t, buckets)
	assert.Equal(t, int64(0), points[1].Bet)

	snap := tb.Snapshot()
	assert.Equal(t, human, snap.HumanID)
	assert.Len(t, snap.Round.Players, 3)
	assert.Equal(t, 4, snap.Round.Round)
}

func TestJoinAndLeave(t *testing.T) {
	tb := newTestTable(t, nil)
	assert.ErrorIs(t, tb.Join("bob", "Bob", 4, 100), ErrOccupied)

	tb.detector.Interaction(suspicion.Ignored, true)
	require.NotZero(t, tb.detector.State().DealerSuspicion)

	_, err := tb.Leave("bob")
	assert.ErrorIs(t, err, blackjack.ErrUnknownPlayer)

	p, err := tb.Leave(human)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), p.Chips)
	assert.Zero(t, tb.detector.State().DealerSuspicion)
	assert.Empty(t, tb.HumanID())

	require.NoError(t, tb.Join("bob", "Bob", 4, 100))
}

func TestActRejectsIneligibleDouble(t *testing.T) {
	tb := newTestTable(t, nil)
	for hand := 0; hand < 100; hand++ {
		require.NoError(t, tb.PlaceBet(human, 10))
		if tb.Phase() == blackjack.PhasePlayerTurn {
			require.NoError(t, tb.Act(human, blackjack.ActionHit))
			if tb.Phase() == blackjack.PhasePlayerTurn {
				err := tb.Act(human, blackjack.ActionDouble)
				assert.ErrorIs(t, err, blackjack.ErrInvalidAction)
				return
			}
		}
		for tb.Phase() == blackjack.PhasePlayerTurn {
			require.NoError(t, tb.Act(human, blackjack.ActionStand))
		}
		require.NoError(t, tb.NextHand())
	}
	t.Fatal("never reached a three card decision")
}

func TestDealerRotationResetsSuspicion(t *testing.T) {
	tb := newTestTable(t, func(c *Config) {
		c.Rules.NumDecks = 1
		c.Rules.Penetration = 50
		c.Actors = SeatActors(rand.New(rand.NewSource(2)), DefaultRoster, []int{0, 1, 5})
	})
	first := tb.rotateEvery
	assert.GreaterOrEqual(t, first, 5)
	assert.LessOrEqual(t, first, 8)

	var changes []DealerChange
	tb.Events().Subscribe(func(ev blackjack.Event) {
		if ev.Type != blackjack.EventDealerChanged {
			return
		}
		changes = append(changes, ev.Payload.(DealerChange))
		s := tb.detector.State()
		assert.Zero(t, s.DealerSuspicion)
		assert.False(t, s.Reported)
	})

	tb.detector.Interaction(suspicion.Ignored, true)
	startShoes := tb.round.Shoe().ShoesDealt()
	for hand := 0; hand < 400 && len(changes) == 0; hand++ {
		playHand(t, tb, 10)
	}
	require.Len(t, changes, 1)
	c := changes[0]
	assert.NotEqual(t, c.Previous, c.Dealer.ID)
	assert.Equal(t, c.Dealer.ID, tb.Snapshot().Dealer.ID)
	assert.Equal(t, first, tb.round.Shoe().ShoesDealt()-startShoes)
	assert.GreaterOrEqual(t, c.ShoesUntilNext, 5)
	assert.LessOrEqual(t, c.ShoesUntilNext, 8)
}

func TestDecayClock(t *testing.T) {
	sched := blackjack.NewManualScheduler()
	tb := newTestTable(t, func(c *Config) {
		c.Scheduler = sched
		c.Dealers = watchers(t)[:1]
	})
	tb.Start()

	tb.detector.Interaction(suspicion.Ignored, true)
	tb.detector.Conversation(suspicion.Ignored)
	require.InDelta(t, 5.1, tb.detector.State().DealerSuspicion, 1e-9)

	sched.Advance(2 * time.Second)
	s := tb.Snapshot().Suspicion
	assert.InDelta(t, 4.6, s.DealerSuspicion, 1e-9)
	assert.InDelta(t, 7.75, s.PitBossAttention, 1e-9)

	sched.Advance(2 * time.Second)
	assert.InDelta(t, 4.1, tb.Snapshot().Suspicion.DealerSuspicion, 1e-9)

	tb.Stop()
	sched.Advance(time.Minute)
	assert.InDelta(t, 4.1, tb.Snapshot().Suspicion.DealerSuspicion, 1e-9)
	assert.Zero(t, sched.Pending())
}

func TestPromptAnsweredAndTimedOut(t *testing.T) {
	sched := blackjack.NewManualScheduler()
	tb := newTestTable(t, func(c *Config) { c.Scheduler = sched })

	var msgs []blackjack.Message
	tb.Events().Subscribe(func(ev blackjack.Event) {
		if m, ok := ev.Payload.(blackjack.Message); ok {
			msgs = append(msgs, m)
		}
	})

	assert.ErrorIs(t, tb.Converse(human, suspicion.Engaged), ErrNoPrompt)

	tb.openPrompt(dialogue.PitBoss, dialogue.PitBossApproach, true)
	require.NotNil(t, tb.Snapshot().Prompt)
	require.Len(t, msgs, 1)
	assert.Equal(t, PitBossSpeaker, msgs[0].Speaker)

	assert.ErrorIs(t, tb.Converse(human, "shrug"), blackjack.ErrInvalidAction)
	require.NoError(t, tb.Converse(human, suspicion.Engaged))
	s := tb.Snapshot()
	assert.Nil(t, s.Prompt)
	assert.InDelta(t, 53, s.Suspicion.Sociability, 1e-9)

	// The stale timeout of the answered prompt does nothing.
	sched.Advance(20 * time.Second)
	assert.Zero(t, tb.Snapshot().Suspicion.PitBossAttention)

	tb.openPrompt(dialogue.PitBoss, dialogue.PitBossApproach, true)
	sched.Advance(20 * time.Second)
	s = tb.Snapshot()
	assert.Nil(t, s.Prompt)
	assert.InDelta(t, 8, s.Suspicion.PitBossAttention, 1e-9)
}

func TestPacedPlay(t *testing.T) {
	sched := blackjack.NewManualScheduler()
	tb := newTestTable(t, func(c *Config) {
		c.Scheduler = sched
		c.StepDelay = 500 * time.Millisecond
		c.Actors = SeatActors(rand.New(rand.NewSource(3)), DefaultRoster, []int{0})
	})

	require.NoError(t, tb.PlaceBet(human, 10))
	assert.Equal(t, blackjack.PhaseBetting, tb.Phase(), "nothing moves before the clock")

	for i := 0; i < 100 && tb.Phase() != blackjack.PhaseRoundEnd; i++ {
		if tb.Phase() == blackjack.PhasePlayerTurn && tb.Snapshot().Round.ActivePlayer == human {
			err := tb.Act(human, blackjack.ActionStand)
			if err != nil && !errors.Is(err, blackjack.ErrAlreadyDecided) {
				require.NoError(t, err)
			}
		}
		sched.Advance(time.Second)
	}
	assert.Equal(t, blackjack.PhaseRoundEnd, tb.Phase())
}
