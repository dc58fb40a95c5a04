package suspicion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changes []Change

func (c *changes) notify(ch Change) { *c = append(*c, ch) }

func (c changes) ofKind(k Kind) []Change {
	var out []Change
	for _, ch := range c {
		if ch.Kind == k {
			out = append(out, ch)
		}
	}
	return out
}

func dealer(t *testing.T, id string) DealerCharacter {
	t.Helper()
	d, ok := FindDealer(DefaultDealers, id)
	require.True(t, ok, id)
	return d
}

func newTestDetector(t *testing.T, dealerID string) (*Detector, *changes) {
	t.Helper()
	var got changes
	d := NewDetector(Config{Rng: rand.New(rand.NewSource(5)), Notify: got.notify}, dealer(t, dealerID))
	return d, &got
}

func TestWongingRaisesSuspicion(t *testing.T) {
	d, got := newTestDetector(t, "strict-harold")

	for i := 0; i < 4; i++ {
		d.RecordHand(false, 0, -2)
	}
	for i := 0; i < 5; i++ {
		d.RecordHand(true, 10, 2)
	}
	assert.Zero(t, d.State().DealerSuspicion, "no analysis before ten records")

	d.RecordHand(true, 10, 2)
	// gap 4, sit-out rate 0.4: (5 + 0.32*10) scaled by skill 85
	assert.InDelta(t, 8.2*0.85, d.State().DealerSuspicion, 1e-9)
	require.Len(t, got.ofKind(KindDealerSuspicion), 1)
	assert.Equal(t, ReasonWonging, got.ofKind(KindDealerSuspicion)[0].Reason)
	assert.Equal(t, 5, d.history.Len())

	d.RecordHand(true, 10, 2)
	assert.Len(t, got.ofKind(KindDealerSuspicion), 1, "trimmed history needs to refill")
}

func TestWongingAtTheThreshold(t *testing.T) {
	d, got := newTestDetector(t, "strict-harold")

	// Sits out just under +2 and bets the maximum just above it: the means
	// are close but the counts never overlap.
	for _, tc := range []float64{1.7, 1.8, 1.9, 1.8} {
		d.RecordHand(false, 0, tc)
	}
	for _, tc := range []float64{2.0, 2.1, 2.4, 2.2, 2.0, 2.3} {
		d.RecordHand(true, 500, tc)
	}
	assert.Positive(t, d.State().DealerSuspicion)
	require.Len(t, got.ofKind(KindDealerSuspicion), 1)
	assert.Equal(t, ReasonWonging, got.ofKind(KindDealerSuspicion)[0].Reason)
}

func TestWongingNeedsSeparatedCounts(t *testing.T) {
	d, _ := newTestDetector(t, "strict-harold")

	// One sit-out above a played count: neither separated nor far apart.
	for _, tc := range []float64{1.8, 2.1, 1.8} {
		d.RecordHand(false, 0, tc)
	}
	for i := 0; i < 9; i++ {
		d.RecordHand(true, 500, 2)
	}
	assert.Zero(t, d.State().DealerSuspicion)
}

func TestWongingIgnoresSteadyPlay(t *testing.T) {
	d, _ := newTestDetector(t, "strict-harold")
	for i := 0; i < 40; i++ {
		d.RecordHand(true, 10, float64(i%7-3))
	}
	assert.Zero(t, d.State().DealerSuspicion)

	// Sitting out without a count correlation is not wonging either.
	for i := 0; i < 20; i++ {
		d.RecordHand(i%3 != 0, 10, 0)
	}
	assert.Zero(t, d.State().DealerSuspicion)
}

func TestBetSpreadIsWindowed(t *testing.T) {
	var got changes
	d := NewDetector(Config{Rng: rand.New(rand.NewSource(5)), Notify: got.notify, BetHistory: 5},
		dealer(t, "strict-harold"))

	d.RecordHand(true, 10, -1)
	d.RecordHand(true, 40, 3)
	d.RecordHand(false, 0, -2)
	assert.Equal(t, 4.0, d.BetSpread())
	assert.Equal(t, []BetRecord{{Bet: 10, TrueCount: -1}, {Bet: 40, TrueCount: 3}}, d.BetHistory())

	for i := 0; i < 5; i++ {
		d.RecordHand(true, 20, 0)
	}
	assert.Len(t, d.BetHistory(), 5)
	assert.Equal(t, 1.0, d.BetSpread(), "old bets roll out of the window")

	d.RecordHand(true, 60, 2)
	assert.Equal(t, 3.0, d.BetSpread())
	d.SetDealer(dealer(t, "strict-harold"))
	assert.Empty(t, d.BetHistory())
}

func TestDealerOnPlayerSideNeverSuspects(t *testing.T) {
	for _, id := range []string{"maria-counter", "friendly-marcus"} {
		d, got := newTestDetector(t, id)
		for i := 0; i < 30; i++ {
			d.RecordHand(i%2 == 0, 10, float64(4*(i%2)-2))
			d.Interaction(Ignored, true)
			d.RecordDecision(true)
		}
		assert.Zero(t, d.State().DealerSuspicion, id)
		assert.Empty(t, got.ofKind(KindReport), id)
	}
}

func TestCommentTiersAndSingleReport(t *testing.T) {
	d, got := newTestDetector(t, "strict-harold")

	// Each ignored line while counting adds 6 * 0.85.
	for i := 0; i < 12; i++ {
		d.Interaction(Ignored, true)
	}
	var tiers []int
	for _, c := range got.ofKind(KindComment) {
		tiers = append(tiers, c.Tier)
	}
	assert.Equal(t, []int{10, 30, 60}, tiers)

	reports := got.ofKind(KindReport)
	require.Len(t, reports, 1)
	assert.InDelta(t, 30, reports[0].Delta, 1e-9)

	s := d.State()
	assert.True(t, s.Reported)
	assert.Zero(t, s.DealerSuspicion)
	assert.InDelta(t, 30, s.PitBossAttention, 1e-9)
	assert.InDelta(t, 35, s.PitBossProximity, 1e-9)

	for i := 0; i < 24; i++ {
		d.Interaction(Ignored, true)
	}
	assert.Len(t, got.ofKind(KindReport), 1, "a dealer reports once")

	d.SetDealer(dealer(t, "strict-harold"))
	assert.False(t, d.State().Reported)
	assert.Zero(t, d.State().DealerSuspicion)
	assert.InDelta(t, 30, d.State().PitBossAttention, 1e-9, "attention outlives the dealer")
	for i := 0; i < 12; i++ {
		d.Interaction(Ignored, true)
	}
	assert.Len(t, got.ofKind(KindReport), 2)
}

func TestInteractionOnlyCountsWhileCounting(t *testing.T) {
	d, _ := newTestDetector(t, "veteran-lisa")
	d.Interaction(Dismissive, false)
	assert.Zero(t, d.State().DealerSuspicion)

	d.Interaction(Neutral, true)
	neutral := d.State().DealerSuspicion
	d.Interaction(Engaged, true)
	engaged := d.State().DealerSuspicion - neutral
	assert.Greater(t, engaged, neutral)
}

func TestDecay(t *testing.T) {
	d, got := newTestDetector(t, "strict-harold")
	d.Interaction(Ignored, true)
	d.Conversation(Ignored)
	require.InDelta(t, 5.1, d.State().DealerSuspicion, 1e-9)
	require.InDelta(t, 8, d.State().PitBossAttention, 1e-9)

	d.Decay()
	assert.InDelta(t, 4.6, d.State().DealerSuspicion, 1e-9)
	assert.InDelta(t, 7.75, d.State().PitBossAttention, 1e-9)

	for i := 0; i < 100; i++ {
		d.Decay()
	}
	assert.Zero(t, d.State().DealerSuspicion)
	assert.Zero(t, d.State().PitBossAttention)
	assert.Empty(t, got.ofKind(KindReport))
}

func TestConversation(t *testing.T) {
	d, _ := newTestDetector(t, "rookie-jenny")
	d.Conversation(Ignored)
	d.Conversation(Engaged)
	s := d.State()
	assert.InDelta(t, 6, s.PitBossAttention, 1e-9)
	assert.InDelta(t, 45, s.Sociability, 1e-9)
	assert.Zero(t, s.DealerSuspicion)
}

func TestBetVariationFollowingCount(t *testing.T) {
	attention := func(tc float64) float64 {
		d, _ := newTestDetector(t, "strict-harold")
		d.RecordResolution(10, 0, 0)
		d.RecordResolution(14, 0, tc)
		return d.State().PitBossAttention
	}
	assert.InDelta(t, 0.4*15*0.85*0.5, attention(0), 1e-9)
	assert.InDelta(t, 0.4*15*0.85*1.5*1.4, attention(2), 1e-9)

	d, _ := newTestDetector(t, "strict-harold")
	d.RecordResolution(10, 0, 0)
	d.RecordResolution(50, 0, 3)
	assert.InDelta(t, 25, d.State().PitBossAttention, 1e-9, "single hand contribution is capped")
}

func TestStrategyAccuracyNeedsSpread(t *testing.T) {
	d, got := newTestDetector(t, "strict-harold")
	d.RecordHand(true, 10, 0)
	for i := 0; i < 10; i++ {
		d.RecordDecision(true)
	}
	assert.Zero(t, d.State().DealerSuspicion)

	d.RecordHand(true, 40, 3)
	d.RecordDecision(true)
	assert.InDelta(t, 8*0.85, d.State().DealerSuspicion, 1e-9)
	assert.Equal(t, ReasonStrategy, got.ofKind(KindDealerSuspicion)[0].Reason)
	assert.Equal(t, 4.0, d.BetSpread())

	d.PlayerLeft()
	assert.Equal(t, 1.0, d.BetSpread())
}

func TestWanderFollowsAttention(t *testing.T) {
	d, _ := newTestDetector(t, "rookie-jenny")
	for i := 0; i < 13; i++ {
		d.Conversation(Ignored)
	}
	require.Equal(t, 100.0, d.State().PitBossAttention)

	var sum float64
	for i := 0; i < 200; i++ {
		d.Wander()
		p := d.State().PitBossProximity
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
		if i >= 100 {
			sum += p
		}
	}
	assert.Greater(t, sum/100, 50.0)
}

func TestPickDealer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.NotEqual(t, "veteran-lisa", PickDealer(rng, DefaultDealers, "veteran-lisa").ID)
	}
	only := DefaultDealers[:1]
	assert.Equal(t, only[0].ID, PickDealer(rng, only, only[0].ID).ID)
}

func TestDealerThresholds(t *testing.T) {
	assert.Equal(t, 60.0, dealer(t, "strict-harold").Threshold())
	assert.Equal(t, 75.0, dealer(t, "veteran-lisa").Threshold())
	assert.Equal(t, float64(NeverReports), dealer(t, "oblivious-frank").Threshold())
	custom := DealerCharacter{Personality: Strict, ReportingThreshold: 40}
	assert.Equal(t, 40.0, custom.Threshold())
}

func TestRing(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	assert.Equal(t, []int{3, 4, 5}, r.Items())
	r.Keep(2)
	assert.Equal(t, []int{4, 5}, r.Items())
	r.Push(6)
	r.Push(7)
	assert.Equal(t, []int{5, 6, 7}, r.Items())
	r.Clear()
	assert.Zero(t, r.Len())
}

func TestHeatMap(t *testing.T) {
	h := NewHeatMap(0)
	h.Record(HeatPoint{TrueCount: 1.2, Proximity: 60})
	h.Record(HeatPoint{TrueCount: 0.8, Proximity: 40})
	h.Record(HeatPoint{TrueCount: -1, Proximity: 20})

	b := h.Buckets()
	require.Len(t, b, 2)
	assert.Equal(t, -1.0, b[0].TrueCount)
	assert.Equal(t, HeatBucket{TrueCount: 1, AvgProximity: 50, MinProximity: 40, MaxProximity: 60, Samples: 2}, b[1])
	assert.InDelta(t, 0.1, h.DiscretionScore(), 1e-6)

	h.Reset()
	assert.Equal(t, 100.0, h.DiscretionScore())
}
