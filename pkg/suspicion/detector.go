package suspicion

import (
	"math"
	"math/rand"

	"github.com/decred/slog"
)

// Kind identifies what a Change reports.
type Kind string

const (
	KindDealerSuspicion  Kind = "dealer_suspicion"
	KindPitBossAttention Kind = "pit_boss_attention"
	KindPitBossProximity Kind = "pit_boss_proximity"
	KindComment          Kind = "dealer_comment"
	KindReport           Kind = "dealer_report"
)

// Reasons attached to changes.
const (
	ReasonWonging           = "wonging"
	ReasonBetSpread         = "bet_spread"
	ReasonStrategy          = "strategy_accuracy"
	ReasonInteraction       = "dealer_interaction"
	ReasonConversation      = "pit_boss_conversation"
	ReasonBigWin            = "big_win"
	ReasonReport            = "dealer_report"
	ReasonDecay             = "decay"
	ReasonWander            = "wander"
	ReasonProximityPressure = "proximity"
)

// Response is the player's reaction to a dealer or pit boss line.
type Response string

const (
	Engaged    Response = "friendly"
	Neutral    Response = "neutral"
	Dismissive Response = "dismissive"
	Ignored    Response = "ignore"
)

// State is the observable suspicion state. All levels are in [0, 100].
// PitBossProximity is 0 when the pit boss is across the floor and 100 when
// standing at the table.
type State struct {
	DealerID         string  `json:"dealerId"`
	DealerSuspicion  float64 `json:"dealerSuspicion"`
	PitBossAttention float64 `json:"pitBossAttention"`
	PitBossProximity float64 `json:"pitBossProximity"`
	Sociability      float64 `json:"sociability"`
	Reported         bool    `json:"reported"`
}

// Change is published whenever a level moves or the dealer speaks up.
type Change struct {
	Kind   Kind    `json:"kind"`
	Reason string  `json:"reason"`
	Delta  float64 `json:"delta"`
	Tier   int     `json:"tier,omitempty"`
	State  State   `json:"state"`
}

// WongingConfig tunes the sit-out correlation check.
type WongingConfig struct {
	History       int     // records retained
	MinRecords    int     // records required before analysis
	MinSatOut     int     // sat-out hands required
	MinDifference float64 // true count gap between played and sat-out hands
	KeepAfter     int     // records kept after a detection
}

// Config holds the tunables of a Detector. Zero values take defaults.
type Config struct {
	Log    slog.Logger
	Rng    *rand.Rand
	Notify func(Change)

	Wonging WongingConfig

	DealerDecay        float64
	PitBossDecay       float64
	ReportTransferCap  float64
	ReportTransferRate float64
	ReportProximity    float64
	CommentTiers       []int

	// StrategyWindow is the number of recent decisions inspected for
	// perfect play.
	StrategyWindow int

	// BetHistory is the number of recent wagers the bet spread is read from.
	BetHistory int
}

func (c *Config) setDefaults() {
	if c.Log == nil {
		c.Log = slog.Disabled
	}
	if c.Rng == nil {
		c.Rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if c.Wonging.History == 0 {
		c.Wonging.History = 20
	}
	if c.Wonging.MinRecords == 0 {
		c.Wonging.MinRecords = 10
	}
	if c.Wonging.MinSatOut == 0 {
		c.Wonging.MinSatOut = 3
	}
	if c.Wonging.MinDifference == 0 {
		c.Wonging.MinDifference = 2
	}
	if c.Wonging.KeepAfter == 0 {
		c.Wonging.KeepAfter = 5
	}
	if c.DealerDecay == 0 {
		c.DealerDecay = 0.5
	}
	if c.PitBossDecay == 0 {
		c.PitBossDecay = 0.25
	}
	if c.ReportTransferCap == 0 {
		c.ReportTransferCap = 30
	}
	if c.ReportTransferRate == 0 {
		c.ReportTransferRate = 0.5
	}
	if c.ReportProximity == 0 {
		c.ReportProximity = 25
	}
	if len(c.CommentTiers) == 0 {
		c.CommentTiers = []int{10, 30, 60, 80}
	}
	if c.StrategyWindow == 0 {
		c.StrategyWindow = 20
	}
	if c.BetHistory == 0 {
		c.BetHistory = 20
	}
}

type participation struct {
	played    bool
	trueCount float64
}

// BetRecord is a wager and the true count it was placed at.
type BetRecord struct {
	Bet       int64   `json:"bet"`
	TrueCount float64 `json:"trueCount"`
}

// Detector accumulates behavioural signals into dealer suspicion and pit boss
// attention. It is not safe for concurrent use; callers serialize access.
type Detector struct {
	cfg    Config
	log    slog.Logger
	rng    *rand.Rand
	dealer DealerCharacter
	state  State

	commentMark int
	history     *Ring[participation]
	bets        *Ring[BetRecord]
	decisions   *Ring[bool]
	prevBet     int64
}

// NewDetector creates a detector for a table currently run by dealer.
func NewDetector(cfg Config, dealer DealerCharacter) *Detector {
	cfg.setDefaults()
	d := &Detector{
		cfg:       cfg,
		log:       cfg.Log,
		rng:       cfg.Rng,
		history:   NewRing[participation](cfg.Wonging.History),
		bets:      NewRing[BetRecord](cfg.BetHistory),
		decisions: NewRing[bool](cfg.StrategyWindow),
	}
	d.state.Sociability = 50
	d.state.PitBossProximity = 10
	d.SetDealer(dealer)
	return d
}

// State returns a copy of the current levels.
func (d *Detector) State() State {
	return d.state
}

// Dealer returns the dealer currently at the table.
func (d *Detector) Dealer() DealerCharacter {
	return d.dealer
}

// SetDealer swaps the dealer and clears everything scoped to the previous
// one. Pit boss attention carries over.
func (d *Detector) SetDealer(dealer DealerCharacter) {
	d.dealer = dealer
	d.state.DealerID = dealer.ID
	d.state.DealerSuspicion = 0
	d.state.Reported = false
	d.commentMark = 0
	d.history.Clear()
	d.bets.Clear()
	d.log.Debugf("dealer %s (%s, skill %d) takes the table", dealer.ID,
		dealer.Personality, dealer.DetectionSkill)
}

// PlayerLeft clears the per-player histories along with the dealer's
// suspicion of that player.
func (d *Detector) PlayerLeft() {
	d.state.DealerSuspicion = 0
	d.state.Reported = false
	d.commentMark = 0
	d.history.Clear()
	d.bets.Clear()
	d.decisions.Clear()
	d.prevBet = 0
}

// RecordHand records whether the player took part in a hand and the true
// count at the time bets closed.
func (d *Detector) RecordHand(played bool, bet int64, trueCount float64) {
	d.history.Push(participation{played: played, trueCount: trueCount})
	if played && bet > 0 {
		d.bets.Push(BetRecord{Bet: bet, TrueCount: trueCount})
	}
	d.checkWonging()
}

// checkWonging raises dealer suspicion when the player sits out low counts
// and plays high ones: either the mean counts are far apart or every
// sat-out count lies below every played count.
func (d *Detector) checkWonging() {
	w := d.cfg.Wonging
	if d.history.Len() < w.MinRecords {
		return
	}
	var played, satOut int
	var playedSum, satOutSum float64
	minPlayed, maxSatOut := math.Inf(1), math.Inf(-1)
	for _, p := range d.history.Items() {
		if p.played {
			played++
			playedSum += p.trueCount
			minPlayed = math.Min(minPlayed, p.trueCount)
		} else {
			satOut++
			satOutSum += p.trueCount
			maxSatOut = math.Max(maxSatOut, p.trueCount)
		}
	}
	if played == 0 || satOut < w.MinSatOut {
		return
	}
	diff := playedSum/float64(played) - satOutSum/float64(satOut)
	if diff < w.MinDifference && maxSatOut >= minPlayed {
		return
	}
	sitOutRate := float64(satOut) / float64(d.history.Len())
	severity := math.Min(1, diff/5*sitOutRate)
	amount := 5 + severity*10
	d.log.Debugf("wonging pattern: count gap %.2f, sit-out rate %.2f", diff, sitOutRate)
	d.history.Keep(w.KeepAfter)
	d.raiseDealer(amount, ReasonWonging)
}

// RecordDecision records whether a playing decision matched basic strategy.
// Near-perfect play combined with a wide bet spread looks like counting.
func (d *Detector) RecordDecision(correct bool) {
	d.decisions.Push(correct)
	if d.decisions.Len() < d.cfg.StrategyWindow/2 {
		return
	}
	var right int
	for _, c := range d.decisions.Items() {
		if c {
			right++
		}
	}
	accuracy := float64(right) / float64(d.decisions.Len())
	if accuracy < 0.9 || d.BetSpread() < 4 {
		return
	}
	amount := math.Min(8, 3+(accuracy-0.9)*50)
	d.decisions.Keep(d.cfg.StrategyWindow / 4)
	d.raiseDealer(amount, ReasonStrategy)
}

// BetSpread is the ratio of the largest to smallest of the recent bets.
func (d *Detector) BetSpread() float64 {
	bets := d.bets.Items()
	if len(bets) == 0 {
		return 1
	}
	lo, hi := bets[0].Bet, bets[0].Bet
	for _, b := range bets[1:] {
		lo = min(lo, b.Bet)
		hi = max(hi, b.Bet)
	}
	return float64(hi) / float64(lo)
}

// BetHistory returns the recent bets, oldest first.
func (d *Detector) BetHistory() []BetRecord {
	return d.bets.Items()
}

// RecordResolution feeds a resolved hand into the pit boss model. bet is the
// original wager, net the settled result and trueCount the count the bet was
// placed at.
func (d *Detector) RecordResolution(bet, net int64, trueCount float64) {
	if bet <= 0 {
		return
	}
	prev := d.prevBet
	d.prevBet = bet

	var variation float64
	if prev > 0 {
		delta := bet - prev
		if delta < 0 {
			delta = -delta
		}
		variation = float64(delta) / float64(prev)
	}
	if variation > 0.3 {
		increased := bet > prev
		correlated := (increased && trueCount >= 2) || (!increased && trueCount <= -1)
		weight := 0.5
		if correlated {
			weight = 1.5
		}
		amount := variation * 15 * float64(d.dealer.DetectionSkill) / 100 *
			weight * (1 + math.Abs(trueCount)*0.2)
		d.raiseAttention(math.Min(25, amount), ReasonBetSpread)
	}

	bigWin := float64(net) > 1.5*float64(bet)
	move := d.rng.Float64()*10 - 7
	reason := ReasonWander
	if bigWin {
		move += 15
		reason = ReasonBigWin
	}
	if variation > 0.5 {
		move += math.Min(variation*20, 20)
		reason = ReasonBetSpread
	}
	d.moveProximity(move, reason)

	if d.state.PitBossProximity > 70 && (bigWin || variation > 0.5) {
		bonus := 5.0
		if !bigWin {
			bonus = math.Floor(variation * 10)
		}
		d.raiseAttention(bonus, ReasonProximityPressure)
	}
}

// Interaction applies the player's response to dealer small talk. It only
// matters while the player is counting: both over-eager and rude replies
// draw more notice than a neutral one.
func (d *Detector) Interaction(resp Response, counting bool) {
	if !counting {
		return
	}
	var amount float64
	switch resp {
	case Engaged:
		amount = 4
	case Neutral:
		amount = 1
	case Dismissive:
		amount = 5
	case Ignored:
		amount = 6
	}
	d.raiseDealer(amount, ReasonInteraction)
}

// Conversation applies the player's response to the pit boss.
func (d *Detector) Conversation(resp Response) {
	var attention, social float64
	switch resp {
	case Engaged:
		attention, social = -2, 3
	case Neutral:
		attention, social = 0, 1
	case Dismissive:
		attention, social = 5, -5
	case Ignored:
		attention, social = 8, -8
	}
	d.state.Sociability = clamp(d.state.Sociability + social)
	if attention < 0 {
		d.lowerAttention(-attention, ReasonConversation)
	} else if attention > 0 {
		d.raiseAttention(attention, ReasonConversation)
	}
}

// Decay relaxes both suspicion levels by one tick. It never reports.
func (d *Detector) Decay() {
	if d.state.DealerSuspicion > 0 && !d.dealer.OnPlayerSide {
		before := d.state.DealerSuspicion
		d.state.DealerSuspicion = clamp(before - d.cfg.DealerDecay)
		d.notify(KindDealerSuspicion, ReasonDecay, d.state.DealerSuspicion-before, 0)
	}
	d.lowerAttention(d.cfg.PitBossDecay, ReasonDecay)
}

// Wander moves the pit boss around the floor. Higher attention keeps the
// pit boss hovering nearer the table.
func (d *Detector) Wander() {
	p := d.state.PitBossProximity
	next := p + d.rng.Float64()*20 - 10
	next = math.Max(10, math.Min(90, next))

	a := d.state.PitBossAttention
	switch {
	case a >= 70:
		if next < 60 {
			next += d.rng.Float64() * 12
		} else if next > 80 {
			next -= d.rng.Float64() * 10
		}
	case a >= 40:
		if next < 40 {
			next += d.rng.Float64() * 8
		} else if next > 60 {
			next -= d.rng.Float64() * 8
		}
	default:
		if next < 20 {
			next += d.rng.Float64() * 10
		} else if next > 50 {
			next -= d.rng.Float64() * 8
		} else if next > 40 {
			next -= d.rng.Float64() * 4
		}
	}
	d.moveProximity(math.Round(next)-p, ReasonWander)
}

// raiseDealer applies amount scaled by the dealer's skill and returns the
// effective increase.
func (d *Detector) raiseDealer(amount float64, reason string) float64 {
	if amount <= 0 || d.dealer.OnPlayerSide {
		return 0
	}
	scaled := amount * float64(d.dealer.DetectionSkill) / 100
	before := d.state.DealerSuspicion
	d.state.DealerSuspicion = clamp(before + scaled)
	delta := d.state.DealerSuspicion - before
	if delta == 0 {
		return 0
	}
	d.notify(KindDealerSuspicion, reason, delta, 0)
	d.checkComment()
	d.checkReport()
	return delta
}

func (d *Detector) checkComment() {
	tier := 0
	for _, t := range d.cfg.CommentTiers {
		if d.state.DealerSuspicion >= float64(t) && t > d.commentMark {
			tier = t
		}
	}
	if tier == 0 {
		return
	}
	d.commentMark = tier
	d.notify(KindComment, ReasonInteraction, 0, tier)
}

func (d *Detector) checkReport() {
	if d.state.Reported || d.state.DealerSuspicion < d.dealer.Threshold() {
		return
	}
	transfer := math.Min(d.cfg.ReportTransferCap, d.state.DealerSuspicion*d.cfg.ReportTransferRate)
	d.log.Infof("dealer %s reports player at suspicion %.1f", d.dealer.ID, d.state.DealerSuspicion)
	d.state.Reported = true
	d.state.DealerSuspicion = 0
	d.commentMark = 0
	d.notify(KindReport, ReasonReport, transfer, 0)
	d.raiseAttention(transfer, ReasonReport)
	d.moveProximity(d.cfg.ReportProximity, ReasonReport)
}

func (d *Detector) raiseAttention(amount float64, reason string) {
	if amount <= 0 {
		return
	}
	before := d.state.PitBossAttention
	d.state.PitBossAttention = clamp(before + amount)
	if delta := d.state.PitBossAttention - before; delta != 0 {
		d.notify(KindPitBossAttention, reason, delta, 0)
	}
}

func (d *Detector) lowerAttention(amount float64, reason string) {
	before := d.state.PitBossAttention
	d.state.PitBossAttention = clamp(before - amount)
	if delta := d.state.PitBossAttention - before; delta != 0 {
		d.notify(KindPitBossAttention, reason, delta, 0)
	}
}

func (d *Detector) moveProximity(amount float64, reason string) {
	before := d.state.PitBossProximity
	d.state.PitBossProximity = clamp(before + amount)
	if delta := d.state.PitBossProximity - before; delta != 0 {
		d.notify(KindPitBossProximity, reason, delta, 0)
	}
}

func (d *Detector) notify(kind Kind, reason string, delta float64, tier int) {
	if d.cfg.Notify == nil {
		return
	}
	d.cfg.Notify(Change{Kind: kind, Reason: reason, Delta: delta, Tier: tier, State: d.state})
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
