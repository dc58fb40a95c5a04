// Package table runs a blackjack table: one human seat, automated players,
// a rotating dealer and the casino watching the human play.
package table

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/dialogue"
	"github.com/vctt94/cardcounter/pkg/suspicion"
)

var (
	ErrOccupied = errors.New("table already has a player")
	ErrNoPrompt = errors.New("no conversation pending")
)

// PitBossSpeaker is the Message speaker position of the pit boss.
const PitBossSpeaker = -2

// Config holds configuration for a new table.
type Config struct {
	ID        string
	Log       slog.Logger
	Rules     blackjack.Rules
	Rng       *rand.Rand
	Scheduler blackjack.Scheduler // clocks are disabled when nil

	Actors     []Actor
	ActorChips int64
	Dealers    []suspicion.DealerCharacter
	Dialogue   dialogue.Provider
	Detector   suspicion.Config

	// A new dealer takes over every N shoes, N drawn from
	// [RotationMin, RotationMax] after each change.
	RotationMin int
	RotationMax int

	DecayInterval  time.Duration
	WanderInterval time.Duration
	PromptTimeout  time.Duration

	// StepDelay paces automatic play. Zero runs the round synchronously
	// until it needs input.
	StepDelay time.Duration

	ChatterChance int // percent chance an actor reacts to a result
	PromptChance  int // percent chance per hand of small talk at average sociability
	InsuranceRate int
	HeatMapSize   int
}

func (c *Config) setDefaults() {
	if c.Log == nil {
		c.Log = slog.Disabled
	}
	if c.Rng == nil {
		c.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.ActorChips == 0 {
		c.ActorChips = 1000
	}
	if len(c.Dealers) == 0 {
		c.Dealers = suspicion.DefaultDealers
	}
	if c.Dialogue == nil {
		c.Dialogue = dialogue.DefaultPool()
	}
	if c.RotationMin <= 0 {
		c.RotationMin = 5
	}
	if c.RotationMax < c.RotationMin {
		c.RotationMax = c.RotationMin + 3
	}
	if c.DecayInterval == 0 {
		c.DecayInterval = 2 * time.Second
	}
	if c.WanderInterval == 0 {
		c.WanderInterval = 3 * time.Second
	}
	if c.PromptTimeout == 0 {
		c.PromptTimeout = 15 * time.Second
	}
	if c.ChatterChance == 0 {
		c.ChatterChance = 30
	}
	if c.PromptChance == 0 {
		c.PromptChance = 10
	}
}

// Prompt is a line addressed to the human that waits for a response.
type Prompt struct {
	ID      int           `json:"id"`
	Speaker string        `json:"speaker"`
	PitBoss bool          `json:"pitBoss"`
	Line    dialogue.Line `json:"line"`
}

// DealerComment is the payload of EventDealerComment.
type DealerComment struct {
	DealerID string        `json:"dealerId"`
	Tier     int           `json:"tier"`
	Line     dialogue.Line `json:"line"`
}

// DealerChange is the payload of EventDealerChanged.
type DealerChange struct {
	Previous       string                    `json:"previous,omitempty"`
	Dealer         suspicion.DealerCharacter `json:"dealer"`
	ShoesUntilNext int                       `json:"shoesUntilNext"`
}

// SeatChange is the payload of EventSeatChanged.
type SeatChange struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
	Joined   bool   `json:"joined"`
	Chips    int64  `json:"chips"`
}

// Stats summarises the human's session at the table.
type Stats struct {
	HandsPlayed   int     `json:"handsPlayed"`
	HandsSatOut   int     `json:"handsSatOut"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	Blackjacks    int     `json:"blackjacks"`
	Net           int64   `json:"net"`
	Reports       int     `json:"reports"`
	PeakAttention float64 `json:"peakAttention"`
	Decisions     int     `json:"decisions"`
	Accuracy      float64 `json:"accuracy"`
	Score         int     `json:"score"`
	BestStreak    int     `json:"bestStreak"`
}

// Snapshot is the table as seen by the human.
type Snapshot struct {
	TableID    string                    `json:"tableId"`
	HumanID    string                    `json:"humanId,omitempty"`
	Rules      blackjack.Rules           `json:"rules"`
	Round      blackjack.RoundSnapshot   `json:"round"`
	Dealer     suspicion.DealerCharacter `json:"dealer"`
	Suspicion  suspicion.State           `json:"suspicion"`
	Prompt     *Prompt                   `json:"prompt,omitempty"`
	Stats      Stats                     `json:"stats"`
	Streak     int                       `json:"streak"`
	Discretion float64                   `json:"discretion"`
}

// Table owns a Round and everything that watches it. Event listeners run
// with the table locked and must not call back into the Table.
type Table struct {
	mtx      sync.Mutex
	log      slog.Logger
	cfg      Config
	rng      *rand.Rand
	sched    blackjack.Scheduler
	events   *blackjack.EventManager
	round    *blackjack.Round
	detector *suspicion.Detector
	heat     *suspicion.HeatMap
	tracker  *blackjack.DecisionTracker
	lines    dialogue.Provider

	humanID      string
	bet          int64
	betCount     float64
	rotateEvery  int
	lastRotation int
	prompt       *Prompt
	promptSeq    int
	stepping     bool
	started      bool
	stopped      bool
	stats        Stats
	createdAt    time.Time
}

// NewTable creates a table with its automated players seated, waiting for
// bets on the first hand.
func NewTable(cfg Config) (*Table, error) {
	cfg.setDefaults()
	events := blackjack.NewEventManager(cfg.Log)
	round, err := blackjack.NewRound(blackjack.RoundConfig{
		TableID:       cfg.ID,
		Log:           cfg.Log,
		Rules:         cfg.Rules,
		Rng:           cfg.Rng,
		Events:        events,
		InsuranceRate: cfg.InsuranceRate,
	})
	if err != nil {
		return nil, err
	}
	for _, a := range cfg.Actors {
		p := blackjack.NewAutomatedPlayer(a.Character.ID, a.Character.Name, a.Seat,
			cfg.ActorChips, a.Character.SkillLevel, a.BaseBet)
		p.CharacterID = a.Character.ID
		if err := round.AddPlayer(p); err != nil {
			return nil, fmt.Errorf("failed to seat %s: %w", a.Character.ID, err)
		}
	}

	t := &Table{
		log:       cfg.Log,
		cfg:       cfg,
		rng:       cfg.Rng,
		sched:     cfg.Scheduler,
		events:    events,
		round:     round,
		heat:      suspicion.NewHeatMap(cfg.HeatMapSize),
		tracker:   blackjack.NewDecisionTracker(),
		lines:     cfg.Dialogue,
		createdAt: time.Now(),
	}
	dcfg := cfg.Detector
	dcfg.Log = cfg.Log
	dcfg.Rng = cfg.Rng
	dcfg.Notify = t.onSuspicion
	t.detector = suspicion.NewDetector(dcfg, suspicion.PickDealer(t.rng, cfg.Dealers, ""))
	t.rotateEvery = t.drawRotation()
	t.lastRotation = round.Shoe().ShoesDealt()

	events.Subscribe(t.onEvent)
	return t, nil
}

// Start begins the decay and pit boss clocks.
func (t *Table) Start() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.started || t.sched == nil {
		return
	}
	t.started = true
	t.sched.RegisterTimeout(t.decayTick, t.cfg.DecayInterval)
	t.sched.RegisterTimeout(t.wanderTick, t.cfg.WanderInterval)
	if line, ok := t.lines.Line(t.detector.Dealer().ID, dialogue.Opener, t.rng); ok {
		t.say(line, blackjack.DealerSpeaker)
	}
}

// Stop halts the clocks and automatic play. Pending callbacks become no-ops.
func (t *Table) Stop() {
	t.mtx.Lock()
	t.stopped = true
	t.mtx.Unlock()
}

func (t *Table) decayTick() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.stopped {
		return
	}
	t.detector.Decay()
	t.sched.RegisterTimeout(t.decayTick, t.cfg.DecayInterval)
}

func (t *Table) wanderTick() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.stopped {
		return
	}
	t.detector.Wander()
	t.sched.RegisterTimeout(t.wanderTick, t.cfg.WanderInterval)
}

// kick moves the round forward after an input.
func (t *Table) kick() {
	if t.sched == nil || t.cfg.StepDelay <= 0 {
		t.round.AdvanceAll()
		return
	}
	if t.stepping || t.stopped {
		return
	}
	t.stepping = true
	t.sched.RegisterTimeout(t.step, t.stepDelay())
}

func (t *Table) step() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.stepping = false
	if t.stopped {
		return
	}
	if t.round.Advance() {
		t.stepping = true
		t.sched.RegisterTimeout(t.step, t.stepDelay())
	}
}

func (t *Table) stepDelay() time.Duration {
	speed := t.detector.Dealer().DealSpeedMultiplier
	if speed <= 0 {
		return t.cfg.StepDelay
	}
	return time.Duration(float64(t.cfg.StepDelay) / speed)
}

func (t *Table) drawRotation() int {
	return t.cfg.RotationMin + t.rng.Intn(t.cfg.RotationMax-t.cfg.RotationMin+1)
}

func (t *Table) publish(typ blackjack.EventType, payload interface{}) {
	t.events.Publish(blackjack.Event{
		Type:    typ,
		TableID: t.cfg.ID,
		Round:   t.round.Number(),
		Payload: payload,
	})
}

func (t *Table) say(line dialogue.Line, speaker int) {
	t.publish(blackjack.EventMessage, blackjack.Message{ID: line.ID, Text: line.Text, Speaker: speaker})
}

func (t *Table) onEvent(ev blackjack.Event) {
	switch p := ev.Payload.(type) {
	case blackjack.PhaseChange:
		if p.To == blackjack.PhaseBetting {
			t.maybeRotateDealer()
			t.maybePrompt()
		}
	case blackjack.BetPlaced:
		if p.PlayerID == t.humanID {
			t.recordBet(ev.Round, p)
		}
	case blackjack.PlayerAction:
		if p.PlayerID == t.humanID {
			d := t.tracker.Record(p.Action, p.Recommended)
			t.detector.RecordDecision(d.Correct)
		}
	case blackjack.RoundResult:
		t.recordResult(p)
	}
}

func (t *Table) recordBet(round int, p blackjack.BetPlaced) {
	s := t.detector.State()
	t.heat.Record(suspicion.HeatPoint{
		Round:     round,
		TrueCount: p.TrueCount,
		Proximity: s.PitBossProximity,
		Bet:       p.Amount,
		Attention: s.PitBossAttention,
	})
	t.detector.RecordHand(!p.SatOut, p.Amount, p.TrueCount)
	t.bet, t.betCount = p.Amount, p.TrueCount
	if p.SatOut {
		t.stats.HandsSatOut++
	} else {
		t.stats.HandsPlayed++
	}
}

func (t *Table) recordResult(res blackjack.RoundResult) {
	if net, _, played := res.NetFor(t.humanID); played && t.bet > 0 {
		t.detector.RecordResolution(t.bet, net, t.betCount)
		t.stats.Net += net
		for _, h := range res.Hands {
			if h.PlayerID != t.humanID {
				continue
			}
			switch h.Outcome {
			case blackjack.OutcomeBlackjack:
				t.stats.Blackjacks++
				t.stats.Wins++
			case blackjack.OutcomeWin:
				t.stats.Wins++
			case blackjack.OutcomePush:
				t.stats.Pushes++
			default:
				t.stats.Losses++
			}
		}
	}
	t.bet = 0

	for _, h := range res.Hands {
		if !h.Automated || t.rng.Intn(100) >= t.cfg.ChatterChance {
			continue
		}
		var cat dialogue.Category
		switch {
		case h.Outcome == blackjack.OutcomeBlackjack:
			cat = dialogue.Blackjack
		case h.Outcome == blackjack.OutcomeBust:
			cat = dialogue.Bust
		case h.Outcome == blackjack.OutcomeWin && h.Net > 2*t.cfg.Rules.MinBet:
			cat = dialogue.BigWin
		default:
			continue
		}
		speaker := h.PlayerID
		if p := t.round.Player(h.PlayerID); p != nil && p.CharacterID != "" {
			speaker = p.CharacterID
		}
		if line, ok := t.lines.Line(speaker, cat, t.rng); ok {
			t.say(line, h.Seat)
		}
	}
}

func (t *Table) onSuspicion(ch suspicion.Change) {
	if ch.State.PitBossAttention > t.stats.PeakAttention {
		t.stats.PeakAttention = ch.State.PitBossAttention
	}
	switch ch.Kind {
	case suspicion.KindComment:
		dealer := t.detector.Dealer()
		line, ok := t.lines.Line(string(dealer.Personality), dialogue.CommentCategory(ch.Tier), t.rng)
		if !ok {
			return
		}
		t.publish(blackjack.EventDealerComment, DealerComment{DealerID: dealer.ID, Tier: ch.Tier, Line: line})
		t.say(line, blackjack.DealerSpeaker)
	case suspicion.KindReport:
		t.stats.Reports++
		t.publish(blackjack.EventDealerReport, ch)
	default:
		t.publish(blackjack.EventSuspicionChanged, ch)
	}
}

func (t *Table) maybeRotateDealer() {
	shoes := t.round.Shoe().ShoesDealt()
	if shoes-t.lastRotation < t.rotateEvery {
		return
	}
	t.lastRotation = shoes
	t.rotateDealer()
}

func (t *Table) rotateDealer() {
	prev := t.detector.Dealer()
	next := suspicion.PickDealer(t.rng, t.cfg.Dealers, prev.ID)
	t.rotateEvery = t.drawRotation()
	t.detector.SetDealer(next)
	t.log.Infof("Table %s: dealer %s replaces %s for %d shoes", t.cfg.ID, next.ID, prev.ID, t.rotateEvery)
	t.publish(blackjack.EventDealerChanged, DealerChange{
		Previous:       prev.ID,
		Dealer:         next,
		ShoesUntilNext: t.rotateEvery,
	})
	if line, ok := t.lines.Line(prev.ID, dialogue.Exit, t.rng); ok {
		t.say(line, blackjack.DealerSpeaker)
	}
}

func (t *Table) maybePrompt() {
	if t.humanID == "" || t.prompt != nil {
		return
	}
	s := t.detector.State()
	switch {
	case s.PitBossProximity >= 70:
		t.openPrompt(dialogue.PitBoss, dialogue.PitBossApproach, true)
	case float64(t.rng.Intn(100)) < float64(t.cfg.PromptChance)*s.Sociability/50:
		t.openPrompt(t.detector.Dealer().ID, dialogue.SmallTalk, false)
	}
}

func (t *Table) openPrompt(speaker string, cat dialogue.Category, pitBoss bool) {
	line, ok := t.lines.Line(speaker, cat, t.rng)
	if !ok {
		return
	}
	t.promptSeq++
	id := t.promptSeq
	t.prompt = &Prompt{ID: id, Speaker: speaker, PitBoss: pitBoss, Line: line}
	pos := blackjack.DealerSpeaker
	if pitBoss {
		pos = PitBossSpeaker
	}
	t.say(line, pos)

	if t.sched == nil {
		return
	}
	t.sched.RegisterTimeout(func() {
		t.mtx.Lock()
		defer t.mtx.Unlock()
		if !t.stopped && t.prompt != nil && t.prompt.ID == id {
			t.resolvePrompt(suspicion.Ignored)
		}
	}, t.cfg.PromptTimeout)
}

// counting is how the dealer reads the human: a player spreading bets is
// assumed to be tracking the count.
func (t *Table) counting() bool {
	return t.detector.BetSpread() >= 2
}

func (t *Table) resolvePrompt(resp suspicion.Response) {
	p := t.prompt
	t.prompt = nil
	t.log.Debugf("Table %s: prompt %d answered %s", t.cfg.ID, p.ID, resp)
	if !p.PitBoss {
		t.detector.Interaction(resp, t.counting())
	}
	t.detector.Conversation(resp)
}

// Join seats the human player.
func (t *Table) Join(playerID, name string, seat int, chips int64) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.humanID != "" {
		return fmt.Errorf("%w: %s", ErrOccupied, t.humanID)
	}
	if err := t.round.AddPlayer(blackjack.NewPlayer(playerID, name, seat, chips)); err != nil {
		return err
	}
	t.humanID = playerID
	t.detector.PlayerLeft()
	t.heat.Reset()
	t.tracker.Reset()
	t.stats = Stats{}
	t.log.Infof("Table %s: %s joined at seat %d with %d chips", t.cfg.ID, playerID, seat, chips)
	t.publish(blackjack.EventSeatChanged, SeatChange{PlayerID: playerID, Seat: seat, Joined: true, Chips: chips})
	return nil
}

// Leave unseats the human between hands and returns the player with the
// final chip count.
func (t *Table) Leave(playerID string) (*blackjack.Player, error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.checkHuman(playerID); err != nil {
		return nil, err
	}
	p, err := t.round.RemovePlayer(playerID)
	if err != nil {
		return nil, err
	}
	t.humanID = ""
	t.prompt = nil
	t.detector.PlayerLeft()
	t.log.Infof("Table %s: %s left with %d chips", t.cfg.ID, playerID, p.Chips)
	t.publish(blackjack.EventSeatChanged, SeatChange{PlayerID: playerID, Seat: p.Seat, Chips: p.Chips})
	return p, nil
}

func (t *Table) checkHuman(playerID string) error {
	if playerID == "" || playerID != t.humanID {
		return fmt.Errorf("%w: %s", blackjack.ErrUnknownPlayer, playerID)
	}
	return nil
}

// PlaceBet places the human's bet and deals once betting is closed.
func (t *Table) PlaceBet(playerID string, amount int64) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.checkHuman(playerID); err != nil {
		return err
	}
	if err := t.round.PlaceBet(playerID, amount); err != nil {
		return err
	}
	t.kick()
	return nil
}

// SitOut skips the coming hand.
func (t *Table) SitOut(playerID string) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.checkHuman(playerID); err != nil {
		return err
	}
	if err := t.round.SitOut(playerID); err != nil {
		return err
	}
	t.kick()
	return nil
}

// Insure takes insurance; a zero stake declines it.
func (t *Table) Insure(playerID string, stake int64) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.checkHuman(playerID); err != nil {
		return err
	}
	var err error
	if stake == 0 {
		err = t.round.DeclineInsurance(playerID)
	} else {
		err = t.round.Insure(playerID, stake)
	}
	if err != nil {
		return err
	}
	t.kick()
	return nil
}

// Act plays the human's decision. Unlike Round.Act an ineligible double or
// split is reported as an error.
func (t *Table) Act(playerID string, action blackjack.Action) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.checkHuman(playerID); err != nil {
		return err
	}
	legal := t.round.LegalActions(playerID)
	if len(legal) > 0 && !slices.Contains(legal, action) {
		return fmt.Errorf("%w: %s not allowed", blackjack.ErrInvalidAction, action)
	}
	if err := t.round.Act(playerID, action); err != nil {
		return err
	}
	t.kick()
	return nil
}

// NextHand moves a finished round on to betting.
func (t *Table) NextHand() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.round.NextHand(); err != nil {
		return err
	}
	t.kick()
	return nil
}

// Converse answers the pending prompt.
func (t *Table) Converse(playerID string, resp suspicion.Response) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if err := t.checkHuman(playerID); err != nil {
		return err
	}
	if t.prompt == nil {
		return ErrNoPrompt
	}
	switch resp {
	case suspicion.Engaged, suspicion.Neutral, suspicion.Dismissive, suspicion.Ignored:
	default:
		return fmt.Errorf("%w: response %q", blackjack.ErrInvalidAction, resp)
	}
	t.resolvePrompt(resp)
	return nil
}

// Snapshot captures the table.
func (t *Table) Snapshot() Snapshot {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	cur, _ := t.tracker.Streak()
	s := Snapshot{
		TableID:    t.cfg.ID,
		HumanID:    t.humanID,
		Rules:      t.cfg.Rules,
		Round:      t.round.Snapshot(),
		Dealer:     t.detector.Dealer(),
		Suspicion:  t.detector.State(),
		Stats:      t.statsLocked(),
		Streak:     cur,
		Discretion: t.heat.DiscretionScore(),
	}
	if t.prompt != nil {
		p := *t.prompt
		s.Prompt = &p
	}
	return s
}

// Stats returns the human's session statistics.
func (t *Table) Stats() Stats {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.statsLocked()
}

func (t *Table) statsLocked() Stats {
	s := t.stats
	s.Decisions = t.tracker.Decisions()
	s.Accuracy = t.tracker.Accuracy()
	s.Score = t.tracker.Score()
	_, s.BestStreak = t.tracker.Streak()
	return s
}

// HeatMap returns the recorded pit boss positions, the per-count buckets and
// the discretion score.
func (t *Table) HeatMap() ([]suspicion.HeatPoint, []suspicion.HeatBucket, float64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.heat.Points(), t.heat.Buckets(), t.heat.DiscretionScore()
}

// Events returns the table's event manager.
func (t *Table) Events() *blackjack.EventManager {
	return t.events
}

// SetEventChannel sets the channel table events are copied to.
func (t *Table) SetEventChannel(ch chan<- blackjack.Event) {
	t.events.SetEventChannel(ch)
}

// ID returns the table id.
func (t *Table) ID() string {
	return t.cfg.ID
}

// HumanID returns the seated human, or "".
func (t *Table) HumanID() string {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.humanID
}

// Phase returns the current round phase.
func (t *Table) Phase() blackjack.Phase {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.round.Phase()
}

// Rules returns the table rules.
func (t *Table) Rules() blackjack.Rules {
	return t.cfg.Rules
}

// CreatedAt returns when the table was created.
func (t *Table) CreatedAt() time.Time {
	return t.createdAt
}
