package blackjack

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/decred/slog"

	"github.com/vctt94/cardcounter/pkg/statemachine"
)

// Phase is the round phase.
type Phase string

const (
	PhaseBetting    Phase = "BETTING"
	PhaseDealing    Phase = "DEALING"
	PhaseInsurance  Phase = "INSURANCE"
	PhasePlayerTurn Phase = "PLAYER_TURN"
	PhaseAITurns    Phase = "AI_TURNS"
	PhaseDealerTurn Phase = "DEALER_TURN"
	PhaseResolving  Phase = "RESOLVING"
	PhaseRoundEnd   Phase = "ROUND_END"
)

// RoundStateFn represents a round state function following Rob Pike's pattern
type RoundStateFn = statemachine.StateFn[Round]

const defaultInsuranceRate = 10

// RoundConfig holds what a Round needs to run hands.
type RoundConfig struct {
	TableID string
	Log     slog.Logger
	Rules   Rules
	Shoe    *Shoe // created from Rules when nil
	Rng     *rand.Rand
	Events  *EventManager

	// InsuranceRate is the percent chance an automated player insures when
	// offered. Zero means the default of 10; negative disables it.
	InsuranceRate int
}

// Round sequences hands through the phases and owns every piece of
// round-scoped state. It is driven through Advance, which runs one step of
// the current phase; player inputs are recorded by PlaceBet, SitOut, Insure,
// Act and NextHand and take effect on the next Advance.
//
// Round is not safe for concurrent use.
type Round struct {
	tableID       string
	log           slog.Logger
	rules         Rules
	shoe          *Shoe
	rng           *rand.Rand
	events        *EventManager
	insuranceRate int

	players      []*Player // sorted by seat
	dealer       *Hand
	holeRevealed bool

	phase      Phase
	number     int
	order      []*Player
	turn       int
	finished   map[string]bool
	betsIn     map[string]bool
	insured    map[string]bool
	pending    map[string]Action
	nextHand   bool
	waiting    bool
	lastResult *RoundResult

	sm *statemachine.StateMachine[Round]
}

// NewRound creates a round engine waiting for bets on hand number one.
func NewRound(cfg RoundConfig) (*Round, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Disabled
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if cfg.Events == nil {
		cfg.Events = NewEventManager(cfg.Log)
	}
	if cfg.Shoe == nil {
		shoe, err := NewShoe(ShoeConfig{
			Log:               cfg.Log,
			NumDecks:          cfg.Rules.NumDecks,
			Penetration:       cfg.Rules.Penetration,
			System:            cfg.Rules.CountingSystem,
			MinDecksRemaining: cfg.Rules.MinDecksRemaining,
			Rng:               cfg.Rng,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create shoe: %w", err)
		}
		cfg.Shoe = shoe
	}
	rate := cfg.InsuranceRate
	if rate == 0 {
		rate = defaultInsuranceRate
	}

	r := &Round{
		tableID:       cfg.TableID,
		log:           cfg.Log,
		rules:         cfg.Rules,
		shoe:          cfg.Shoe,
		rng:           cfg.Rng,
		events:        cfg.Events,
		insuranceRate: rate,
		dealer:        &Hand{},
		phase:         PhaseBetting,
		number:        1,
		finished:      make(map[string]bool),
		betsIn:        make(map[string]bool),
		insured:       make(map[string]bool),
		pending:       make(map[string]Action),
	}
	r.sm = statemachine.NewStateMachine(r, stateBetting)
	return r, nil
}

// Advance runs one step of the current phase. It reports false when the
// round is waiting for player input, and when called while a step is already
// running (for example from an event listener).
func (r *Round) Advance() bool {
	if r.sm.Processing() {
		return false
	}
	r.waiting = false
	if !r.sm.Dispatch() {
		return false
	}
	return !r.waiting
}

// AdvanceAll advances until the round needs input and returns the number of
// steps taken.
func (r *Round) AdvanceAll() int {
	n := 0
	for r.Advance() {
		n++
	}
	return n
}

func (r *Round) wait(fn RoundStateFn) RoundStateFn {
	r.waiting = true
	return fn
}

func (r *Round) transition(to Phase, fn RoundStateFn) RoundStateFn {
	if r.phase != to {
		from := r.phase
		r.phase = to
		r.log.Debugf("Round %d: %s -> %s", r.number, from, to)
		r.publish(EventPhaseChanged, PhaseChange{From: from, To: to, ActivePlayer: r.activeID()})
	}
	return fn
}

func (r *Round) publish(t EventType, payload interface{}) {
	r.events.Publish(Event{Type: t, TableID: r.tableID, Round: r.number, Payload: payload})
}

func stateBetting(r *Round) RoundStateFn {
	for _, p := range r.players {
		if !p.Automated && !r.betsIn[p.ID] {
			return r.wait(stateBetting)
		}
	}
	for _, p := range r.players {
		if p.Automated {
			r.placeAutomatedBet(p)
		}
	}

	r.order = r.order[:0]
	for _, p := range r.players {
		if p.InRound() {
			r.order = append(r.order, p)
		}
	}
	if len(r.order) == 0 {
		r.log.Debugf("Round %d: no bets, nothing dealt", r.number)
		r.lastResult = &RoundResult{TrueCount: r.shoe.TrueCount()}
		r.publish(EventRoundResult, *r.lastResult)
		return r.transition(PhaseRoundEnd, stateRoundEnd)
	}
	return r.transition(PhaseDealing, stateDealing)
}

func stateDealing(r *Round) RoundStateFn {
	for pass := 0; pass < 2; pass++ {
		for _, p := range r.order {
			r.dealTo(p, p.Hand, 0)
		}
		r.dealToDealer(pass == 0)
	}

	up := r.dealer.Cards[0]
	if up.IsAce() && r.rules.InsuranceAvailable {
		next := r.transition(PhaseInsurance, stateInsurance)
		r.insureAutomated()
		return next
	}
	if (up.IsAce() || up.rank.IsTenValue()) && r.peek() {
		return r.transition(PhaseResolving, stateResolving)
	}
	return r.nextTurnState()
}

func stateInsurance(r *Round) RoundStateFn {
	for _, p := range r.order {
		if !p.Automated && !r.insured[p.ID] {
			return r.wait(stateInsurance)
		}
	}
	if r.peek() {
		return r.transition(PhaseResolving, stateResolving)
	}
	return r.nextTurnState()
}

func statePlayerTurn(r *Round) RoundStateFn {
	p := r.current()
	action, ok := r.pending[p.ID]
	if !ok {
		return r.wait(statePlayerTurn)
	}
	delete(r.pending, p.ID)
	r.play(p, action, r.recommend(p))
	return r.afterAction(p)
}

func stateAITurns(r *Round) RoundStateFn {
	p := r.current()
	h := p.Hand.Active()
	recommended := r.recommend(p)
	action := DecideActorAction(p.SkillLevel, recommended, h.Cards, r.rng)
	r.play(p, action, recommended)
	return r.afterAction(p)
}

func stateDealerTurn(r *Round) RoundStateFn {
	if !r.holeRevealed {
		r.revealHole()
		return stateDealerTurn
	}
	if r.hasLiveHands() && r.dealerShouldHit() {
		r.dealToDealer(true)
		return stateDealerTurn
	}
	return r.transition(PhaseResolving, stateResolving)
}

func stateResolving(r *Round) RoundStateFn {
	r.revealHole()
	dealerBJ := IsBlackjack(r.dealer.Cards)
	result := RoundResult{
		DealerCards: append([]Card(nil), r.dealer.Cards...),
		DealerTotal: r.dealer.Value(),
		TrueCount:   r.shoe.TrueCount(),
	}
	for _, p := range r.order {
		for i, h := range p.Hand.Playable() {
			res := ResolveHand(h, r.dealer.Cards, r.rules.BlackjackPayout)
			p.Chips += res.Returned
			hr := HandResult{
				PlayerID:  p.ID,
				Seat:      p.Seat,
				Automated: p.Automated,
				HandIndex: i,
				Cards:     append([]Card(nil), h.Cards...),
				Total:     h.Value(),
				Bet:       h.Bet,
				Outcome:   res.Outcome,
				Net:       res.Net,
			}
			if i == 0 && p.Insurance > 0 {
				hr.InsuranceNet = InsuranceNet(p.Insurance, dealerBJ)
				if dealerBJ {
					p.Chips += p.Insurance + hr.InsuranceNet
				}
			}
			result.Hands = append(result.Hands, hr)
		}
	}
	r.lastResult = &result
	r.log.Debugf("Round %d resolved: dealer %d, %d hands", r.number, result.DealerTotal, len(result.Hands))
	r.publish(EventRoundResult, result)
	return r.transition(PhaseRoundEnd, stateRoundEnd)
}

func stateRoundEnd(r *Round) RoundStateFn {
	if !r.nextHand {
		return r.wait(stateRoundEnd)
	}
	r.nextHand = false
	if r.shoe.NeedsReshuffle() {
		r.shoe.Reshuffle()
		r.publish(EventReshuffle, Reshuffle{ShoesDealt: r.shoe.ShoesDealt()})
	}
	r.reset()
	return r.transition(PhaseBetting, stateBetting)
}

func (r *Round) reset() {
	r.number++
	for _, p := range r.players {
		p.resetHand()
	}
	r.dealer = &Hand{}
	r.holeRevealed = false
	r.order = nil
	r.turn = 0
	r.lastResult = nil
	clear(r.finished)
	clear(r.betsIn)
	clear(r.insured)
	clear(r.pending)
}

// nextTurnState selects the next unfinished actor in seat order. Finished
// actors are never revisited.
func (r *Round) nextTurnState() RoundStateFn {
	for r.turn < len(r.order) {
		p := r.order[r.turn]
		if r.finished[p.ID] {
			r.turn++
			continue
		}
		if p.Hand.Done() {
			r.finished[p.ID] = true
			r.turn++
			continue
		}
		if p.Automated {
			return r.transition(PhaseAITurns, stateAITurns)
		}
		return r.transition(PhasePlayerTurn, statePlayerTurn)
	}
	return r.transition(PhaseDealerTurn, stateDealerTurn)
}

func (r *Round) afterAction(p *Player) RoundStateFn {
	if p.Hand.Done() {
		r.finished[p.ID] = true
		r.turn++
	}
	return r.nextTurnState()
}

func (r *Round) current() *Player {
	if r.turn < len(r.order) && (r.phase == PhasePlayerTurn || r.phase == PhaseAITurns) {
		return r.order[r.turn]
	}
	return nil
}

func (r *Round) activeID() string {
	if p := r.current(); p != nil {
		return p.ID
	}
	return ""
}

func (r *Round) draw() Card {
	d := r.shoe.DealOne()
	if d.Reshuffled {
		r.log.Infof("Cut card reached mid round %d, dealing from a fresh shoe", r.number)
		r.publish(EventReshuffle, Reshuffle{ShoesDealt: r.shoe.ShoesDealt(), MidRound: true})
	}
	return d.Card
}

func (r *Round) dealTo(p *Player, h *Hand, handIndex int) {
	c := r.draw()
	h.Cards = append(h.Cards, c)
	r.shoe.Reveal(c)
	r.publish(EventCardDealt, CardDealt{
		PlayerID:     p.ID,
		Seat:         p.Seat,
		HandIndex:    handIndex,
		Card:         &c,
		FaceUp:       true,
		RunningCount: r.shoe.RunningCount(),
		TrueCount:    r.shoe.TrueCount(),
	})
}

func (r *Round) dealToDealer(faceUp bool) {
	c := r.draw()
	r.dealer.Cards = append(r.dealer.Cards, c)
	ev := CardDealt{Seat: DealerSpeaker, Dealer: true, FaceUp: faceUp}
	if faceUp {
		r.shoe.Reveal(c)
		ev.Card = &c
	}
	ev.RunningCount = r.shoe.RunningCount()
	ev.TrueCount = r.shoe.TrueCount()
	r.publish(EventCardDealt, ev)
}

// revealHole turns the hole card over and counts it. It runs at most once
// per round.
func (r *Round) revealHole() {
	if r.holeRevealed || len(r.dealer.Cards) < 2 {
		return
	}
	r.holeRevealed = true
	hole := r.dealer.Cards[1]
	r.shoe.Reveal(hole)
	r.publish(EventCardDealt, CardDealt{
		Seat:         DealerSpeaker,
		Dealer:       true,
		Card:         &hole,
		FaceUp:       true,
		Reveal:       true,
		RunningCount: r.shoe.RunningCount(),
		TrueCount:    r.shoe.TrueCount(),
	})
}

func (r *Round) peek() bool {
	if !IsBlackjack(r.dealer.Cards) {
		return false
	}
	r.log.Debugf("Round %d: dealer blackjack on peek", r.number)
	r.revealHole()
	return true
}

func (r *Round) dealerShouldHit() bool {
	total := r.dealer.Value()
	if total < 17 {
		return true
	}
	return total == 17 && r.rules.DealerHitsSoft17 && IsSoft(r.dealer.Cards)
}

func (r *Round) hasLiveHands() bool {
	for _, p := range r.order {
		for _, h := range p.Hand.Playable() {
			if !h.Surrendered && !IsBusted(h.Cards) && !h.IsNatural() {
				return true
			}
		}
	}
	return false
}

func (r *Round) placeAutomatedBet(p *Player) {
	bet := p.BaseBet
	if bet < r.rules.MinBet {
		bet = r.rules.MinBet
	}
	if bet > r.rules.MaxBet {
		bet = r.rules.MaxBet
	}
	if bet > p.Chips {
		bet = p.Chips
	}
	ev := BetPlaced{
		PlayerID:     p.ID,
		Seat:         p.Seat,
		Automated:    true,
		RunningCount: r.shoe.RunningCount(),
		TrueCount:    r.shoe.TrueCount(),
	}
	if bet < r.rules.MinBet {
		p.SatOut = true
		ev.SatOut = true
	} else {
		p.Chips -= bet
		p.Hand.Bet = bet
		ev.Amount = bet
	}
	r.publish(EventBetPlaced, ev)
}

func (r *Round) insureAutomated() {
	if r.insuranceRate < 0 {
		return
	}
	for _, p := range r.order {
		if !p.Automated || r.rng.Intn(100) >= r.insuranceRate {
			continue
		}
		stake := p.Hand.Bet / 2
		if stake > p.Chips {
			stake = p.Chips
		}
		if stake <= 0 {
			continue
		}
		p.Chips -= stake
		p.Insurance = stake
		r.publish(EventInsurance, InsuranceDecision{PlayerID: p.ID, Stake: stake})
	}
}

func (r *Round) options(p *Player, h *Hand) Options {
	return Options{
		CanSplit:     !p.Hand.HasSplit() && CanSplit(h.Cards, r.rules.SplitTenValues) && p.Chips >= h.Bet,
		CanDouble:    r.rules.CanDoubleHand(h, p.Chips),
		CanSurrender: r.rules.LateSurrender && !p.Hand.HasSplit() && len(h.Cards) == 2,
	}
}

func (r *Round) recommend(p *Player) Action {
	h := p.Hand.Active()
	return BasicStrategyAction(h.Cards, r.dealer.Cards[0], r.rules, r.options(p, h))
}

func (r *Round) play(p *Player, action, recommended Action) {
	h := p.Hand.Active()
	idx := 0
	if p.Hand.HasSplit() {
		idx = p.Hand.ActiveSplitIndex
	}
	opts := r.options(p, h)
	r.publish(EventPlayerAction, PlayerAction{
		PlayerID:    p.ID,
		Seat:        p.Seat,
		Automated:   p.Automated,
		HandIndex:   idx,
		Action:      action,
		Recommended: recommended,
		TrueCount:   r.shoe.TrueCount(),
	})

	switch action {
	case ActionHit:
		r.dealTo(p, h, idx)
	case ActionStand:
		h.Stood = true
	case ActionDouble:
		if !opts.CanDouble {
			panic(fmt.Sprintf("blackjack: %s cannot double %v", p.ID, h.Cards))
		}
		p.Chips -= h.Bet
		h.Bet *= 2
		h.Doubled = true
		r.dealTo(p, h, idx)
	case ActionSplit:
		if !opts.CanSplit {
			panic(fmt.Sprintf("blackjack: %s cannot split %v", p.ID, h.Cards))
		}
		r.split(p)
	case ActionSurrender:
		h.Surrendered = true
	default:
		panic(fmt.Sprintf("blackjack: unknown action %q", action))
	}
	r.log.Tracef("Round %d: %s %s (recommended %s), total %d", r.number, p.ID, action, recommended, h.Value())
}

func (r *Round) split(p *Player) {
	h := p.Hand
	p.Chips -= h.Bet
	first := &Hand{Cards: []Card{h.Cards[0]}, Bet: h.Bet, IsSplit: true}
	second := &Hand{Cards: []Card{h.Cards[1]}, Bet: h.Bet, IsSplit: true}
	aces := h.Cards[0].IsAce()
	h.Cards = nil
	h.SplitHands = []*Hand{first, second}
	h.ActiveSplitIndex = 0
	r.dealTo(p, first, 0)
	r.dealTo(p, second, 1)
	if aces {
		first.Stood = true
		second.Stood = true
	}
}

// PlaceBet records a human player's bet for the coming hand. The chips are
// taken from the player's stack immediately.
func (r *Round) PlaceBet(playerID string, amount int64) error {
	p, err := r.bettingPlayer(playerID)
	if err != nil {
		return err
	}
	if err := r.rules.ValidateBet(amount, p.Chips); err != nil {
		return err
	}
	p.Chips -= amount
	p.Hand.Bet = amount
	r.betsIn[p.ID] = true
	r.publish(EventBetPlaced, BetPlaced{
		PlayerID:     p.ID,
		Seat:         p.Seat,
		Amount:       amount,
		RunningCount: r.shoe.RunningCount(),
		TrueCount:    r.shoe.TrueCount(),
	})
	return nil
}

// SitOut records that a human player skips the coming hand.
func (r *Round) SitOut(playerID string) error {
	p, err := r.bettingPlayer(playerID)
	if err != nil {
		return err
	}
	p.SatOut = true
	r.betsIn[p.ID] = true
	r.publish(EventBetPlaced, BetPlaced{
		PlayerID:     p.ID,
		Seat:         p.Seat,
		SatOut:       true,
		RunningCount: r.shoe.RunningCount(),
		TrueCount:    r.shoe.TrueCount(),
	})
	return nil
}

func (r *Round) bettingPlayer(playerID string) (*Player, error) {
	if r.phase != PhaseBetting {
		return nil, fmt.Errorf("%w: betting is closed (%s)", ErrWrongPhase, r.phase)
	}
	p := r.Player(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if p.Automated {
		return nil, fmt.Errorf("%w: %s is automated", ErrInvalidAction, playerID)
	}
	if r.betsIn[p.ID] {
		return nil, fmt.Errorf("%w: %s already bet", ErrAlreadyDecided, playerID)
	}
	return p, nil
}

// Insure places an insurance stake of up to half the player's bet.
func (r *Round) Insure(playerID string, stake int64) error {
	p, err := r.insurancePlayer(playerID)
	if err != nil {
		return err
	}
	if stake <= 0 || stake > p.Hand.Bet/2 || stake > p.Chips {
		return fmt.Errorf("%w: %d (bet %d, chips %d)", ErrInvalidInsurance, stake, p.Hand.Bet, p.Chips)
	}
	p.Chips -= stake
	p.Insurance = stake
	r.insured[p.ID] = true
	r.publish(EventInsurance, InsuranceDecision{PlayerID: p.ID, Stake: stake})
	return nil
}

// DeclineInsurance records that the player does not insure.
func (r *Round) DeclineInsurance(playerID string) error {
	p, err := r.insurancePlayer(playerID)
	if err != nil {
		return err
	}
	r.insured[p.ID] = true
	r.publish(EventInsurance, InsuranceDecision{PlayerID: p.ID})
	return nil
}

func (r *Round) insurancePlayer(playerID string) (*Player, error) {
	if r.phase != PhaseInsurance {
		return nil, fmt.Errorf("%w: insurance is not offered (%s)", ErrWrongPhase, r.phase)
	}
	p := r.Player(playerID)
	if p == nil || !p.InRound() || p.Automated {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if r.insured[p.ID] {
		return nil, fmt.Errorf("%w: %s already decided on insurance", ErrAlreadyDecided, playerID)
	}
	return p, nil
}

// Act records the acting player's decision. Splits and doubles must be
// checked with LegalActions first; asking for an ineligible one panics.
func (r *Round) Act(playerID string, action Action) error {
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("%w: no player turn (%s)", ErrWrongPhase, r.phase)
	}
	p := r.current()
	if p == nil || p.ID != playerID {
		return fmt.Errorf("%w: %s", ErrNotYourTurn, playerID)
	}
	if _, ok := r.pending[p.ID]; ok {
		return fmt.Errorf("%w: %s already acted", ErrAlreadyDecided, playerID)
	}
	opts := r.options(p, p.Hand.Active())
	switch action {
	case ActionHit, ActionStand:
	case ActionDouble:
		if !opts.CanDouble {
			panic(fmt.Sprintf("blackjack: %s asked to double an ineligible hand", playerID))
		}
	case ActionSplit:
		if !opts.CanSplit {
			panic(fmt.Sprintf("blackjack: %s asked to split an ineligible hand", playerID))
		}
	case ActionSurrender:
		if !opts.CanSurrender {
			return fmt.Errorf("%w: surrender not available", ErrInvalidAction)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}
	r.pending[p.ID] = action
	return nil
}

// LegalActions returns the actions the player may take now. It is empty when
// it is not the player's turn or an action is already queued.
func (r *Round) LegalActions(playerID string) []Action {
	p := r.current()
	if r.phase != PhasePlayerTurn || p == nil || p.ID != playerID {
		return nil
	}
	if _, queued := r.pending[p.ID]; queued {
		return nil
	}
	opts := r.options(p, p.Hand.Active())
	actions := []Action{ActionHit, ActionStand}
	if opts.CanDouble {
		actions = append(actions, ActionDouble)
	}
	if opts.CanSplit {
		actions = append(actions, ActionSplit)
	}
	if opts.CanSurrender {
		actions = append(actions, ActionSurrender)
	}
	return actions
}

// Recommendation returns the basic strategy play for the acting player.
func (r *Round) Recommendation(playerID string) (Action, bool) {
	p := r.current()
	if p == nil || p.ID != playerID {
		return "", false
	}
	return r.recommend(p), true
}

// NextHand lets a finished round move on to betting.
func (r *Round) NextHand() error {
	if r.phase != PhaseRoundEnd {
		return fmt.Errorf("%w: round still running (%s)", ErrWrongPhase, r.phase)
	}
	r.nextHand = true
	return nil
}

// AddPlayer seats a player. Players join only between hands.
func (r *Round) AddPlayer(p *Player) error {
	if r.phase != PhaseBetting && r.phase != PhaseRoundEnd {
		return fmt.Errorf("%w: cannot seat %s during %s", ErrWrongPhase, p.ID, r.phase)
	}
	for _, other := range r.players {
		if other.Seat == p.Seat {
			return fmt.Errorf("%w: seat %d", ErrSeatTaken, p.Seat)
		}
		if other.ID == p.ID {
			return fmt.Errorf("player %s already seated", p.ID)
		}
	}
	if p.Hand == nil {
		p.Hand = &Hand{}
	}
	r.players = append(r.players, p)
	sort.Slice(r.players, func(i, j int) bool {
		return r.players[i].Seat < r.players[j].Seat
	})
	return nil
}

// RemovePlayer unseats a player between hands, refunding a pending bet.
func (r *Round) RemovePlayer(playerID string) (*Player, error) {
	if r.phase != PhaseBetting && r.phase != PhaseRoundEnd {
		return nil, fmt.Errorf("%w: cannot leave during %s", ErrWrongPhase, r.phase)
	}
	for i, p := range r.players {
		if p.ID != playerID {
			continue
		}
		if r.phase == PhaseBetting {
			p.Chips += p.Hand.TotalBet()
			p.resetHand()
			delete(r.betsIn, p.ID)
		}
		r.players = append(r.players[:i], r.players[i+1:]...)
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
}

// Player returns the seated player with the id, or nil.
func (r *Round) Player(playerID string) *Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// Players returns the seated players in seat order.
func (r *Round) Players() []*Player {
	return append([]*Player(nil), r.players...)
}

// Phase returns the current phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Number returns the hand number, starting at one.
func (r *Round) Number() int {
	return r.number
}

// Shoe returns the shoe cards are dealt from.
func (r *Round) Shoe() *Shoe {
	return r.shoe
}

// Rules returns the table rules.
func (r *Round) Rules() Rules {
	return r.rules
}

// ActivePlayer returns the id of the actor whose turn it is.
func (r *Round) ActivePlayer() string {
	return r.activeID()
}

// Finished reports whether the player is done for this round.
func (r *Round) Finished(playerID string) bool {
	return r.finished[playerID]
}

// DealerUpCard returns the dealer's face up card.
func (r *Round) DealerUpCard() (Card, bool) {
	if len(r.dealer.Cards) == 0 {
		return Card{}, false
	}
	return r.dealer.Cards[0], true
}

// LastResult returns the settlement of the hand once it is resolved.
func (r *Round) LastResult() *RoundResult {
	return r.lastResult
}
