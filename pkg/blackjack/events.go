package blackjack

import (
	"slices"
	"sync"

	"github.com/decred/slog"
)

// EventType identifies a notification emitted by the engine.
type EventType string

const (
	EventPhaseChanged     EventType = "phase_changed"
	EventCardDealt        EventType = "card_dealt"
	EventReshuffle        EventType = "reshuffle"
	EventBetPlaced        EventType = "bet_placed"
	EventInsurance        EventType = "insurance"
	EventPlayerAction     EventType = "player_action"
	EventRoundResult      EventType = "round_result"
	EventSuspicionChanged EventType = "suspicion_changed"
	EventDealerComment    EventType = "dealer_comment"
	EventDealerReport     EventType = "dealer_report"
	EventDealerChanged    EventType = "dealer_changed"
	EventSeatChanged      EventType = "seat_changed"
	EventMessage          EventType = "message"
)

// Event is a notification with a type specific payload.
type Event struct {
	Type    EventType
	TableID string
	Round   int
	Payload interface{}
}

// PhaseChange is the payload of EventPhaseChanged.
type PhaseChange struct {
	From         Phase  `json:"from"`
	To           Phase  `json:"to"`
	ActivePlayer string `json:"activePlayer,omitempty"`
}

// CardDealt is the payload of EventCardDealt. Hole cards are published face
// down with a zero Card and published again when revealed.
type CardDealt struct {
	PlayerID     string  `json:"playerId,omitempty"`
	Seat         int     `json:"seat"`
	Dealer       bool    `json:"dealer"`
	HandIndex    int     `json:"handIndex"`
	Card         *Card   `json:"card,omitempty"`
	FaceUp       bool    `json:"faceUp"`
	Reveal       bool    `json:"reveal,omitempty"`
	RunningCount int     `json:"runningCount"`
	TrueCount    float64 `json:"trueCount"`
}

// Reshuffle is the payload of EventReshuffle.
type Reshuffle struct {
	ShoesDealt int  `json:"shoesDealt"`
	MidRound   bool `json:"midRound"`
}

// BetPlaced is the payload of EventBetPlaced. A sit out is reported with
// SatOut set and a zero amount.
type BetPlaced struct {
	PlayerID     string  `json:"playerId"`
	Seat         int     `json:"seat"`
	Automated    bool    `json:"automated"`
	Amount       int64   `json:"amount"`
	SatOut       bool    `json:"satOut"`
	RunningCount int     `json:"runningCount"`
	TrueCount    float64 `json:"trueCount"`
}

// InsuranceDecision is the payload of EventInsurance.
type InsuranceDecision struct {
	PlayerID string `json:"playerId"`
	Stake    int64  `json:"stake"`
}

// PlayerAction is the payload of EventPlayerAction.
type PlayerAction struct {
	PlayerID    string  `json:"playerId"`
	Seat        int     `json:"seat"`
	Automated   bool    `json:"automated"`
	HandIndex   int     `json:"handIndex"`
	Action      Action  `json:"action"`
	Recommended Action  `json:"recommended"`
	TrueCount   float64 `json:"trueCount"`
}

// HandResult is the settlement of one hand.
type HandResult struct {
	PlayerID     string  `json:"playerId"`
	Seat         int     `json:"seat"`
	Automated    bool    `json:"automated"`
	HandIndex    int     `json:"handIndex"`
	Cards        []Card  `json:"cards"`
	Total        int     `json:"total"`
	Bet          int64   `json:"bet"`
	Outcome      Outcome `json:"outcome"`
	Net          int64   `json:"net"`
	InsuranceNet int64   `json:"insuranceNet,omitempty"`
}

// RoundResult is the payload of EventRoundResult.
type RoundResult struct {
	Hands       []HandResult `json:"hands"`
	DealerCards []Card       `json:"dealerCards"`
	DealerTotal int          `json:"dealerTotal"`
	TrueCount   float64      `json:"trueCount"`
}

// NetFor sums the chip change of every hand played by playerID, insurance
// included.
func (rr RoundResult) NetFor(playerID string) (net, staked int64, played bool) {
	for _, h := range rr.Hands {
		if h.PlayerID != playerID {
			continue
		}
		played = true
		net += h.Net + h.InsuranceNet
		staked += h.Bet
	}
	return net, staked, played
}

// Message is the payload of EventMessage: text to show next to a speaker.
// Speaker is a seat number, or -1 for the dealer.
type Message struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Speaker int    `json:"speaker"`
}

// DealerSpeaker is the Message speaker position of the dealer.
const DealerSpeaker = -1

// EventManager fans events out to synchronous listeners and an optional
// channel. Channel sends never block.
type EventManager struct {
	log          slog.Logger
	mu           sync.RWMutex
	listeners    []func(Event)
	eventChannel chan<- Event
}

// NewEventManager creates an event manager.
func NewEventManager(log slog.Logger) *EventManager {
	if log == nil {
		log = slog.Disabled
	}
	return &EventManager{log: log}
}

// SetEventChannel sets the event channel for the event manager
func (em *EventManager) SetEventChannel(eventChannel chan<- Event) {
	em.mu.Lock()
	em.eventChannel = eventChannel
	em.mu.Unlock()
}

// Subscribe registers a listener called synchronously for every event, in
// subscription order.
func (em *EventManager) Subscribe(fn func(Event)) {
	em.mu.Lock()
	em.listeners = append(em.listeners, fn)
	em.mu.Unlock()
}

// Publish delivers an event to the listeners and then to the channel.
func (em *EventManager) Publish(ev Event) {
	em.mu.RLock()
	listeners := slices.Clone(em.listeners)
	ch := em.eventChannel
	em.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
		em.log.Warnf("Event channel full, dropping %s event for table %s", ev.Type, ev.TableID)
	}
}
