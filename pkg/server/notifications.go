package server

import (
	"fmt"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
)

// eventStreamBuffer is how many events a slow client may fall behind
// before events are dropped for it.
const eventStreamBuffer = 256

// EventStream is a client's subscription to a table's events.
type EventStream struct {
	playerID string
	tableID  string
	events   chan *tablerpc.Event
	done     chan struct{}
}

// addStream registers a stream, replacing the player's previous stream at
// the table.
func (s *Server) addStream(tableID, playerID string) *EventStream {
	es := &EventStream{
		playerID: playerID,
		tableID:  tableID,
		events:   make(chan *tablerpc.Event, eventStreamBuffer),
		done:     make(chan struct{}),
	}

	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()
	streams := s.streams[tableID]
	if streams == nil {
		streams = make(map[string]*EventStream)
		s.streams[tableID] = streams
	}
	if old, ok := streams[playerID]; ok {
		close(old.done)
	}
	streams[playerID] = es
	return es
}

// removeStream unregisters es unless it was already replaced.
func (s *Server) removeStream(es *EventStream) {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()
	streams := s.streams[es.tableID]
	if cur, ok := streams[es.playerID]; ok && cur == es {
		delete(streams, es.playerID)
		close(es.done)
	}
	if len(streams) == 0 {
		delete(s.streams, es.tableID)
	}
}

// closeTableStreams ends every stream of a table.
func (s *Server) closeTableStreams(tableID string) {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()
	for _, es := range s.streams[tableID] {
		close(es.done)
	}
	delete(s.streams, tableID)
}

// broadcastToTable sends an event to every stream of the table.
func (s *Server) broadcastToTable(tableID string, ev *tablerpc.Event) {
	s.streamsMu.RLock()
	defer s.streamsMu.RUnlock()
	for _, es := range s.streams[tableID] {
		select {
		case es.events <- ev:
		default:
			s.log.Warnf("Event stream of %s at %s is full, dropping %s", es.playerID, tableID, ev.Type)
		}
	}
}

// NotificationHandler forwards table events to the event streams.
type NotificationHandler struct {
	server *Server
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(s *Server) *NotificationHandler {
	return &NotificationHandler{server: s}
}

// HandleEvent implements EventHandler.
func (h *NotificationHandler) HandleEvent(ev *TableEvent) {
	wire, err := tablerpc.NewEvent(ev.Event, ev.Timestamp)
	if err != nil {
		h.server.log.Errorf("Failed to encode %s event: %v", ev.Event.Type, err)
		return
	}
	h.server.broadcastToTable(ev.Event.TableID, wire)
}

// PersistenceHandler books every settled round on the human's bankroll.
type PersistenceHandler struct {
	server *Server
}

// NewPersistenceHandler creates a persistence handler.
func NewPersistenceHandler(s *Server) *PersistenceHandler {
	return &PersistenceHandler{server: s}
}

// HandleEvent implements EventHandler.
func (h *PersistenceHandler) HandleEvent(ev *TableEvent) {
	res, ok := ev.Event.Payload.(blackjack.RoundResult)
	if !ok {
		return
	}
	booked := make(map[string]bool)
	for _, hand := range res.Hands {
		if hand.Automated || booked[hand.PlayerID] {
			continue
		}
		booked[hand.PlayerID] = true
		net, _, _ := res.NetFor(hand.PlayerID)
		desc := fmt.Sprintf("table %s round %d", ev.Event.TableID, ev.Event.Round)
		if err := h.server.db.UpdatePlayerBalance(hand.PlayerID, net, "round", desc); err != nil {
			h.server.log.Errorf("Failed to book %s for %s: %v", desc, hand.PlayerID, err)
		}
	}
}
