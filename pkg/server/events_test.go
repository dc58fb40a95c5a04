package server

import (
	"testing"

	"github.com/decred/slog"

	"github.com/vctt94/cardcounter/pkg/blackjack"
)

type handlerFunc func(*TableEvent)

func (f handlerFunc) HandleEvent(ev *TableEvent) { f(ev) }

// TestEventProcessorStartPublishStop verifies that events queued before the
// processor starts are handled and that Stop drains the queue.
func TestEventProcessorStartPublishStop(t *testing.T) {
	var handled []blackjack.EventType
	h := handlerFunc(func(ev *TableEvent) { handled = append(handled, ev.Event.Type) })
	ep := NewEventProcessor(slog.Disabled, 4, 2, h)

	// Queued events wait for the workers.
	ep.PublishEvent(blackjack.Event{Type: blackjack.EventReshuffle, TableID: "tid"})
	ep.PublishEvent(blackjack.Event{Type: blackjack.EventRoundResult, TableID: "tid"})

	ep.Start()
	ep.Start()
	ep.Stop()
	ep.Stop() // call twice to ensure idempotency

	if len(handled) != 2 {
		t.Fatalf("expected 2 handled events, got %d", len(handled))
	}
	if handled[0] != blackjack.EventReshuffle || handled[1] != blackjack.EventRoundResult {
		t.Fatalf("events handled out of order: %v", handled)
	}
}

// TestEventProcessorSync ensures Sync returns only after every earlier event
// of the table went through the handlers.
func TestEventProcessorSync(t *testing.T) {
	var handled []int
	h := handlerFunc(func(ev *TableEvent) { handled = append(handled, ev.Event.Round) })
	ep := NewEventProcessor(slog.Disabled, 4, 3, h)
	ep.Start()
	defer ep.Stop()

	for i := 1; i <= 10; i++ {
		ep.PublishEvent(blackjack.Event{TableID: "t1", Round: i})
	}
	ep.Sync("t1")
	if len(handled) != 10 {
		t.Fatalf("expected 10 handled events, got %d", len(handled))
	}
	for i, round := range handled {
		if round != i+1 {
			t.Fatalf("event %d handled at position %d", round, i)
		}
	}
}

// TestSyncAfterStop must not block once the processor stopped.
func TestSyncAfterStop(t *testing.T) {
	ep := NewEventProcessor(slog.Disabled, 1, 1)
	ep.Start()
	ep.Stop()
	ep.Sync("t1")
}
