package server

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/vctt94/cardcounter/pkg/blackjack"
)

// TableEvent is an engine event queued for delivery and persistence.
type TableEvent struct {
	Event     blackjack.Event
	Timestamp time.Time

	// barrier is closed once every earlier event of the table was handled.
	barrier chan struct{}
}

// EventHandler handles events taken off the queue.
type EventHandler interface {
	HandleEvent(ev *TableEvent)
}

// EventProcessor hands table events to handlers on a pool of workers. All
// events of a table go to the same worker so they are handled in order.
type EventProcessor struct {
	log      slog.Logger
	handlers []EventHandler
	workers  []*eventWorker
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// eventWorker processes events from its queue
type eventWorker struct {
	id        int
	processor *EventProcessor
	queue     chan *TableEvent
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(log slog.Logger, queueSize, workerCount int, handlers ...EventHandler) *EventProcessor {
	if workerCount < 1 {
		workerCount = 1
	}
	processor := &EventProcessor{
		log:      log,
		handlers: handlers,
		stopChan: make(chan struct{}),
	}

	processor.workers = make([]*eventWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		processor.workers[i] = &eventWorker{
			id:        i,
			processor: processor,
			queue:     make(chan *TableEvent, queueSize),
		}
	}

	return processor
}

// Start begins processing events
func (ep *EventProcessor) Start() {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if ep.started {
		return
	}

	ep.started = true
	ep.log.Infof("Starting event processor with %d workers", len(ep.workers))

	for _, worker := range ep.workers {
		ep.wg.Add(1)
		go worker.run()
	}
}

// Stop gracefully stops the event processor. Queued events are handled
// before it returns.
func (ep *EventProcessor) Stop() {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if !ep.started {
		return
	}

	ep.log.Infof("Stopping event processor...")
	close(ep.stopChan)
	ep.wg.Wait()
	ep.started = false
	ep.log.Infof("Event processor stopped")
}

func (ep *EventProcessor) worker(tableID string) *eventWorker {
	h := fnv.New32a()
	h.Write([]byte(tableID))
	return ep.workers[h.Sum32()%uint32(len(ep.workers))]
}

// PublishEvent queues an event. It waits for room in the queue and drops
// the event only once the processor is stopping.
func (ep *EventProcessor) PublishEvent(event blackjack.Event) {
	ev := &TableEvent{Event: event, Timestamp: time.Now()}
	select {
	case ep.worker(event.TableID).queue <- ev:
	case <-ep.stopChan:
		ep.log.Warnf("Event processor stopped, dropping event: %s for table %s", event.Type, event.TableID)
	}
}

// Sync waits until every event of the table published before the call was
// handled.
func (ep *EventProcessor) Sync(tableID string) {
	ev := &TableEvent{
		Event:   blackjack.Event{TableID: tableID},
		barrier: make(chan struct{}),
	}
	select {
	case ep.worker(tableID).queue <- ev:
	case <-ep.stopChan:
		return
	}
	select {
	case <-ev.barrier:
	case <-ep.stopChan:
	}
}

// run executes the worker loop
func (w *eventWorker) run() {
	defer w.processor.wg.Done()
	w.processor.log.Debugf("Event worker %d started", w.id)

	for {
		select {
		case event := <-w.queue:
			w.processEvent(event)

		case <-w.processor.stopChan:
			for {
				select {
				case event := <-w.queue:
					w.processEvent(event)
				default:
					w.processor.log.Debugf("Event worker %d stopping", w.id)
					return
				}
			}
		}
	}
}

// processEvent processes a single event using all registered handlers
func (w *eventWorker) processEvent(event *TableEvent) {
	if event.barrier != nil {
		close(event.barrier)
		return
	}
	w.processor.log.Tracef("Worker %d processing event: %s for table %s", w.id, event.Event.Type, event.Event.TableID)
	for _, h := range w.processor.handlers {
		h.HandleEvent(event)
	}
}
