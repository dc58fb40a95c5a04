package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/slog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/config"
	"github.com/vctt94/cardcounter/pkg/logging"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/server/internal/db"
	"github.com/vctt94/cardcounter/pkg/table"
)

// EventStreamStarted is the first event of every stream. Its payload is the
// table snapshot at subscription time.
const EventStreamStarted blackjack.EventType = "stream_started"

var errTableNotFound = errors.New("table not found")

// Config configures a Server.
type Config struct {
	Settings   *config.Config
	DB         Database
	LogBackend *logging.LogBackend

	// NewScheduler creates the clock of each table. A wall clock
	// TimerScheduler is used when nil.
	NewScheduler func() blackjack.Scheduler

	EventQueueSize int
	EventWorkers   int
}

type tableEntry struct {
	table *table.Table
	sched blackjack.Scheduler
}

// Server implements tablerpc.TableServiceServer.
type Server struct {
	log        slog.Logger
	logBackend *logging.LogBackend
	settings   *config.Config
	db         Database
	newSched   func() blackjack.Scheduler

	tables   map[string]*tableEntry
	seated   map[string]string // playerID -> tableID
	tableSeq atomic.Uint64
	mu       sync.RWMutex

	// Event streaming
	streams   map[string]map[string]*EventStream // tableID -> playerID -> stream
	streamsMu sync.RWMutex

	eventProcessor *EventProcessor
}

var _ tablerpc.TableServiceServer = (*Server)(nil)

// NewServer creates a blackjack server.
func NewServer(cfg Config) *Server {
	if cfg.Settings == nil {
		cfg.Settings = config.Default("")
	}
	if cfg.NewScheduler == nil {
		cfg.NewScheduler = func() blackjack.Scheduler { return blackjack.NewTimerScheduler() }
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = 1000
	}
	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = 3
	}

	s := &Server{
		log:        cfg.LogBackend.Logger("SRVR"),
		logBackend: cfg.LogBackend,
		settings:   cfg.Settings,
		db:         cfg.DB,
		newSched:   cfg.NewScheduler,
		tables:     make(map[string]*tableEntry),
		seated:     make(map[string]string),
		streams:    make(map[string]map[string]*EventStream),
	}
	s.eventProcessor = NewEventProcessor(s.log, cfg.EventQueueSize, cfg.EventWorkers,
		NewNotificationHandler(s), NewPersistenceHandler(s))
	s.eventProcessor.Start()
	return s
}

// Stop closes every table, stores the sessions of seated players and
// stops event processing.
func (s *Server) Stop() {
	s.mu.Lock()
	entries := make(map[string]*tableEntry, len(s.tables))
	for id, e := range s.tables {
		entries[id] = e
	}
	s.tables = make(map[string]*tableEntry)
	s.mu.Unlock()

	for id, e := range entries {
		s.closeTable(id, e)
	}
	s.eventProcessor.Stop()
}

func (s *Server) closeTable(tableID string, e *tableEntry) {
	e.table.Stop()
	if stopper, ok := e.sched.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	if human := e.table.HumanID(); human != "" {
		s.eventProcessor.Sync(tableID)
		s.saveSession(human, e.table)
		s.mu.Lock()
		delete(s.seated, human)
		s.mu.Unlock()
	}
	s.closeTableStreams(tableID)
}

func (s *Server) saveSession(playerID string, t *table.Table) {
	if err := s.db.SaveSessionStats(sessionRecord(playerID, t.ID(), t.Stats())); err != nil {
		s.log.Errorf("Failed to save session of %s at %s: %v", playerID, t.ID(), err)
	}
}

func (s *Server) getTable(tableID string) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tables[tableID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "%v: %s", errTableNotFound, tableID)
	}
	return e.table, nil
}

// Tables returns the open tables ordered by creation.
func (s *Server) Tables() []*table.Table {
	s.mu.RLock()
	out := make([]*table.Table, 0, len(s.tables))
	for _, e := range s.tables {
		out = append(out, e.table)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

// rpcError maps engine errors to gRPC status codes.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := codes.Internal
	switch {
	case errors.Is(err, blackjack.ErrUnknownPlayer), errors.Is(err, db.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, blackjack.ErrWrongPhase), errors.Is(err, blackjack.ErrNotYourTurn),
		errors.Is(err, blackjack.ErrAlreadyDecided), errors.Is(err, table.ErrNoPrompt):
		code = codes.FailedPrecondition
	case errors.Is(err, blackjack.ErrInvalidBet), errors.Is(err, blackjack.ErrInvalidAction),
		errors.Is(err, blackjack.ErrInvalidInsurance):
		code = codes.InvalidArgument
	case errors.Is(err, blackjack.ErrSeatTaken), errors.Is(err, table.ErrOccupied):
		code = codes.AlreadyExists
	}
	return status.Error(code, err.Error())
}

// CreateTable opens a table with its automated players seated.
func (s *Server) CreateTable(ctx context.Context, req *tablerpc.CreateTableRequest) (*tablerpc.CreateTableResponse, error) {
	rules := s.settings.Rules
	switch {
	case req.Rules != nil:
		rules = *req.Rules
	case req.Preset != "":
		preset, ok := blackjack.Presets[req.Preset]
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "unknown preset %q", req.Preset)
		}
		rules = preset()
	}
	if err := rules.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	id := fmt.Sprintf("table_%d_%d", time.Now().Unix(), s.tableSeq.Add(1))
	sched := s.newSched()
	cfg := s.settings.TableConfig(id, s.logBackend.Logger("TABLE"), rand.New(rand.NewSource(seed)), sched)
	cfg.Rules = rules
	if req.StepDelayMs > 0 {
		cfg.StepDelay = time.Duration(req.StepDelayMs) * time.Millisecond
	}

	t, err := table.NewTable(cfg)
	if err != nil {
		return nil, rpcError(err)
	}
	t.Events().Subscribe(s.eventProcessor.PublishEvent)

	s.mu.Lock()
	s.tables[id] = &tableEntry{table: t, sched: sched}
	s.mu.Unlock()
	t.Start()

	s.log.Infof("Created table %s for %s (%d decks, seed %d)", id, req.PlayerID, rules.NumDecks, seed)
	return &tablerpc.CreateTableResponse{TableID: id, Rules: rules}, nil
}

// JoinTable seats a player with their stored bankroll. New players are
// granted the configured starting chips.
func (s *Server) JoinTable(ctx context.Context, req *tablerpc.JoinTableRequest) (*tablerpc.StateResponse, error) {
	if req.PlayerID == "" {
		return nil, status.Error(codes.InvalidArgument, "player id is required")
	}
	t, err := s.getTable(req.TableID)
	if err != nil {
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = req.PlayerID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if at, ok := s.seated[req.PlayerID]; ok {
		return nil, status.Errorf(codes.AlreadyExists, "%s is already seated at %s", req.PlayerID, at)
	}
	if _, err := s.db.CreatePlayer(req.PlayerID, name, s.settings.Table.StartingChips); err != nil {
		return nil, rpcError(err)
	}
	balance, err := s.db.GetPlayerBalance(req.PlayerID)
	if err != nil {
		return nil, rpcError(err)
	}
	if balance < t.Rules().MinBet {
		return nil, status.Errorf(codes.FailedPrecondition, "balance %d is below the table minimum %d",
			balance, t.Rules().MinBet)
	}
	seat := req.Seat
	if seat == 0 {
		seat = s.settings.Table.HumanSeat
	}
	if err := t.Join(req.PlayerID, name, seat, balance); err != nil {
		return nil, rpcError(err)
	}
	s.seated[req.PlayerID] = req.TableID
	return &tablerpc.StateResponse{State: t.Snapshot()}, nil
}

// LeaveTable unseats a player between hands and stores the session.
func (s *Server) LeaveTable(ctx context.Context, req *tablerpc.LeaveTableRequest) (*tablerpc.LeaveTableResponse, error) {
	t, err := s.getTable(req.TableID)
	if err != nil {
		return nil, err
	}
	p, err := t.Leave(req.PlayerID)
	if err != nil {
		return nil, rpcError(err)
	}
	s.eventProcessor.Sync(req.TableID)
	s.saveSession(req.PlayerID, t)

	s.mu.Lock()
	delete(s.seated, req.PlayerID)
	s.mu.Unlock()

	s.log.Infof("%s left %s with %d chips", req.PlayerID, req.TableID, p.Chips)
	return &tablerpc.LeaveTableResponse{Chips: p.Chips, Stats: t.Stats()}, nil
}

func (s *Server) tableOp(tableID string, op func(*table.Table) error) (*tablerpc.StateResponse, error) {
	t, err := s.getTable(tableID)
	if err != nil {
		return nil, err
	}
	if err := op(t); err != nil {
		return nil, rpcError(err)
	}
	return &tablerpc.StateResponse{State: t.Snapshot()}, nil
}

func (s *Server) PlaceBet(ctx context.Context, req *tablerpc.BetRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(t *table.Table) error {
		return t.PlaceBet(req.PlayerID, req.Amount)
	})
}

func (s *Server) SitOut(ctx context.Context, req *tablerpc.PlayerRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(t *table.Table) error {
		return t.SitOut(req.PlayerID)
	})
}

func (s *Server) Insure(ctx context.Context, req *tablerpc.InsureRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(t *table.Table) error {
		return t.Insure(req.PlayerID, req.Stake)
	})
}

func (s *Server) Act(ctx context.Context, req *tablerpc.ActRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(t *table.Table) error {
		return t.Act(req.PlayerID, req.Action)
	})
}

func (s *Server) NextHand(ctx context.Context, req *tablerpc.PlayerRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(t *table.Table) error {
		if t.HumanID() != req.PlayerID {
			return fmt.Errorf("%w: %s", blackjack.ErrUnknownPlayer, req.PlayerID)
		}
		return t.NextHand()
	})
}

func (s *Server) Converse(ctx context.Context, req *tablerpc.ConverseRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(t *table.Table) error {
		return t.Converse(req.PlayerID, req.Response)
	})
}

func (s *Server) GetState(ctx context.Context, req *tablerpc.PlayerRequest) (*tablerpc.StateResponse, error) {
	return s.tableOp(req.TableID, func(*table.Table) error { return nil })
}

// StreamEvents sends the table's events until the client goes away, the
// player opens another stream or the table closes.
func (s *Server) StreamEvents(req *tablerpc.PlayerRequest, stream tablerpc.TableService_StreamEventsServer) error {
	t, err := s.getTable(req.TableID)
	if err != nil {
		return err
	}
	es := s.addStream(req.TableID, req.PlayerID)
	defer s.removeStream(es)

	first, err := tablerpc.NewEvent(blackjack.Event{
		Type:    EventStreamStarted,
		TableID: req.TableID,
		Payload: t.Snapshot(),
	}, time.Now())
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	if err := stream.Send(first); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case <-es.done:
			return nil
		case ev := <-es.events:
			if err := stream.Send(ev); err != nil {
				s.log.Debugf("Event stream of %s at %s closed: %v", req.PlayerID, req.TableID, err)
				return err
			}
		}
	}
}
