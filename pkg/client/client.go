package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decred/slog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/table"
)

// Message types for UI communication
type (
	EventMsg *tablerpc.Event
	StateMsg *table.Snapshot
)

// BlackjackClient talks to a table server for a single human player.
type BlackjackClient struct {
	sync.RWMutex
	ID        string
	Name      string
	Service   *tablerpc.TableServiceClient
	conn      *grpc.ClientConn
	tableID   string
	cfg       *AppConfig
	ntfns     *NotificationManager
	log       slog.Logger
	UpdatesCh chan tea.Msg
	ErrorsCh  chan error

	stream       tablerpc.TableService_StreamEventsClient
	streamCancel context.CancelFunc
	streamMu     sync.Mutex

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewBlackjackClient dials the server described by cfg.
func NewBlackjackClient(ctx context.Context, cfg *AppConfig) (*BlackjackClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg is nil")
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}

	opts, err := cfg.dialOptions()
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(cfg.ServerAddr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	bc := &BlackjackClient{
		ID:         cfg.PlayerID,
		Name:       cfg.Name,
		Service:    tablerpc.NewTableServiceClient(conn),
		conn:       conn,
		cfg:        cfg,
		ntfns:      cfg.Notifications,
		log:        cfg.LogBackend.Logger("CLNT"),
		UpdatesCh:  make(chan tea.Msg, 100),
		ErrorsCh:   make(chan error, 10),
		ctx:        ctx,
		cancelFunc: cancel,
	}
	bc.log.Debugf("Using player ID %s at %s", bc.ID, cfg.ServerAddr)
	return bc, nil
}

// Notifications returns the manager events are dispatched to.
func (bc *BlackjackClient) Notifications() *NotificationManager {
	return bc.ntfns
}

// GetCurrentTableID returns the current table ID
func (bc *BlackjackClient) GetCurrentTableID() string {
	bc.RLock()
	defer bc.RUnlock()
	return bc.tableID
}

// SetCurrentTableID targets a table without joining it.
func (bc *BlackjackClient) SetCurrentTableID(tableID string) {
	bc.Lock()
	bc.tableID = tableID
	bc.Unlock()
}

func (bc *BlackjackClient) currentTable() (string, error) {
	tableID := bc.GetCurrentTableID()
	if tableID == "" {
		return "", fmt.Errorf("not currently at a table")
	}
	return tableID, nil
}

// Close stops the event stream and closes the connection.
func (bc *BlackjackClient) Close() error {
	bc.stopEventStream()
	if bc.cancelFunc != nil {
		bc.cancelFunc()
	}
	if bc.conn != nil {
		return bc.conn.Close()
	}
	return nil
}

// StartEventStream subscribes to events of the current table. Events are
// dispatched to the notification manager and forwarded to UpdatesCh.
func (bc *BlackjackClient) StartEventStream(ctx context.Context) error {
	bc.streamMu.Lock()
	defer bc.streamMu.Unlock()

	if bc.stream != nil {
		return nil
	}

	tableID, err := bc.currentTable()
	if err != nil {
		return err
	}

	sctx, cancel := context.WithCancel(ctx)
	stream, err := bc.Service.StreamEvents(sctx, &tablerpc.PlayerRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start event stream: %w", err)
	}
	bc.stream = stream
	bc.streamCancel = cancel

	go bc.handleEventStream(sctx, stream)

	bc.log.Infof("Started event stream for table %s", tableID)
	return nil
}

func (bc *BlackjackClient) stopEventStream() {
	bc.streamMu.Lock()
	defer bc.streamMu.Unlock()

	if bc.streamCancel != nil {
		bc.streamCancel()
		bc.streamCancel = nil
	}
	if bc.stream != nil {
		bc.stream = nil
		bc.log.Info("Stopped event stream")
	}
}

func (bc *BlackjackClient) handleEventStream(ctx context.Context, stream tablerpc.TableService_StreamEventsClient) {
	defer func() {
		bc.streamMu.Lock()
		if bc.stream == stream {
			bc.stream = nil
		}
		bc.streamMu.Unlock()
	}()

	for {
		ev, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled || ctx.Err() != nil {
				bc.log.Info("Event stream closed")
				return
			}
			select {
			case bc.ErrorsCh <- fmt.Errorf("event stream error: %v", err):
			default:
			}
			return
		}

		if err := bc.ntfns.Dispatch(ev); err != nil {
			bc.log.Warnf("Unable to dispatch %s event: %v", ev.Type, err)
		}

		select {
		case bc.UpdatesCh <- EventMsg(ev):
		case <-ctx.Done():
			return
		default:
			bc.log.Warn("Updates channel full, dropping event")
		}
	}
}
