package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/client"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

type errorMsg error
type tableJoinedMsg *table.Snapshot
type tableLeftMsg *tablerpc.LeaveTableResponse

// TableClient is the part of the client the UI drives.
type TableClient interface {
	CreateTable(ctx context.Context, preset string, rules *blackjack.Rules) (string, error)
	JoinTable(ctx context.Context, tableID string, seat int) (*table.Snapshot, error)
	LeaveTable(ctx context.Context) (*tablerpc.LeaveTableResponse, error)
	StartEventStream(ctx context.Context) error
	PlaceBet(ctx context.Context, amount int64) (*table.Snapshot, error)
	SitOut(ctx context.Context) (*table.Snapshot, error)
	Insure(ctx context.Context, stake int64) (*table.Snapshot, error)
	Act(ctx context.Context, action blackjack.Action) (*table.Snapshot, error)
	NextHand(ctx context.Context) (*table.Snapshot, error)
	Converse(ctx context.Context, resp suspicion.Response) (*table.Snapshot, error)
	State(ctx context.Context) (*table.Snapshot, error)
}

var _ TableClient = (*client.BlackjackClient)(nil)

// CommandDispatcher turns UI intents into client calls.
type CommandDispatcher struct {
	ctx     context.Context
	pc      TableClient
	updates <-chan tea.Msg
}

// NewCommandDispatcher creates a new command dispatcher for the UI. updates
// may be nil when no event stream is wired.
func NewCommandDispatcher(ctx context.Context, pc TableClient, updates <-chan tea.Msg) *CommandDispatcher {
	return &CommandDispatcher{ctx: ctx, pc: pc, updates: updates}
}

func stateCmd(snap *table.Snapshot, err error) tea.Msg {
	if err != nil {
		return errorMsg(err)
	}
	return client.StateMsg(snap)
}

func (d *CommandDispatcher) createAndJoinCmd(preset string) tea.Cmd {
	return func() tea.Msg {
		tableID, err := d.pc.CreateTable(d.ctx, preset, nil)
		if err != nil {
			return errorMsg(err)
		}
		return d.join(tableID)
	}
}

func (d *CommandDispatcher) joinTableCmd(tableID string) tea.Cmd {
	return func() tea.Msg {
		return d.join(tableID)
	}
}

func (d *CommandDispatcher) join(tableID string) tea.Msg {
	snap, err := d.pc.JoinTable(d.ctx, tableID, 0)
	if err != nil {
		return errorMsg(err)
	}
	if err := d.pc.StartEventStream(d.ctx); err != nil {
		return errorMsg(err)
	}
	return tableJoinedMsg(snap)
}

func (d *CommandDispatcher) leaveTableCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := d.pc.LeaveTable(d.ctx)
		if err != nil {
			return errorMsg(err)
		}
		return tableLeftMsg(resp)
	}
}

func (d *CommandDispatcher) betCmd(amount int64) tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.PlaceBet(d.ctx, amount))
	}
}

func (d *CommandDispatcher) sitOutCmd() tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.SitOut(d.ctx))
	}
}

func (d *CommandDispatcher) insureCmd(stake int64) tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.Insure(d.ctx, stake))
	}
}

func (d *CommandDispatcher) actCmd(action blackjack.Action) tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.Act(d.ctx, action))
	}
}

func (d *CommandDispatcher) nextHandCmd() tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.NextHand(d.ctx))
	}
}

func (d *CommandDispatcher) converseCmd(resp suspicion.Response) tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.Converse(d.ctx, resp))
	}
}

func (d *CommandDispatcher) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return stateCmd(d.pc.State(d.ctx))
	}
}

// listenForUpdates waits for the next message from the event stream.
func (d *CommandDispatcher) listenForUpdates() tea.Cmd {
	if d.updates == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-d.updates:
			return msg
		case <-d.ctx.Done():
			return nil
		}
	}
}
