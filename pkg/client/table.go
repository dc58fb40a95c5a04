package client

import (
	"context"
	"fmt"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

// CreateTable opens a table with the given preset or rules. A nil rules and
// empty preset use the server defaults.
func (bc *BlackjackClient) CreateTable(ctx context.Context, preset string, rules *blackjack.Rules) (string, error) {
	resp, err := bc.Service.CreateTable(ctx, &tablerpc.CreateTableRequest{
		PlayerID: bc.ID,
		Preset:   preset,
		Rules:    rules,
		Seed:     bc.cfg.Seed,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create table: %w", err)
	}
	bc.log.Infof("Created table %s", resp.TableID)
	return resp.TableID, nil
}

// JoinTable sits down at tableID. Seat 0 takes the configured human seat.
func (bc *BlackjackClient) JoinTable(ctx context.Context, tableID string, seat int) (*table.Snapshot, error) {
	resp, err := bc.Service.JoinTable(ctx, &tablerpc.JoinTableRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
		Name:     bc.Name,
		Seat:     seat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join table: %w", err)
	}
	bc.SetCurrentTableID(tableID)
	return &resp.State, nil
}

// LeaveTable leaves the current table and returns the final chip count and
// session stats.
func (bc *BlackjackClient) LeaveTable(ctx context.Context) (*tablerpc.LeaveTableResponse, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	bc.stopEventStream()
	resp, err := bc.Service.LeaveTable(ctx, &tablerpc.LeaveTableRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to leave table: %w", err)
	}
	bc.SetCurrentTableID("")
	return resp, nil
}

func stateOf(resp *tablerpc.StateResponse, err error) (*table.Snapshot, error) {
	if err != nil {
		return nil, err
	}
	return &resp.State, nil
}

// PlaceBet places the human's wager for the next round.
func (bc *BlackjackClient) PlaceBet(ctx context.Context, amount int64) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.PlaceBet(ctx, &tablerpc.BetRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
		Amount:   amount,
	}))
}

// SitOut skips the next round.
func (bc *BlackjackClient) SitOut(ctx context.Context) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.SitOut(ctx, &tablerpc.PlayerRequest{TableID: tableID, PlayerID: bc.ID}))
}

// Insure answers the insurance offer. A zero stake declines.
func (bc *BlackjackClient) Insure(ctx context.Context, stake int64) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.Insure(ctx, &tablerpc.InsureRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
		Stake:    stake,
	}))
}

// Act plays a decision on the active hand.
func (bc *BlackjackClient) Act(ctx context.Context, action blackjack.Action) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.Act(ctx, &tablerpc.ActRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
		Action:   action,
	}))
}

// NextHand clears a finished round and opens betting.
func (bc *BlackjackClient) NextHand(ctx context.Context) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.NextHand(ctx, &tablerpc.PlayerRequest{TableID: tableID, PlayerID: bc.ID}))
}

// Converse answers the open dealer or pit boss prompt.
func (bc *BlackjackClient) Converse(ctx context.Context, resp suspicion.Response) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.Converse(ctx, &tablerpc.ConverseRequest{
		TableID:  tableID,
		PlayerID: bc.ID,
		Response: resp,
	}))
}

// State fetches the current table snapshot.
func (bc *BlackjackClient) State(ctx context.Context) (*table.Snapshot, error) {
	tableID, err := bc.currentTable()
	if err != nil {
		return nil, err
	}
	return stateOf(bc.Service.GetState(ctx, &tablerpc.PlayerRequest{TableID: tableID, PlayerID: bc.ID}))
}
