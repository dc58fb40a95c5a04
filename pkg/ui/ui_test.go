package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/client"
	"github.com/vctt94/cardcounter/pkg/dialogue"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

type fakeClient struct {
	snap     table.Snapshot
	bets     []int64
	actions  []blackjack.Action
	stakes   []int64
	answers  []suspicion.Response
	streamed bool
}

func (f *fakeClient) CreateTable(context.Context, string, *blackjack.Rules) (string, error) {
	return "t1", nil
}

func (f *fakeClient) JoinTable(_ context.Context, tableID string, _ int) (*table.Snapshot, error) {
	if tableID != "t1" {
		return nil, errors.New("table not found")
	}
	return f.state()
}

func (f *fakeClient) LeaveTable(context.Context) (*tablerpc.LeaveTableResponse, error) {
	return &tablerpc.LeaveTableResponse{Chips: 1040, Stats: table.Stats{HandsPlayed: 3, Net: 40}}, nil
}

func (f *fakeClient) StartEventStream(context.Context) error {
	f.streamed = true
	return nil
}

func (f *fakeClient) PlaceBet(_ context.Context, amount int64) (*table.Snapshot, error) {
	f.bets = append(f.bets, amount)
	return f.state()
}

func (f *fakeClient) SitOut(context.Context) (*table.Snapshot, error) { return f.state() }

func (f *fakeClient) Insure(_ context.Context, stake int64) (*table.Snapshot, error) {
	f.stakes = append(f.stakes, stake)
	return f.state()
}

func (f *fakeClient) Act(_ context.Context, action blackjack.Action) (*table.Snapshot, error) {
	f.actions = append(f.actions, action)
	return f.state()
}

func (f *fakeClient) NextHand(context.Context) (*table.Snapshot, error) { return f.state() }

func (f *fakeClient) Converse(_ context.Context, resp suspicion.Response) (*table.Snapshot, error) {
	f.answers = append(f.answers, resp)
	return f.state()
}

func (f *fakeClient) State(context.Context) (*table.Snapshot, error) { return f.state() }

func (f *fakeClient) state() (*table.Snapshot, error) {
	s := f.snap
	return &s, nil
}

func newFake(phase blackjack.Phase) *fakeClient {
	return &fakeClient{snap: table.Snapshot{
		TableID: "t1",
		HumanID: "alice",
		Rules:   blackjack.DefaultRules(),
		Dealer:  suspicion.DealerCharacter{ID: "sam", Name: "Sam"},
		Round: blackjack.RoundSnapshot{
			TableID:      "t1",
			Round:        1,
			Phase:        phase,
			ActivePlayer: "alice",
			Players: []blackjack.PlayerSnapshot{{
				ID:    "alice",
				Name:  "Alice",
				Seat:  3,
				Chips: 980,
				Hands: []blackjack.HandSnapshot{{Bet: 20}},
			}},
			LegalActions: []blackjack.Action{blackjack.ActionHit, blackjack.ActionStand},
			Recommended:  blackjack.ActionStand,
		},
	}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds a key and runs the resulting command, feeding its message
// back into the model.
func press(t *testing.T, m *BlackjackUI, k string) {
	t.Helper()
	_, cmd := m.Update(key(k))
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		m.Update(msg)
	}
}

func joined(t *testing.T, fc *fakeClient) *BlackjackUI {
	t.Helper()
	m := NewBlackjackUI(context.Background(), "alice", "", fc, nil)
	press(t, m, "enter")
	require.Equal(t, stateTable, m.state)
	require.True(t, fc.streamed)
	return m
}

func TestCreateAndJoinFromMenu(t *testing.T) {
	fc := newFake(blackjack.PhaseBetting)
	m := joined(t, fc)
	assert.Equal(t, "t1", m.snap.TableID)
	assert.Contains(t, m.View(), "Dealer Sam")
	assert.Contains(t, m.View(), "Alice (You)")
}

func TestJoinByID(t *testing.T) {
	fc := newFake(blackjack.PhaseBetting)
	m := NewBlackjackUI(context.Background(), "alice", "", fc, nil)
	press(t, m, "down")
	press(t, m, "enter")
	require.Equal(t, stateJoinTable, m.state)

	press(t, m, "t")
	press(t, m, "2")
	press(t, m, "enter")
	assert.Error(t, m.err)
	assert.Equal(t, stateJoinTable, m.state)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	press(t, m, "1")
	press(t, m, "enter")
	assert.Equal(t, stateTable, m.state)
}

func TestBetInput(t *testing.T) {
	fc := newFake(blackjack.PhaseBetting)
	m := joined(t, fc)

	press(t, m, "b")
	require.Equal(t, stateBetInput, m.state)
	press(t, m, "2")
	press(t, m, "x")
	press(t, m, "5")
	assert.Contains(t, m.View(), "Bet Amount: 25")
	press(t, m, "enter")
	assert.Equal(t, []int64{25}, fc.bets)
	assert.Equal(t, stateTable, m.state)

	press(t, m, "r")
	assert.Equal(t, []int64{25, 25}, fc.bets)
}

func TestPlayerTurnKeys(t *testing.T) {
	fc := newFake(blackjack.PhasePlayerTurn)
	m := joined(t, fc)
	assert.Contains(t, m.View(), "[h] hit")

	press(t, m, "h")
	press(t, m, "s")
	press(t, m, "b")
	assert.Equal(t, []blackjack.Action{blackjack.ActionHit, blackjack.ActionStand}, fc.actions)
	assert.Empty(t, fc.bets)
}

func TestInsuranceKeys(t *testing.T) {
	fc := newFake(blackjack.PhaseInsurance)
	m := joined(t, fc)
	press(t, m, "y")
	press(t, m, "n")
	assert.Equal(t, []int64{10, 0}, fc.stakes)
}

func TestPromptAnswer(t *testing.T) {
	fc := newFake(blackjack.PhaseBetting)
	fc.snap.Prompt = &table.Prompt{ID: 1, Speaker: "Sam", Line: dialogue.Line{Text: "Counting cards?"}}
	m := joined(t, fc)
	assert.Contains(t, m.View(), "Counting cards?")

	press(t, m, "3")
	assert.Equal(t, []suspicion.Response{suspicion.Dismissive}, fc.answers)
}

func TestEventChatterAndLeave(t *testing.T) {
	fc := newFake(blackjack.PhaseRoundEnd)
	m := joined(t, fc)

	ev, err := tablerpc.NewEvent(blackjack.Event{
		Type:    blackjack.EventRoundResult,
		TableID: "t1",
		Round:   1,
		Payload: blackjack.RoundResult{
			DealerTotal: 19,
			Hands:       []blackjack.HandResult{{PlayerID: "alice", Bet: 20, Net: 20, Outcome: blackjack.OutcomeWin}},
		},
	}, time.Now())
	require.NoError(t, err)
	_, cmd := m.Update(client.EventMsg(ev))
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Round 1: dealer 19, you +20.")

	press(t, m, "l")
	require.Equal(t, stateSummary, m.state)
	assert.Contains(t, m.View(), "Chips:        1040")

	press(t, m, "enter")
	assert.Equal(t, stateMainMenu, m.state)
}
