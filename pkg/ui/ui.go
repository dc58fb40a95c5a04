package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/client"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/table"
)

type menuOption string

const (
	optionNewTable  menuOption = "New Table"
	optionJoinTable menuOption = "Join Table"
	optionQuit      menuOption = "Quit"
)

// screenState represents the current screen in the UI
type screenState int

const (
	stateMainMenu screenState = iota
	stateJoinTable
	stateTable
	stateBetInput
	stateSummary
)

// maxLogLines bounds the table chatter shown under the table.
const maxLogLines = 6

// BlackjackUI is the bubbletea model of a single human seat.
type BlackjackUI struct {
	ctx        context.Context
	playerID   string
	preset     string
	dispatcher *CommandDispatcher
	renderer   *Renderer

	state        screenState
	menuOptions  []menuOption
	selectedItem int
	tableIDInput string
	betAmount    string
	lastBet      int64
	showCount    bool

	snap    *table.Snapshot
	left    *tablerpc.LeaveTableResponse
	chatter []string
	message string
	err     error
}

// NewBlackjackUI creates the UI model. preset names the rule set of tables
// created from the menu.
func NewBlackjackUI(ctx context.Context, playerID, preset string, pc TableClient, updates <-chan tea.Msg) *BlackjackUI {
	ui := &BlackjackUI{
		ctx:        ctx,
		playerID:   playerID,
		preset:     preset,
		dispatcher: NewCommandDispatcher(ctx, pc, updates),
		state:      stateMainMenu,
		menuOptions: []menuOption{
			optionNewTable,
			optionJoinTable,
			optionQuit,
		},
		showCount: true,
	}
	ui.renderer = &Renderer{ui: ui}
	return ui
}

func (m *BlackjackUI) Init() tea.Cmd {
	return nil
}

func (m *BlackjackUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case errorMsg:
		m.err = error(msg)

	case tableJoinedMsg:
		m.snap = (*table.Snapshot)(msg)
		m.state = stateTable
		m.chatter = nil
		m.err = nil
		m.message = fmt.Sprintf("Joined table %s", m.snap.TableID)
		return m, m.dispatcher.listenForUpdates()

	case tableLeftMsg:
		m.left = (*tablerpc.LeaveTableResponse)(msg)
		m.state = stateSummary
		m.message = "Left table"
		return m, nil

	case client.StateMsg:
		m.snap = (*table.Snapshot)(msg)
		m.err = nil
		if m.state == stateBetInput && m.snap.Round.Phase != blackjack.PhaseBetting {
			m.state = stateTable
		}

	case client.EventMsg:
		ev := (*tablerpc.Event)(msg)
		if line := describeEvent(ev, m.snap); line != "" {
			m.addChatter(line)
		}
		if m.state != stateTable && m.state != stateBetInput {
			return m, nil
		}
		return m, tea.Batch(m.dispatcher.refreshCmd(), m.dispatcher.listenForUpdates())
	}
	return m, nil
}

func (m *BlackjackUI) addChatter(line string) {
	m.chatter = append(m.chatter, line)
	if len(m.chatter) > maxLogLines {
		m.chatter = m.chatter[len(m.chatter)-maxLogLines:]
	}
}

// human returns the human's seat in the last snapshot.
func (m *BlackjackUI) human() *blackjack.PlayerSnapshot {
	if m.snap == nil {
		return nil
	}
	for i := range m.snap.Round.Players {
		if m.snap.Round.Players[i].ID == m.snap.HumanID {
			return &m.snap.Round.Players[i]
		}
	}
	return nil
}

// View renders the current state of the UI
func (m *BlackjackUI) View() string {
	var s string

	if m.message != "" {
		s += TitleStyle.Render(m.message) + "\n\n"
	}
	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	switch m.state {
	case stateMainMenu:
		s += m.renderer.RenderMainMenu()
	case stateJoinTable:
		s += m.renderer.RenderJoinTable()
	case stateTable:
		s += m.renderer.RenderTable()
	case stateBetInput:
		s += m.renderer.RenderBetInput()
	case stateSummary:
		s += m.renderer.RenderSummary()
	}
	return s
}

// Run starts the UI
func Run(ctx context.Context, bc *client.BlackjackClient, preset string) error {
	model := NewBlackjackUI(ctx, bc.ID, preset, bc, bc.UpdatesCh)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
