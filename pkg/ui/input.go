package ui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/suspicion"
)

var actionKeys = map[string]blackjack.Action{
	"h": blackjack.ActionHit,
	"s": blackjack.ActionStand,
	"d": blackjack.ActionDouble,
	"p": blackjack.ActionSplit,
	"u": blackjack.ActionSurrender,
}

var responseKeys = map[string]suspicion.Response{
	"1": suspicion.Engaged,
	"2": suspicion.Neutral,
	"3": suspicion.Dismissive,
	"4": suspicion.Ignored,
}

func (m *BlackjackUI) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}

	switch m.state {
	case stateMainMenu:
		return m.handleMenuKey(key)
	case stateJoinTable:
		return m.handleJoinKey(key)
	case stateBetInput:
		return m.handleBetKey(key)
	case stateTable:
		return m.handleTableKey(key)
	case stateSummary:
		switch key {
		case "q":
			return tea.Quit
		case "enter", "esc":
			m.state = stateMainMenu
			m.left = nil
			m.snap = nil
			m.message = ""
		}
	}
	return nil
}

func (m *BlackjackUI) handleMenuKey(key string) tea.Cmd {
	switch key {
	case "q":
		return tea.Quit
	case "up", "k":
		m.selectedItem = max(0, m.selectedItem-1)
	case "down", "j":
		m.selectedItem = min(len(m.menuOptions)-1, m.selectedItem+1)
	case "enter":
		switch m.menuOptions[m.selectedItem] {
		case optionNewTable:
			m.message = "Opening a table..."
			return m.dispatcher.createAndJoinCmd(m.preset)
		case optionJoinTable:
			m.state = stateJoinTable
			m.tableIDInput = ""
		case optionQuit:
			return tea.Quit
		}
	}
	return nil
}

func (m *BlackjackUI) handleJoinKey(key string) tea.Cmd {
	switch key {
	case "esc":
		m.state = stateMainMenu
	case "enter":
		if m.tableIDInput != "" {
			return m.dispatcher.joinTableCmd(m.tableIDInput)
		}
	case "backspace":
		if len(m.tableIDInput) > 0 {
			m.tableIDInput = m.tableIDInput[:len(m.tableIDInput)-1]
		}
	default:
		if len(key) == 1 {
			m.tableIDInput += key
		}
	}
	return nil
}

func (m *BlackjackUI) handleBetKey(key string) tea.Cmd {
	switch key {
	case "esc":
		m.state = stateTable
	case "enter":
		amount, err := strconv.ParseInt(m.betAmount, 10, 64)
		if err != nil || amount <= 0 {
			m.err = fmt.Errorf("invalid bet amount %q", m.betAmount)
			return nil
		}
		m.lastBet = amount
		m.state = stateTable
		return m.dispatcher.betCmd(amount)
	case "backspace":
		if len(m.betAmount) > 0 {
			m.betAmount = m.betAmount[:len(m.betAmount)-1]
		}
	default:
		if len(key) == 1 && key >= "0" && key <= "9" {
			m.betAmount += key
		}
	}
	return nil
}

func (m *BlackjackUI) handleTableKey(key string) tea.Cmd {
	if m.snap == nil {
		return nil
	}

	if m.snap.Prompt != nil {
		if resp, ok := responseKeys[key]; ok {
			return m.dispatcher.converseCmd(resp)
		}
	}

	switch key {
	case "q", "l":
		return m.dispatcher.leaveTableCmd()
	case "c":
		m.showCount = !m.showCount
		return nil
	case "g":
		return m.dispatcher.refreshCmd()
	}

	switch m.snap.Round.Phase {
	case blackjack.PhaseBetting:
		switch key {
		case "b":
			m.state = stateBetInput
			m.betAmount = ""
			if m.lastBet > 0 {
				m.betAmount = strconv.FormatInt(m.lastBet, 10)
			}
			m.err = nil
		case "r", "enter":
			if m.lastBet > 0 {
				return m.dispatcher.betCmd(m.lastBet)
			}
			m.state = stateBetInput
		case "o":
			return m.dispatcher.sitOutCmd()
		}

	case blackjack.PhaseInsurance:
		switch key {
		case "y":
			return m.dispatcher.insureCmd(m.insuranceStake())
		case "n":
			return m.dispatcher.insureCmd(0)
		}

	case blackjack.PhasePlayerTurn:
		if action, ok := actionKeys[key]; ok {
			return m.dispatcher.actCmd(action)
		}

	case blackjack.PhaseRoundEnd:
		switch key {
		case "n", "enter":
			return m.dispatcher.nextHandCmd()
		}
	}
	return nil
}

// insuranceStake is the full insurance of half the human's wager.
func (m *BlackjackUI) insuranceStake() int64 {
	p := m.human()
	if p == nil || len(p.Hands) == 0 {
		return 0
	}
	return p.Hands[0].Bet / 2
}
