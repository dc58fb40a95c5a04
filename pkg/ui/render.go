package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

// Renderer handles all rendering of UI screens and game elements
type Renderer struct {
	ui *BlackjackUI
}

// RenderMainMenu renders the main menu screen
func (r *Renderer) RenderMainMenu() string {
	var s string
	s += TitleStyle.Render("Blackjack Trainer") + "\n\n"
	s += fmt.Sprintf("Player: %s\n", r.ui.playerID)
	if r.ui.preset != "" {
		s += fmt.Sprintf("Rules: %s\n", r.ui.preset)
	}
	s += "\n"

	for i, option := range r.ui.menuOptions {
		if i == r.ui.selectedItem {
			s += FocusedStyle.Render(fmt.Sprintf("▶ %s", option)) + "\n"
		} else {
			s += BlurredStyle.Render(fmt.Sprintf("  %s", option)) + "\n"
		}
	}
	s += "\n" + HelpStyle.Render("↑/↓ to move, Enter to select, q to quit")
	return s
}

// RenderJoinTable renders the join table screen
func (r *Renderer) RenderJoinTable() string {
	var s string
	s += TitleStyle.Render("Join Table") + "\n\n"
	s += FocusedStyle.Render(fmt.Sprintf("Table ID: %s", r.ui.tableIDInput)) + "\n\n"
	s += HelpStyle.Render("Enter table ID and press Enter to join, Esc to go back")
	return s
}

// RenderBetInput renders the bet input screen
func (r *Renderer) RenderBetInput() string {
	var s string
	s += r.RenderTable() + "\n"
	if r.ui.snap != nil {
		s += fmt.Sprintf("Limits: %d - %d\n", r.ui.snap.Rules.MinBet, r.ui.snap.Rules.MaxBet)
	}
	s += FocusedStyle.Render(fmt.Sprintf("Bet Amount: %s", r.ui.betAmount)) + "\n"
	s += HelpStyle.Render("Type amount and press Enter to bet, Esc to cancel")
	return s
}

// RenderSummary renders the session summary after leaving a table.
func (r *Renderer) RenderSummary() string {
	left := r.ui.left
	if left == nil {
		return ""
	}
	st := left.Stats
	var s string
	s += TitleStyle.Render("Session Summary") + "\n\n"
	s += fmt.Sprintf("Chips:        %d\n", left.Chips)
	s += fmt.Sprintf("Net:          %+d\n", st.Net)
	s += fmt.Sprintf("Hands:        %d played, %d sat out\n", st.HandsPlayed, st.HandsSatOut)
	s += fmt.Sprintf("Record:       %d W / %d L / %d P (%d blackjacks)\n", st.Wins, st.Losses, st.Pushes, st.Blackjacks)
	s += fmt.Sprintf("Accuracy:     %.0f%% over %d decisions\n", st.Accuracy*100, st.Decisions)
	s += fmt.Sprintf("Reports:      %d (peak attention %.0f)\n", st.Reports, st.PeakAttention)
	s += fmt.Sprintf("Score:        %d (best streak %d)\n", st.Score, st.BestStreak)
	s += "\n" + HelpStyle.Render("Enter for the menu, q to quit")
	return s
}

// RenderTable draws the dealer, the seats and the human's controls.
func (r *Renderer) RenderTable() string {
	snap := r.ui.snap
	if snap == nil {
		return "Loading table information...\n"
	}
	rs := snap.Round

	var s string
	s += TitleStyle.Render(fmt.Sprintf("Table %s, round %d (%s)", snap.TableID, rs.Round, rs.Phase)) + "\n\n"

	dealerName := snap.Dealer.Name
	if snap.Dealer.Nickname != "" {
		dealerName = fmt.Sprintf("%s %q", dealerName, snap.Dealer.Nickname)
	}
	s += DealerStyle.Render("Dealer "+dealerName) + "\n"
	s += r.renderDealerCards(rs) + "\n"

	if r.ui.showCount {
		s += CountStyle.Render(fmt.Sprintf("RC %+d  TC %+.1f  decks left %.1f  shoe %d",
			rs.RunningCount, rs.TrueCount, rs.DecksRemaining, rs.ShoesDealt+1)) + "\n"
	}

	s += r.renderSeats(snap) + "\n"
	s += r.renderSuspicion(snap.Suspicion) + "\n"

	if snap.Prompt != nil {
		speaker := snap.Prompt.Speaker
		if snap.Prompt.PitBoss {
			speaker = "Pit boss"
		}
		s += PromptStyle.Render(fmt.Sprintf("%s: %s\n[1] friendly [2] neutral [3] dismissive [4] ignore",
			speaker, snap.Prompt.Line.Text)) + "\n"
	}

	for _, line := range r.ui.chatter {
		s += InfoStyle.Render(line) + "\n"
	}

	s += r.renderControls(snap) + "\n"
	st := snap.Stats
	s += BlurredStyle.Render(fmt.Sprintf("net %+d | hands %d | accuracy %.0f%% | streak %d | score %d",
		st.Net, st.HandsPlayed, st.Accuracy*100, snap.Streak, st.Score))
	return s
}

func (r *Renderer) renderDealerCards(rs blackjack.RoundSnapshot) string {
	if len(rs.DealerCards) == 0 {
		return BlurredStyle.Render("  (no cards)")
	}
	cards := make([]string, 0, len(rs.DealerCards)+1)
	for _, c := range rs.DealerCards {
		cards = append(cards, renderCard(c))
	}
	if rs.HoleHidden {
		cards = append(cards, HiddenCardStyle.Render("??"))
	}
	total := fmt.Sprintf("  %d", rs.DealerTotal)
	return lipgloss.JoinHorizontal(lipgloss.Center, append(cards, total)...)
}

func (r *Renderer) renderSeats(snap *table.Snapshot) string {
	rs := snap.Round
	boxes := make([]string, 0, len(rs.Players))
	for _, p := range rs.Players {
		style := PlayerBoxStyle
		switch {
		case p.ID == rs.ActivePlayer:
			style = ActivePlayerStyle
		case p.ID == snap.HumanID:
			style = YourPlayerStyle
		case p.SatOut:
			style = SatOutPlayerStyle
		}

		name := p.Name
		if p.ID == snap.HumanID {
			name += " (You)"
		}
		lines := []string{fmt.Sprintf("%d. %s", p.Seat, name), fmt.Sprintf("chips %d", p.Chips)}
		if p.SatOut {
			lines = append(lines, "sitting out")
		}
		for i, h := range p.Hands {
			lines = append(lines, formatHand(i, h, len(p.Hands) > 1))
		}
		if p.Insurance > 0 {
			lines = append(lines, fmt.Sprintf("insured %d", p.Insurance))
		}
		boxes = append(boxes, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (r *Renderer) renderSuspicion(st suspicion.State) string {
	parts := []string{
		renderMeter("Dealer", st.DealerSuspicion),
		renderMeter("Pit boss", st.PitBossAttention),
		renderMeter("Proximity", st.PitBossProximity),
	}
	out := strings.Join(parts, "  ")
	if st.Reported {
		out += "  " + ErrorStyle.Render("REPORTED")
	}
	return out
}

func (r *Renderer) renderControls(snap *table.Snapshot) string {
	rs := snap.Round
	switch rs.Phase {
	case blackjack.PhaseBetting:
		help := "[b] bet  [o] sit out  [l] leave  [c] count"
		if r.ui.lastBet > 0 {
			help = fmt.Sprintf("[r] rebet %d  ", r.ui.lastBet) + help
		}
		return HelpStyle.Render(help)
	case blackjack.PhaseInsurance:
		return HelpStyle.Render(fmt.Sprintf("Insurance? [y] yes (%d)  [n] no", r.ui.insuranceStake()))
	case blackjack.PhasePlayerTurn:
		if rs.ActivePlayer != snap.HumanID {
			return HelpStyle.Render("Waiting for the other players...")
		}
		var buttons []string
		for _, a := range rs.LegalActions {
			label := fmt.Sprintf("[%s] %s", actionKey(a), actionName(a))
			if a == rs.Recommended {
				buttons = append(buttons, RecommendedActionStyle.Render(label))
			} else {
				buttons = append(buttons, ActionButtonStyle.Render(label))
			}
		}
		return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
	case blackjack.PhaseRoundEnd:
		return HelpStyle.Render("[n] next hand  [l] leave")
	}
	return HelpStyle.Render("Dealing...")
}

func renderCard(c blackjack.Card) string {
	if isRedSuit(c.Suit()) {
		return RedCardStyle.Render(c.String())
	}
	return CardStyle.Render(c.String())
}

func isRedSuit(s blackjack.Suit) bool {
	return s == blackjack.Hearts || s == blackjack.Diamonds
}

func formatHand(i int, h blackjack.HandSnapshot, split bool) string {
	cards := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		cards = append(cards, c.String())
	}
	out := fmt.Sprintf("%s = %d", strings.Join(cards, " "), h.Total)
	if h.Soft {
		out += " soft"
	}
	if split {
		out = fmt.Sprintf("#%d %s", i+1, out)
	}
	out += fmt.Sprintf(" (bet %d", h.Bet)
	if h.Doubled {
		out += ", doubled"
	}
	out += ")"
	if h.Result != "" {
		out += " " + string(h.Result)
	}
	return out
}

func renderMeter(label string, level float64) string {
	const width = 10
	filled := int(level / 100 * width)
	filled = max(0, min(width, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s %3.0f", label, meterStyle(level).Render(bar), level)
}

func actionKey(a blackjack.Action) string {
	for k, v := range actionKeys {
		if v == a {
			return k
		}
	}
	return "?"
}

func actionName(a blackjack.Action) string {
	switch a {
	case blackjack.ActionHit:
		return "hit"
	case blackjack.ActionStand:
		return "stand"
	case blackjack.ActionDouble:
		return "double"
	case blackjack.ActionSplit:
		return "split"
	case blackjack.ActionSurrender:
		return "surrender"
	}
	return string(a)
}

func seatName(snap *table.Snapshot, seat int) string {
	if snap != nil {
		for _, p := range snap.Round.Players {
			if p.Seat == seat {
				return p.Name
			}
		}
	}
	return fmt.Sprintf("Seat %d", seat)
}

// describeEvent returns the chatter line for ev, or "" for events that only
// change what the table shows.
func describeEvent(ev *tablerpc.Event, snap *table.Snapshot) string {
	switch ev.Type {
	case blackjack.EventMessage:
		var msg blackjack.Message
		if ev.DecodePayload(&msg) != nil {
			return ""
		}
		speaker := "Dealer"
		if msg.Speaker != blackjack.DealerSpeaker {
			speaker = seatName(snap, msg.Speaker)
		}
		return fmt.Sprintf("%s: %s", speaker, msg.Text)

	case blackjack.EventDealerComment:
		var c table.DealerComment
		if ev.DecodePayload(&c) != nil {
			return ""
		}
		return fmt.Sprintf("Dealer: %s", c.Line.Text)

	case blackjack.EventDealerReport:
		return "The dealer signals the pit boss."

	case blackjack.EventDealerChanged:
		var c table.DealerChange
		if ev.DecodePayload(&c) != nil {
			return ""
		}
		return fmt.Sprintf("%s takes over the table.", c.Dealer.Name)

	case blackjack.EventReshuffle:
		var rs blackjack.Reshuffle
		if ev.DecodePayload(&rs) != nil {
			return ""
		}
		if rs.MidRound {
			return "Cut card reached mid round, shuffling."
		}
		return "Shuffling a new shoe."

	case blackjack.EventRoundResult:
		var res blackjack.RoundResult
		if ev.DecodePayload(&res) != nil || snap == nil {
			return ""
		}
		net, _, played := res.NetFor(snap.HumanID)
		if !played {
			return fmt.Sprintf("Round %d over, dealer %d.", ev.Round, res.DealerTotal)
		}
		return fmt.Sprintf("Round %d: dealer %d, you %+d.", ev.Round, res.DealerTotal, net)
	}
	return ""
}
