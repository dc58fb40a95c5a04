package blackjack

// HandSnapshot is a read-only view of a hand.
type HandSnapshot struct {
	Cards       []Card  `json:"cards"`
	Total       int     `json:"total"`
	Soft        bool    `json:"soft"`
	Bet         int64   `json:"bet"`
	Doubled     bool    `json:"doubled,omitempty"`
	Surrendered bool    `json:"surrendered,omitempty"`
	Split       bool    `json:"split,omitempty"`
	Result      Outcome `json:"result,omitempty"`
}

// PlayerSnapshot is a read-only view of a seated player.
type PlayerSnapshot struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Seat       int            `json:"seat"`
	Chips      int64          `json:"chips"`
	Automated  bool           `json:"automated"`
	SkillLevel int            `json:"skillLevel,omitempty"`
	Hands      []HandSnapshot `json:"hands"`
	Insurance  int64          `json:"insurance,omitempty"`
	SatOut     bool           `json:"satOut,omitempty"`
	Finished   bool           `json:"finished,omitempty"`
}

// RoundSnapshot is what a presentation layer needs to draw the table. The
// dealer's hole card is left out until it is revealed.
type RoundSnapshot struct {
	TableID         string           `json:"tableId"`
	Round           int              `json:"round"`
	Phase           Phase            `json:"phase"`
	Players         []PlayerSnapshot `json:"players"`
	DealerCards     []Card           `json:"dealerCards"`
	DealerTotal     int              `json:"dealerTotal"`
	HoleHidden      bool             `json:"holeHidden"`
	ActivePlayer    string           `json:"activePlayer,omitempty"`
	LegalActions    []Action         `json:"legalActions,omitempty"`
	Recommended     Action           `json:"recommended,omitempty"`
	RunningCount    int              `json:"runningCount"`
	TrueCount       float64          `json:"trueCount"`
	DecksRemaining  float64          `json:"decksRemaining"`
	CardsDealt      int              `json:"cardsDealt"`
	CutCard         int              `json:"cutCard"`
	ShoesDealt      int              `json:"shoesDealt"`
	PlayersFinished []string         `json:"playersFinished,omitempty"`
	LastResult      *RoundResult     `json:"lastResult,omitempty"`
}

func snapshotHand(h *Hand) HandSnapshot {
	return HandSnapshot{
		Cards:       append([]Card(nil), h.Cards...),
		Total:       h.Value(),
		Soft:        IsSoft(h.Cards),
		Bet:         h.Bet,
		Doubled:     h.Doubled,
		Surrendered: h.Surrendered,
		Split:       h.IsSplit,
		Result:      h.Result,
	}
}

// Snapshot captures the round state.
func (r *Round) Snapshot() RoundSnapshot {
	s := RoundSnapshot{
		TableID:        r.tableID,
		Round:          r.number,
		Phase:          r.phase,
		ActivePlayer:   r.activeID(),
		RunningCount:   r.shoe.RunningCount(),
		TrueCount:      r.shoe.TrueCount(),
		DecksRemaining: r.shoe.DecksRemaining(),
		CardsDealt:     r.shoe.CardsDealt(),
		CutCard:        r.shoe.CutCard(),
		ShoesDealt:     r.shoe.ShoesDealt(),
		LastResult:     r.lastResult,
	}

	for _, p := range r.players {
		ps := PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Chips:      p.Chips,
			Automated:  p.Automated,
			SkillLevel: p.SkillLevel,
			Insurance:  p.Insurance,
			SatOut:     p.SatOut,
			Finished:   r.finished[p.ID],
		}
		if p.Hand != nil {
			for _, h := range p.Hand.Playable() {
				ps.Hands = append(ps.Hands, snapshotHand(h))
			}
		}
		s.Players = append(s.Players, ps)
		if r.finished[p.ID] {
			s.PlayersFinished = append(s.PlayersFinished, p.ID)
		}
	}

	switch {
	case len(r.dealer.Cards) == 0:
	case r.holeRevealed:
		s.DealerCards = append([]Card(nil), r.dealer.Cards...)
		s.DealerTotal = r.dealer.Value()
	default:
		s.DealerCards = []Card{r.dealer.Cards[0]}
		s.DealerTotal = HandValue(s.DealerCards)
		s.HoleHidden = len(r.dealer.Cards) > 1
	}

	if p := r.current(); p != nil && !p.Automated {
		s.LegalActions = r.LegalActions(p.ID)
		s.Recommended = r.recommend(p)
	}
	return s
}
