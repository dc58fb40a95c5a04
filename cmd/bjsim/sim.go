package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/decred/slog"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/config"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

const simPlayer = "sim"

// Betting styles of the scripted player.
const (
	styleFlat   = "flat"
	styleSpread = "spread"
	styleWong   = "wong"
)

type simConfig struct {
	Hands  int
	Style  string
	Seed   int64
	Answer suspicion.Response

	// Think is the table time that passes between hands.
	Think time.Duration
}

// timelinePoint is the suspicion picture after a round.
type timelinePoint struct {
	Round     int
	TrueCount float64
	Suspicion float64
	Attention float64
	Proximity float64
}

type simResult struct {
	Hands    int
	SatOut   int
	Chips    int64
	MaxBet   int64
	Stats    table.Stats
	Final    table.Snapshot
	Dealers  []string
	Comments int
	Timeline []timelinePoint
	Heat     []suspicion.HeatBucket
}

// simulate plays a scripted human who follows basic strategy at a table
// with the configured automated players.
func simulate(cfg *config.Config, sc simConfig, log slog.Logger) (*simResult, error) {
	switch sc.Style {
	case styleFlat, styleSpread, styleWong:
	default:
		return nil, fmt.Errorf("unknown betting style %q", sc.Style)
	}
	if sc.Answer == "" {
		sc.Answer = suspicion.Engaged
	}

	sched := blackjack.NewManualScheduler()
	tcfg := cfg.TableConfig("sim", log, rand.New(rand.NewSource(sc.Seed)), sched)
	tcfg.StepDelay = 0
	t, err := table.NewTable(tcfg)
	if err != nil {
		return nil, err
	}

	res := &simResult{}
	t.Events().Subscribe(func(ev blackjack.Event) {
		switch ev.Type {
		case blackjack.EventDealerChanged:
			if c, ok := ev.Payload.(table.DealerChange); ok {
				res.Dealers = append(res.Dealers, c.Dealer.Name)
			}
		case blackjack.EventDealerComment:
			res.Comments++
		}
	})

	if err := t.Join(simPlayer, "Counter", cfg.Table.HumanSeat, cfg.Table.StartingChips); err != nil {
		return nil, err
	}
	t.Start()
	defer t.Stop()

	rules := cfg.Rules
	for res.Hands+res.SatOut < sc.Hands {
		snap := t.Snapshot()
		if snap.Prompt != nil {
			if err := t.Converse(simPlayer, sc.Answer); err != nil {
				return nil, err
			}
		}

		chips := humanChips(snap)
		if chips < rules.MinBet {
			break
		}
		tc := int(math.Floor(snap.Round.TrueCount))

		switch {
		case sc.Style == styleWong && tc < 1 && snap.Round.CardsDealt > 0:
			if err := t.SitOut(simPlayer); err != nil {
				return nil, err
			}
			res.SatOut++
		default:
			bet := rules.MinBet
			if sc.Style != styleFlat {
				bet = blackjack.SuggestedBet(tc, rules.MinBet, rules.MaxBet, chips)
			}
			if err := t.PlaceBet(simPlayer, bet); err != nil {
				return nil, fmt.Errorf("bet %d: %w", bet, err)
			}
			res.MaxBet = max(res.MaxBet, bet)
			res.Hands++
		}

		if err := playOut(t); err != nil {
			return nil, err
		}
		if t.Phase() == blackjack.PhaseRoundEnd {
			if err := t.NextHand(); err != nil {
				return nil, err
			}
		}
		sched.Advance(sc.Think)

		after := t.Snapshot()
		res.Timeline = append(res.Timeline, timelinePoint{
			Round:     after.Round.Round,
			TrueCount: after.Round.TrueCount,
			Suspicion: after.Suspicion.DealerSuspicion,
			Attention: after.Suspicion.PitBossAttention,
			Proximity: after.Suspicion.PitBossProximity,
		})
	}

	_, res.Heat, _ = t.HeatMap()
	res.Final = t.Snapshot()
	res.Stats = res.Final.Stats
	res.Chips = humanChips(res.Final)
	return res, nil
}

// playOut answers every decision the round asks of the human until it ends.
func playOut(t *table.Table) error {
	for i := 0; i < 100; i++ {
		snap := t.Snapshot()
		rs := snap.Round
		switch {
		case rs.Phase == blackjack.PhaseRoundEnd, rs.Phase == blackjack.PhaseBetting:
			return nil
		case rs.Phase == blackjack.PhaseInsurance:
			if err := t.Insure(simPlayer, 0); err != nil {
				return err
			}
		case rs.Phase == blackjack.PhasePlayerTurn && rs.ActivePlayer == simPlayer:
			action := rs.Recommended
			if action == "" {
				action = blackjack.ActionStand
			}
			if err := t.Act(simPlayer, action); err != nil {
				return err
			}
		default:
			return fmt.Errorf("round %d stuck in %s", rs.Round, rs.Phase)
		}
	}
	return fmt.Errorf("round did not finish")
}

func humanChips(snap table.Snapshot) int64 {
	for _, p := range snap.Round.Players {
		if p.ID == simPlayer {
			return p.Chips
		}
	}
	return 0
}
