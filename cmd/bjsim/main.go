package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/config"
	"github.com/vctt94/cardcounter/pkg/logging"
	"github.com/vctt94/cardcounter/pkg/suspicion"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string
	root := &cobra.Command{
		Use:          "bjsim",
		Short:        "Play scripted counting sessions against the table engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "datadir", "", "Directory holding "+config.FileName)

	root.AddCommand(newRunCmd(&dataDir), newPresetsCmd())
	return root
}

func loadSettings(dataDir, preset string) (*config.Config, error) {
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	if preset != "" {
		rules, ok := blackjack.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		cfg.Preset = preset
		cfg.Rules = rules()
	}
	return cfg, nil
}

func newRunCmd(dataDir *string) *cobra.Command {
	var (
		sc         simConfig
		preset     string
		answer     string
		dump       bool
		debugLevel string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a session and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(*dataDir, preset)
			if err != nil {
				return err
			}
			sc.Answer = suspicion.Response(answer)

			lb, err := logging.NewLogBackend(logging.LogConfig{DebugLevel: debugLevel})
			if err != nil {
				return err
			}
			defer lb.Close()

			spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Playing %d hands (%s)", sc.Hands, sc.Style))
			res, err := simulate(cfg, sc, lb.Logger("SIM"))
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Success("Session finished")

			printResult(cfg, res)
			if dump {
				spew.Dump(res.Final)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&sc.Hands, "hands", 200, "Number of rounds to play or sit out")
	f.StringVar(&sc.Style, "style", styleSpread, "Betting style: flat, spread or wong")
	f.Int64Var(&sc.Seed, "seed", time.Now().UnixNano(), "Shoe seed")
	f.DurationVar(&sc.Think, "think", 8*time.Second, "Table time between hands")
	f.StringVar(&preset, "preset", "", "Rule preset")
	f.StringVar(&answer, "answer", string(suspicion.Engaged), "Reply to dealer chatter: friendly, neutral, dismissive or ignore")
	f.BoolVar(&dump, "dump", false, "Dump the final table snapshot")
	f.StringVar(&debugLevel, "debuglevel", "off", "Logging level")
	return cmd
}

func printResult(cfg *config.Config, res *simResult) {
	st := res.Stats
	data := pterm.TableData{
		{"Stat", "Value"},
		{"Hands played", strconv.Itoa(res.Hands)},
		{"Hands sat out", strconv.Itoa(res.SatOut)},
		{"Record (W/L/P)", fmt.Sprintf("%d/%d/%d", st.Wins, st.Losses, st.Pushes)},
		{"Blackjacks", strconv.Itoa(st.Blackjacks)},
		{"Net", fmt.Sprintf("%+d", st.Net)},
		{"Chips", fmt.Sprintf("%d (started %d)", res.Chips, cfg.Table.StartingChips)},
		{"Largest bet", strconv.FormatInt(res.MaxBet, 10)},
		{"Decision accuracy", fmt.Sprintf("%.1f%%", st.Accuracy*100)},
		{"Score", strconv.Itoa(st.Score)},
		{"Reports", strconv.Itoa(st.Reports)},
		{"Peak pit boss attention", fmt.Sprintf("%.1f", st.PeakAttention)},
		{"Dealer comments", strconv.Itoa(res.Comments)},
		{"Bet discretion", fmt.Sprintf("%.2f", res.Final.Discretion)},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	sus := res.Final.Suspicion
	pterm.Info.Printfln("Dealer %s ends at suspicion %.1f", res.Final.Dealer.Name, sus.DealerSuspicion)
	pterm.Info.Printfln("Pit boss attention %.1f, proximity %.1f", sus.PitBossAttention, sus.PitBossProximity)
	if len(res.Dealers) > 0 {
		pterm.Info.Printfln("Dealer changes: %v", res.Dealers)
	}
	if st.Reports > 0 {
		pterm.Warning.Printfln("Reported to the pit boss %d time(s)", st.Reports)
	}

	printTimeline(res.Timeline)
	printHeatMap(res.Heat)
}

// timelineRows bounds the suspicion timeline printed after a session.
const timelineRows = 10

func printTimeline(points []timelinePoint) {
	if len(points) == 0 {
		return
	}
	pterm.DefaultSection.Println("Suspicion timeline")
	step := max(1, len(points)/timelineRows)
	data := pterm.TableData{{"Round", "True count", "Dealer", "Pit boss", "Proximity"}}
	for i := 0; i < len(points); i += step {
		p := points[i]
		data = append(data, []string{
			strconv.Itoa(p.Round),
			fmt.Sprintf("%+.1f", p.TrueCount),
			fmt.Sprintf("%.1f", p.Suspicion),
			fmt.Sprintf("%.1f", p.Attention),
			fmt.Sprintf("%.0f", p.Proximity),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printHeatMap(buckets []suspicion.HeatBucket) {
	if len(buckets) == 0 {
		return
	}
	pterm.DefaultSection.Println("Pit boss heat map")
	bars := make(pterm.Bars, 0, len(buckets))
	for _, b := range buckets {
		bars = append(bars, pterm.Bar{
			Label: fmt.Sprintf("TC %+.0f (%d)", b.TrueCount, b.Samples),
			Value: int(math.Round(b.AvgProximity)),
		})
	}
	_ = pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render()
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the rule presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(blackjack.Presets))
			for name := range blackjack.Presets {
				names = append(names, name)
			}
			sort.Strings(names)

			data := pterm.TableData{{"Preset", "Decks", "Pen.", "Soft 17", "Blackjack", "Double", "DAS", "Surrender", "Insurance"}}
			for _, name := range names {
				r := blackjack.Presets[name]()
				s17 := "stand"
				if r.DealerHitsSoft17 {
					s17 = "hit"
				}
				data = append(data, []string{
					name,
					strconv.Itoa(r.NumDecks),
					fmt.Sprintf("%d%%", r.Penetration),
					s17,
					string(r.BlackjackPayout),
					string(r.DoubleRule),
					strconv.FormatBool(r.DoubleAfterSplit),
					strconv.FormatBool(r.LateSurrender),
					strconv.FormatBool(r.InsuranceAvailable),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}
