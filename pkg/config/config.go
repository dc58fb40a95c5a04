// Package config loads the game settings file shared by the server, the
// client and the simulator.
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/decred/slog"
	"gopkg.in/yaml.v3"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/logging"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

// AppName names the data directory and the settings file.
const AppName = "bjtrainer"

// FileName is the settings file inside the data directory.
const FileName = AppName + ".yaml"

// TableSettings configures the tables the server creates.
type TableSettings struct {
	StartingChips  int64         `yaml:"startingChips"`
	HumanSeat      int           `yaml:"humanSeat"`
	ActorSeats     []int         `yaml:"actorSeats"`
	RotationMin    int           `yaml:"rotationMinShoes"`
	RotationMax    int           `yaml:"rotationMaxShoes"`
	DecayInterval  time.Duration `yaml:"decayInterval"`
	WanderInterval time.Duration `yaml:"wanderInterval"`
	PromptTimeout  time.Duration `yaml:"promptTimeout"`
	StepDelay      time.Duration `yaml:"stepDelay"`
	ChatterChance  int           `yaml:"chatterChance"`
	InsuranceRate  int           `yaml:"aiInsuranceRate"`
}

// DetectorSettings tunes the suspicion model.
type DetectorSettings struct {
	DealerDecay        float64 `yaml:"dealerDecay"`
	PitBossDecay       float64 `yaml:"pitBossDecay"`
	ReportTransferCap  float64 `yaml:"reportTransferCap"`
	ReportTransferRate float64 `yaml:"reportTransferRate"`
	WongingHistory     int     `yaml:"wongingHistory"`
	WongingMinRecords  int     `yaml:"wongingMinRecords"`
	WongingMinSatOut   int     `yaml:"wongingMinSatOut"`
	WongingMinGap      float64 `yaml:"wongingMinCountGap"`
	BetHistory         int     `yaml:"betHistory"`
	CommentTiers       []int   `yaml:"commentTiers"`
}

// ServerSettings configures the network listeners and storage.
type ServerSettings struct {
	GRPCAddr string `yaml:"grpcAddr"`
	HTTPAddr string `yaml:"httpAddr"`
	DBPath   string `yaml:"dbPath"`
}

// LogSettings configures logging.
type LogSettings struct {
	DebugLevel  string `yaml:"debugLevel"`
	LogFile     string `yaml:"logFile"`
	MaxLogFiles int    `yaml:"maxLogFiles"`
}

// Config is the settings file.
type Config struct {
	DataDir string `yaml:"-"`

	// Preset names a rule set from blackjack.Presets that Rules starts from.
	Preset   string           `yaml:"preset,omitempty"`
	Rules    blackjack.Rules  `yaml:"rules"`
	Table    TableSettings    `yaml:"table"`
	Detector DetectorSettings `yaml:"detector"`
	Server   ServerSettings   `yaml:"server"`
	Log      LogSettings      `yaml:"log"`
}

// DefaultDataDir returns the platform application data directory.
func DefaultDataDir() string {
	return dcrutil.AppDataDir(AppName, false)
}

// Default returns the settings used when no file exists.
func Default(datadir string) *Config {
	if datadir == "" {
		datadir = DefaultDataDir()
	}
	return &Config{
		DataDir: datadir,
		Rules:   blackjack.DefaultRules(),
		Table: TableSettings{
			StartingChips:  1000,
			HumanSeat:      3,
			ActorSeats:     []int{0, 1, 5, 6},
			RotationMin:    5,
			RotationMax:    8,
			DecayInterval:  2 * time.Second,
			WanderInterval: 3 * time.Second,
			PromptTimeout:  15 * time.Second,
			StepDelay:      600 * time.Millisecond,
			ChatterChance:  30,
			InsuranceRate:  10,
		},
		Detector: DetectorSettings{
			DealerDecay:        0.5,
			PitBossDecay:       0.25,
			ReportTransferCap:  30,
			ReportTransferRate: 0.5,
			WongingHistory:     20,
			WongingMinRecords:  10,
			WongingMinSatOut:   3,
			WongingMinGap:      2,
			BetHistory:         20,
			CommentTiers:       []int{10, 30, 60, 80},
		},
		Server: ServerSettings{
			GRPCAddr: "127.0.0.1:50061",
			HTTPAddr: "127.0.0.1:8089",
			DBPath:   filepath.Join(datadir, "bjtrainer.sqlite"),
		},
		Log: LogSettings{
			DebugLevel:  "info",
			LogFile:     filepath.Join(datadir, "logs", AppName+".log"),
			MaxLogFiles: 3,
		},
	}
}

// Load reads the settings file from datadir, writing the defaults there
// first when the file does not exist.
func Load(datadir string) (*Config, error) {
	cfg := Default(datadir)
	path := filepath.Join(cfg.DataDir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Parse decodes settings over the defaults.
func Parse(datadir string, data []byte) (*Config, error) {
	cfg := Default(datadir)
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	var probe struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Preset != "" {
		preset, ok := blackjack.Presets[probe.Preset]
		if !ok {
			return fmt.Errorf("unknown preset %q", probe.Preset)
		}
		c.Rules = preset()
	}
	return yaml.Unmarshal(data, c)
}

// Save writes the settings file into the data directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.DataDir, FileName), data, 0600)
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Rules.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("rules: %w", err))
	}
	t := c.Table
	if t.StartingChips < c.Rules.MinBet {
		errs = append(errs, fmt.Errorf("table: starting chips %d below the minimum bet", t.StartingChips))
	}
	seats := map[int]bool{t.HumanSeat: true}
	for _, s := range t.ActorSeats {
		if seats[s] {
			errs = append(errs, fmt.Errorf("table: seat %d assigned twice", s))
		}
		seats[s] = true
	}
	if t.RotationMin <= 0 || t.RotationMax < t.RotationMin {
		errs = append(errs, fmt.Errorf("table: invalid dealer rotation [%d,%d]", t.RotationMin, t.RotationMax))
	}
	if t.ChatterChance < 0 || t.ChatterChance > 100 {
		errs = append(errs, fmt.Errorf("table: chatter chance %d outside [0,100]", t.ChatterChance))
	}
	d := c.Detector
	if d.DealerDecay < 0 || d.PitBossDecay < 0 {
		errs = append(errs, errors.New("detector: decay must not be negative"))
	}
	if d.WongingMinRecords > d.WongingHistory {
		errs = append(errs, fmt.Errorf("detector: wonging needs %d records but keeps %d",
			d.WongingMinRecords, d.WongingHistory))
	}
	return errors.Join(errs...)
}

// DetectorConfig converts the detector settings.
func (c *Config) DetectorConfig() suspicion.Config {
	d := c.Detector
	return suspicion.Config{
		Wonging: suspicion.WongingConfig{
			History:       d.WongingHistory,
			MinRecords:    d.WongingMinRecords,
			MinSatOut:     d.WongingMinSatOut,
			MinDifference: d.WongingMinGap,
		},
		DealerDecay:        d.DealerDecay,
		PitBossDecay:       d.PitBossDecay,
		ReportTransferCap:  d.ReportTransferCap,
		ReportTransferRate: d.ReportTransferRate,
		CommentTiers:       d.CommentTiers,
		BetHistory:         d.BetHistory,
	}
}

// TableConfig builds the configuration of a new table.
func (c *Config) TableConfig(id string, log slog.Logger, rng *rand.Rand, sched blackjack.Scheduler) table.Config {
	t := c.Table
	return table.Config{
		ID:             id,
		Log:            log,
		Rules:          c.Rules,
		Rng:            rng,
		Scheduler:      sched,
		Actors:         table.SeatActors(rng, table.DefaultRoster, t.ActorSeats),
		Detector:       c.DetectorConfig(),
		RotationMin:    t.RotationMin,
		RotationMax:    t.RotationMax,
		DecayInterval:  t.DecayInterval,
		WanderInterval: t.WanderInterval,
		PromptTimeout:  t.PromptTimeout,
		StepDelay:      t.StepDelay,
		ChatterChance:  t.ChatterChance,
		InsuranceRate:  t.InsuranceRate,
	}
}

// LogConfig converts the log settings.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		LogFile:     c.Log.LogFile,
		DebugLevel:  c.Log.DebugLevel,
		MaxLogFiles: c.Log.MaxLogFiles,
	}
}
