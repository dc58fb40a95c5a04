package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vctt94/cardcounter/pkg/client"
	"github.com/vctt94/cardcounter/pkg/logging"
	"github.com/vctt94/cardcounter/pkg/ui"
)

var (
	dataDir    = flag.String("datadir", "", "Directory to load config file from")
	serverAddr = flag.String("server", "", "gRPC server address (host:port)")
	serverCert = flag.String("servercert", "", "Path to the server TLS certificate; plaintext when empty")
	serverName = flag.String("servername", "", "TLS server name to verify")
	playerID   = flag.String("id", "", "Player ID (defaults to $USER)")
	name       = flag.String("name", "", "Display name")
	preset     = flag.String("preset", "", "Rule preset of new tables")
	seed       = flag.Int64("seed", 0, "Deterministic shoe seed for new tables (0 = random)")
	debug      = flag.String("debug", "", "Debug level for logging")
)

func main() {
	flag.Parse()

	cfg, err := client.LoadConfig(*dataDir, client.ConfigOverrides{
		ServerAddr: *serverAddr,
		ServerCert: *serverCert,
		ServerName: *serverName,
		PlayerID:   *playerID,
		Name:       *name,
		Preset:     *preset,
		Debug:      *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg.Seed = *seed

	// The terminal belongs to the UI; logs only go to the file.
	logCfg := cfg.Settings.LogConfig()
	logCfg.NoStdout = true
	logBackend, err := logging.NewLogBackend(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging error: %v\n", err)
		os.Exit(1)
	}
	defer logBackend.Close()
	cfg.LogBackend = logBackend
	cfg.Notifications = client.NewNotificationManager()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	bc, err := client.NewBlackjackClient(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer bc.Close()

	if err := ui.Run(ctx, bc, cfg.Preset); err != nil {
		fmt.Fprintf(os.Stderr, "Error running UI: %v\n", err)
	}

	// Leaving stores the session on the server.
	if bc.GetCurrentTableID() != "" {
		if _, err := bc.LeaveTable(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to leave table: %v\n", err)
		}
	}
}
