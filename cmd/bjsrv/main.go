package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"google.golang.org/grpc"

	"github.com/vctt94/cardcounter/pkg/config"
	"github.com/vctt94/cardcounter/pkg/logging"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file next to the binary may carry BJ_DATADIR.
	_ = godotenv.Load()

	var (
		dataDir    string
		grpcAddr   string
		httpAddr   string
		dbPath     string
		portFile   string
		debugLevel string
	)
	flag.StringVar(&dataDir, "datadir", os.Getenv("BJ_DATADIR"), "Directory holding "+config.FileName)
	flag.StringVar(&grpcAddr, "grpcaddr", "", "gRPC listen address (overrides config)")
	flag.StringVar(&httpAddr, "httpaddr", "", "HTTP status API listen address, \"off\" disables it")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database file (created if missing)")
	flag.StringVar(&portFile, "portfile", "", "If set, write the selected gRPC port to this file")
	flag.StringVar(&debugLevel, "debuglevel", "", "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	if grpcAddr != "" {
		cfg.Server.GRPCAddr = grpcAddr
	}
	if httpAddr != "" {
		cfg.Server.HTTPAddr = httpAddr
	}
	if dbPath != "" {
		cfg.Server.DBPath = dbPath
	}
	if debugLevel != "" {
		cfg.Log.DebugLevel = debugLevel
	}

	logBackend, err := logging.NewLogBackend(cfg.LogConfig())
	if err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	defer logBackend.Close()
	log := logBackend.Logger("MAIN")

	db, err := server.NewDatabase(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	srv := server.NewServer(server.Config{
		Settings:   cfg,
		DB:         db,
		LogBackend: logBackend,
	})

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if portFile != "" {
		_, p, _ := net.SplitHostPort(lis.Addr().String())
		_ = os.WriteFile(portFile, []byte(p), 0600)
	}

	grpcSrv := grpc.NewServer()
	tablerpc.RegisterTableServiceServer(grpcSrv, srv)

	var httpSrv *http.Server
	if cfg.Server.HTTPAddr != "" && cfg.Server.HTTPAddr != "off" {
		httpSrv = &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Infof("HTTP status API listening on %s", cfg.Server.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("HTTP server: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("gRPC listening on %s", lis.Addr())
		errCh <- grpcSrv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			log.Errorf("gRPC serve error: %v", err)
		}
	}

	if httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = httpSrv.Shutdown(sctx)
		cancel()
	}
	// Closing the tables ends the event streams so GracefulStop can return.
	srv.Stop()
	grpcSrv.GracefulStop()
	return nil
}
