package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vctt94/cardcounter/pkg/config"
	"github.com/vctt94/cardcounter/pkg/logging"
)

// ConfigOverrides carries optional CLI/runtime overrides for config values.
type ConfigOverrides struct {
	ServerAddr string
	ServerCert string
	ServerName string
	PlayerID   string
	Name       string
	Preset     string
	Debug      string
}

// AppConfig is everything the client needs to reach a table server.
type AppConfig struct {
	// Settings is the shared settings file; the client reads the server
	// address and log settings from it.
	Settings *config.Config

	DataDir string

	PlayerID string
	Name     string
	Preset   string
	Seed     int64

	// gRPC server configuration. An empty ServerCert dials without TLS.
	ServerAddr string
	ServerCert string
	ServerName string

	Notifications *NotificationManager
	LogBackend    *logging.LogBackend

	// DialOptions are appended to the options derived from the fields
	// above.
	DialOptions []grpc.DialOption
}

// LoadConfig loads the settings file from datadir and applies overrides.
func LoadConfig(datadir string, ov ConfigOverrides) (*AppConfig, error) {
	if datadir == "" {
		datadir = config.DefaultDataDir()
	}
	settings, err := config.Load(datadir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if ov.Debug != "" {
		settings.Log.DebugLevel = ov.Debug
	}

	cfg := &AppConfig{
		Settings:   settings,
		DataDir:    datadir,
		PlayerID:   ov.PlayerID,
		Name:       ov.Name,
		Preset:     ov.Preset,
		ServerAddr: settings.Server.GRPCAddr,
		ServerCert: ov.ServerCert,
		ServerName: ov.ServerName,
	}
	if ov.ServerAddr != "" {
		cfg.ServerAddr = ov.ServerAddr
	}
	if cfg.PlayerID == "" {
		if u := os.Getenv("USER"); u != "" {
			cfg.PlayerID = u
		} else {
			cfg.PlayerID = "player"
		}
	}
	if cfg.Name == "" {
		cfg.Name = cfg.PlayerID
	}
	return cfg, nil
}

// ValidateConfig checks that all required configuration values are present
func (cfg *AppConfig) ValidateConfig() error {
	var missingConfigs []string

	if cfg.ServerAddr == "" {
		missingConfigs = append(missingConfigs, "ServerAddr")
	}
	if cfg.PlayerID == "" {
		missingConfigs = append(missingConfigs, "PlayerID")
	}
	if cfg.Notifications == nil {
		missingConfigs = append(missingConfigs, "Notifications")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration values: %v", missingConfigs)
	}

	return nil
}

func (cfg *AppConfig) dialOptions() ([]grpc.DialOption, error) {
	var opts []grpc.DialOption
	if cfg.ServerCert == "" {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		pemServerCA, err := os.ReadFile(cfg.ServerCert)
		if err != nil {
			return nil, fmt.Errorf("failed to read server certificate: %v", err)
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(pemServerCA) {
			return nil, fmt.Errorf("failed to add server certificate to pool")
		}

		serverName := cfg.ServerName
		if serverName == "" {
			serverName = "localhost"
		}
		creds := credentials.NewTLS(&tls.Config{
			RootCAs:    certPool,
			ServerName: serverName,
		})
		opts = append(opts, grpc.WithTransportCredentials(creds))
	}
	return append(opts, cfg.DialOptions...), nil
}
