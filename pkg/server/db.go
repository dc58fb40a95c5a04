package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vctt94/cardcounter/pkg/server/internal/db"
	"github.com/vctt94/cardcounter/pkg/table"
)

// Database defines the interface for database operations
type Database interface {
	// CreatePlayer registers a player with an opening balance, reporting
	// false when the player already exists.
	CreatePlayer(playerID, name string, balance int64) (bool, error)
	// GetPlayerBalance returns the current balance of a player
	GetPlayerBalance(playerID string) (int64, error)
	// UpdatePlayerBalance updates a player's balance and records the transaction
	UpdatePlayerBalance(playerID string, amount int64, transactionType, description string) error

	SaveSessionStats(stats *db.SessionStats) error
	LoadSessionStats(playerID string) ([]*db.SessionStats, error)

	// Close closes the database connection
	Close() error
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string) (Database, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return db.NewDB(dbPath)
}

// sessionRecord converts table stats to their stored form.
func sessionRecord(playerID, tableID string, s table.Stats) *db.SessionStats {
	return &db.SessionStats{
		PlayerID:      playerID,
		TableID:       tableID,
		HandsPlayed:   s.HandsPlayed,
		HandsSatOut:   s.HandsSatOut,
		Wins:          s.Wins,
		Losses:        s.Losses,
		Pushes:        s.Pushes,
		Blackjacks:    s.Blackjacks,
		Net:           s.Net,
		Reports:       s.Reports,
		PeakAttention: s.PeakAttention,
		Accuracy:      s.Accuracy,
		Score:         s.Score,
	}
}
