package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned for unknown players.
var ErrNotFound = errors.New("player not found")

// DB represents the database connection
type DB struct {
	*sql.DB
}

// Transaction is a chip movement on a player's bankroll.
type Transaction struct {
	ID          int64
	PlayerID    string
	Amount      int64
	Type        string
	Description string
	CreatedAt   time.Time
}

// SessionStats is the persisted summary of a player's session at a table.
type SessionStats struct {
	PlayerID      string
	TableID       string
	HandsPlayed   int
	HandsSatOut   int
	Wins          int
	Losses        int
	Pushes        int
	Blackjacks    int
	Net           int64
	Reports       int
	PeakAttention float64
	Accuracy      float64
	Score         int
	UpdatedAt     time.Time
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; in-memory databases exist per
	// connection.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary database tables
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			balance INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			type TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (player_id) REFERENCES players(id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS session_stats (
			player_id TEXT NOT NULL,
			table_id TEXT NOT NULL,
			hands_played INTEGER NOT NULL DEFAULT 0,
			hands_sat_out INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			pushes INTEGER NOT NULL DEFAULT 0,
			blackjacks INTEGER NOT NULL DEFAULT 0,
			net INTEGER NOT NULL DEFAULT 0,
			reports INTEGER NOT NULL DEFAULT 0,
			peak_attention REAL NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (player_id, table_id),
			FOREIGN KEY (player_id) REFERENCES players(id)
		)
	`)
	return err
}

// CreatePlayer registers a player with an opening balance. It is a no-op
// for known players.
func (db *DB) CreatePlayer(playerID, name string, balance int64) (created bool, err error) {
	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT OR IGNORE INTO players (id, name, balance) VALUES (?, ?, ?)`,
		playerID, name, balance)
	if err != nil {
		return false, fmt.Errorf("failed to create player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	_, err = tx.Exec(`
		INSERT INTO transactions (player_id, amount, type, description)
		VALUES (?, ?, 'grant', 'starting chips')
	`, playerID, balance)
	if err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// GetPlayerBalance returns the current balance of a player
func (db *DB) GetPlayerBalance(playerID string) (int64, error) {
	var balance int64
	err := db.QueryRow("SELECT balance FROM players WHERE id = ?", playerID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get player balance: %w", err)
	}
	return balance, nil
}

// UpdatePlayerBalance updates a player's balance and records the transaction
func (db *DB) UpdatePlayerBalance(playerID string, amount int64, transactionType, description string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE players SET balance = balance + ? WHERE id = ?`, amount, playerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}

	_, err = tx.Exec(`
		INSERT INTO transactions (player_id, amount, type, description)
		VALUES (?, ?, ?, ?)
	`, playerID, amount, transactionType, description)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Transactions returns the newest limit transactions of a player, newest
// first.
func (db *DB) Transactions(playerID string, limit int) ([]Transaction, error) {
	rows, err := db.Query(`
		SELECT id, player_id, amount, type, COALESCE(description, ''), created_at
		FROM transactions WHERE player_id = ?
		ORDER BY id DESC LIMIT ?
	`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveSessionStats upserts the stats of a player's session at a table.
func (db *DB) SaveSessionStats(s *SessionStats) error {
	_, err := db.Exec(`
		INSERT INTO session_stats (player_id, table_id, hands_played, hands_sat_out,
			wins, losses, pushes, blackjacks, net, reports, peak_attention,
			accuracy, score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, table_id) DO UPDATE SET
			hands_played = excluded.hands_played,
			hands_sat_out = excluded.hands_sat_out,
			wins = excluded.wins,
			losses = excluded.losses,
			pushes = excluded.pushes,
			blackjacks = excluded.blackjacks,
			net = excluded.net,
			reports = excluded.reports,
			peak_attention = excluded.peak_attention,
			accuracy = excluded.accuracy,
			score = excluded.score,
			updated_at = excluded.updated_at
	`, s.PlayerID, s.TableID, s.HandsPlayed, s.HandsSatOut, s.Wins, s.Losses,
		s.Pushes, s.Blackjacks, s.Net, s.Reports, s.PeakAttention, s.Accuracy,
		s.Score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save session stats: %w", err)
	}
	return nil
}

// LoadSessionStats returns every session of a player, most recent first.
func (db *DB) LoadSessionStats(playerID string) ([]*SessionStats, error) {
	rows, err := db.Query(`
		SELECT player_id, table_id, hands_played, hands_sat_out, wins, losses,
			pushes, blackjacks, net, reports, peak_attention, accuracy, score,
			updated_at
		FROM session_stats WHERE player_id = ?
		ORDER BY updated_at DESC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SessionStats
	for rows.Next() {
		s := &SessionStats{}
		err := rows.Scan(&s.PlayerID, &s.TableID, &s.HandsPlayed, &s.HandsSatOut,
			&s.Wins, &s.Losses, &s.Pushes, &s.Blackjacks, &s.Net, &s.Reports,
			&s.PeakAttention, &s.Accuracy, &s.Score, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
