// Package results persists finished games and tournaments in sqlite.
package results

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const (
	gameResultsTable       = "game_results"
	tournamentResultsTable = "tournament_results"
)

// Rank is one player's placing in a finished game.
type Rank struct {
	PlayerName string
	PlayerID   string
	Rank       int
	Points     int
	Alive      bool
}

// Standing is one player's total at the end of a tournament.
type Standing struct {
	PlayerName string
	PlayerID   string
	Points     int
}

// GameRecord is a stored rank together with the game it belongs to.
type GameRecord struct {
	ID         int
	RunID      string
	GameID     string
	PlayerName string
	PlayerID   string
	Rank       int
	Points     int
	Alive      bool
	CreatedAt  time.Time
}

type ResultStore struct {
	db *sql.DB
}

// Open opens or creates the sqlite file at path and ensures the schema.
func Open(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database %s: %w", path, err)
	}

	store := &ResultStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (store *ResultStore) Close() error {
	return store.db.Close()
}

func (store *ResultStore) createTables() error {
	const createTablesSQL = `
	CREATE TABLE IF NOT EXISTS ` + gameResultsTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		game_id TEXT NOT NULL,
		player_name TEXT NOT NULL,
		player_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		points INTEGER NOT NULL,
		alive BOOLEAN NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS ` + tournamentResultsTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tournament_id TEXT NOT NULL,
		tournament_name TEXT NOT NULL,
		player_name TEXT NOT NULL,
		player_id TEXT NOT NULL,
		points INTEGER NOT NULL,
		is_winner BOOLEAN NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := store.db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("Results tables ensured.")
	return nil
}

// SaveGameResult stores every rank of one game in a single transaction.
func (store *ResultStore) SaveGameResult(runID, gameID string, ranks []Rank) error {
	const insertSQL = `
	INSERT INTO ` + gameResultsTable + ` (run_id, game_id, player_name, player_id, rank, points, alive)
	VALUES (?, ?, ?, ?, ?, ?, ?);`

	tx, err := store.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for game %s: %w", gameID, err)
	}
	defer tx.Rollback()

	for _, rank := range ranks {
		if _, err := tx.Exec(insertSQL, runID, gameID, rank.PlayerName, rank.PlayerID, rank.Rank, rank.Points, rank.Alive); err != nil {
			return fmt.Errorf("failed to insert result of %s for game %s: %w", rank.PlayerName, gameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results for game %s: %w", gameID, err)
	}
	return nil
}

// SaveTournamentResult stores the final standings of a tournament.
func (store *ResultStore) SaveTournamentResult(runID, tournamentID, tournamentName, winnerID string, standings []Standing) error {
	const insertSQL = `
	INSERT INTO ` + tournamentResultsTable + ` (run_id, tournament_id, tournament_name, player_name, player_id, points, is_winner)
	VALUES (?, ?, ?, ?, ?, ?, ?);`

	tx, err := store.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for tournament %s: %w", tournamentID, err)
	}
	defer tx.Rollback()

	for _, standing := range standings {
		if _, err := tx.Exec(insertSQL, runID, tournamentID, tournamentName, standing.PlayerName, standing.PlayerID,
			standing.Points, standing.PlayerID == winnerID); err != nil {
			return fmt.Errorf("failed to insert standing of %s for tournament %s: %w", standing.PlayerName, tournamentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit standings for tournament %s: %w", tournamentID, err)
	}
	return nil
}

// GetPlayerResults pages through one player's games, newest first.
func (store *ResultStore) GetPlayerResults(playerName string, limit, offset int) ([]GameRecord, error) {
	const selectSQL = `
	SELECT id, run_id, game_id, player_name, player_id, rank, points, alive, created_at
	FROM ` + gameResultsTable + `
	WHERE player_name = ?
	ORDER BY id DESC
	LIMIT ? OFFSET ?;`

	rows, err := store.db.Query(selectSQL, playerName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var record GameRecord
		if err := rows.Scan(&record.ID, &record.RunID, &record.GameID, &record.PlayerName, &record.PlayerID,
			&record.Rank, &record.Points, &record.Alive, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}

	return records, nil
}

// Summary aggregates one player's stored games.
type Summary struct {
	Games     int
	Wins      int
	BestScore int
	AvgPoints float64
}

func (store *ResultStore) GetPlayerSummary(playerName string) (Summary, error) {
	const summarySQL = `
	SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN rank = 1 THEN 1 ELSE 0 END), 0),
		COALESCE(MAX(points), 0),
		COALESCE(AVG(points), 0)
	FROM ` + gameResultsTable + `
	WHERE player_name = ?;`

	var summary Summary
	err := store.db.QueryRow(summarySQL, playerName).Scan(&summary.Games, &summary.Wins, &summary.BestScore, &summary.AvgPoints)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize results for %s: %w", playerName, err)
	}
	return summary, nil
}
