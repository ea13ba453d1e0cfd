package autoplay

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	name TEXT,
	fen TEXT,
	outcome TEXT,
	final_fen TEXT,
	plies INTEGER,
	white_moves INTEGER,
	black_moves INTEGER,
	nodes INTEGER,
	duration_ms INTEGER,
	error TEXT
)`

// SaveResults appends the results of a batch to a SQLite database,
// creating the games table if needed.
func SaveResults(path string, results []GameResult) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(createGamesTable); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO games
		(id, name, fen, outcome, final_fen, plies, white_moves, black_moves, nodes, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.Exec(r.ID, r.Name, r.FEN, string(r.Outcome), r.FinalFEN,
			r.Plies, r.WhiteMoves, r.BlackMoves, r.Nodes,
			r.Duration.Milliseconds(), r.Err)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert game %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}
