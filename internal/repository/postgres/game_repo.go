package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"github.com/lib/pq"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame stores a finished game (UPSERT so a retried save is harmless)
func (r *GameRepo) SaveGame(ctx context.Context, record domain.GameRecord) error {
	boardJSON, err := json.Marshal(record.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	var winner sql.NullInt16
	if record.Winner != 0 {
		winner = sql.NullInt16{Int16: int16(record.Winner), Valid: true}
	}

	query := `
	INSERT INTO game (game_id, table_id, board_rows, board_columns, outcome, winner, winning_cells,
	                  player1_color, player2_color, total_moves, duration_seconds, started_at, finished_at, board_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (game_id) DO UPDATE SET
		outcome = EXCLUDED.outcome,
		winner = EXCLUDED.winner,
		winning_cells = EXCLUDED.winning_cells,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state;
	`

	_, err = r.DB.ExecContext(ctx, query,
		record.GameID, record.TableID, record.Rows, record.Columns, string(record.Outcome), winner,
		pq.Array(flattenCells(record.WinningCells)),
		record.Player1Color, record.Player2Color, record.TotalMoves, record.DurationSeconds(),
		record.StartedAt, record.FinishedAt, boardJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

const gameColumns = `game_id, table_id, board_rows, board_columns, outcome, winner, winning_cells,
	       player1_color, player2_color, total_moves, started_at, finished_at, board_state`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var (
		record    domain.GameRecord
		outcome   string
		winner    sql.NullInt16
		cells     []int64
		boardJSON []byte
	)

	err := row.Scan(
		&record.GameID,
		&record.TableID,
		&record.Rows,
		&record.Columns,
		&outcome,
		&winner,
		pq.Array(&cells),
		&record.Player1Color,
		&record.Player2Color,
		&record.TotalMoves,
		&record.StartedAt,
		&record.FinishedAt,
		&boardJSON,
	)
	if err != nil {
		return nil, err
	}

	record.Outcome = domain.Phase(outcome)
	if winner.Valid {
		record.Winner = int(winner.Int16)
	}
	record.WinningCells = unflattenCells(cells)
	if err := json.Unmarshal(boardJSON, &record.Board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	return &record, nil
}

// GetGameByID returns nil, nil when the game is not archived
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM game WHERE game_id = $1;`

	record, err := scanGame(r.DB.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return record, nil
}

// ListRecentGames returns the latest finished games, newest first
func (r *GameRepo) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM game ORDER BY finished_at DESC LIMIT $1;`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *record)
	}
	return games, rows.Err()
}

// cells are stored as a flat row,column,row,column... integer array
func flattenCells(cells []domain.Cell) []int64 {
	flat := make([]int64, 0, 2*len(cells))
	for _, c := range cells {
		flat = append(flat, int64(c.Row), int64(c.Column))
	}
	return flat
}

func unflattenCells(flat []int64) []domain.Cell {
	if len(flat) == 0 {
		return nil
	}
	cells := make([]domain.Cell, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		cells = append(cells, domain.Cell{Row: int(flat[i]), Column: int(flat[i+1])})
	}
	return cells
}
