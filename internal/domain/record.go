package domain

import "time"

// GameRecord is a finished game as kept in the archive.
type GameRecord struct {
	GameID       string    `json:"gameId"`
	TableID      string    `json:"tableId"`
	Rows         int       `json:"rows"`
	Columns      int       `json:"columns"`
	Outcome      Phase     `json:"outcome"`
	Winner       int       `json:"winner,omitempty"`
	WinningCells []Cell    `json:"winningCells,omitempty"`
	Player1Color int       `json:"player1Color"`
	Player2Color int       `json:"player2Color"`
	TotalMoves   int       `json:"totalMoves"`
	Board        [][]int   `json:"board"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

func (r GameRecord) DurationSeconds() int {
	return int(r.FinishedAt.Sub(r.StartedAt).Seconds())
}
