package domain

import "fmt"

type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Phase         Phase
	Winner        PlayerID
	WinningCells  []Cell
	MoveCount     int
	LastMove      *Cell
	Player1Color  int
	Player2Color  int
	Status        string
}

// MoveResult describes what a successful Drop changed.
type MoveResult struct {
	Row      int
	Column   int
	Player   PlayerID
	Terminal TerminalState
}

type TerminalState struct {
	Won          bool
	Winner       PlayerID
	WinningCells []Cell
	Drawn        bool
}

func NewGame() *Game {
	g, _ := NewGameWithSize(Rows, Columns)
	return g
}

func NewGameWithSize(rows, columns int) (*Game, error) {
	board, err := NewBoard(rows, columns)
	if err != nil {
		return nil, err
	}
	return &Game{
		Board:         board,
		CurrentPlayer: Player1,
		Phase:         PhaseNotStarted,
		Winner:        Empty,
		Player1Color:  NoColor,
		Player2Color:  NoColor,
		Status:        StatusPickColors,
	}, nil
}

func (g *Game) ColorOf(player PlayerID) int {
	switch player {
	case Player1:
		return g.Player1Color
	case Player2:
		return g.Player2Color
	}
	return NoColor
}

func (g *Game) setColor(player PlayerID, index int) {
	if player == Player1 {
		g.Player1Color = index
	} else {
		g.Player2Color = index
	}
}

// SelectColor assigns a palette entry to player. Picking the color the
// other player holds takes it away from them.
func (g *Game) SelectColor(player PlayerID, index int) error {
	if !player.Valid() {
		return ErrInvalidPlayer
	}
	if !IsValidColor(index) {
		return ErrInvalidColor
	}
	if g.Phase != PhaseNotStarted {
		return ErrAlreadyStarted
	}

	g.setColor(player, index)
	if g.ColorOf(player.Other()) == index {
		g.setColor(player.Other(), NoColor)
	}

	g.Status = StatusColorsChosen
	return nil
}

func (g *Game) Start() error {
	if g.Phase != PhaseNotStarted {
		return ErrAlreadyStarted
	}
	if g.Player1Color == NoColor || g.Player2Color == NoColor {
		g.Status = StatusPickBeforeStart
		return ErrColorsNotSelected
	}
	if g.Player1Color == g.Player2Color {
		g.Status = StatusColorsMustDiffer
		return ErrSameColors
	}

	g.Phase = PhaseInProgress
	g.CurrentPlayer = Player1
	g.Status = StatusStarted
	return nil
}

// Drop places a disk for the current player. The win check runs before the
// draw check so a move that both completes a run and fills the board wins.
func (g *Game) Drop(column int) (MoveResult, error) {
	if column < 0 || column >= g.Board.Columns() {
		return MoveResult{}, ErrColumnOutOfRange
	}

	switch g.Phase {
	case PhaseWon, PhaseDrawn:
		return MoveResult{}, ErrGameOver
	case PhaseNotStarted:
		g.Status = StatusPickAndStart
		return MoveResult{}, ErrNotStarted
	}

	player := g.CurrentPlayer
	row, err := g.Board.DropDisk(column, player)
	if err != nil {
		if err == ErrColumnFull {
			g.Status = StatusColumnFull
		}
		return MoveResult{}, err
	}

	g.MoveCount++
	g.LastMove = &Cell{Row: row, Column: column}

	if win := CheckWin(g.Board, row, column); win.Won {
		g.Phase = PhaseWon
		g.Winner = player
		g.WinningCells = win.Cells
		g.Status = fmt.Sprintf(StatusVictoryFmt, player.Label())
	} else if g.Board.IsFull() {
		g.Phase = PhaseDrawn
		g.Status = StatusDraw
	} else {
		g.CurrentPlayer = player.Other()
		g.Status = fmt.Sprintf(StatusTurnFmt, g.CurrentPlayer.Label())
	}

	return MoveResult{
		Row:      row,
		Column:   column,
		Player:   player,
		Terminal: g.CheckTerminal(),
	}, nil
}

func (g *Game) CheckTerminal() TerminalState {
	state := TerminalState{
		Won:   g.Phase == PhaseWon,
		Drawn: g.Phase == PhaseDrawn,
	}
	if state.Won {
		state.Winner = g.Winner
		state.WinningCells = append([]Cell(nil), g.WinningCells...)
	}
	return state
}

// Reset clears the grid and returns to not started. Color choices survive.
func (g *Game) Reset() {
	g.Board.Clear()
	g.CurrentPlayer = Player1
	g.Phase = PhaseNotStarted
	g.Winner = Empty
	g.WinningCells = nil
	g.MoveCount = 0
	g.LastMove = nil
	g.Status = StatusReset
}

// ChangeColors drops both color choices and clears the grid.
func (g *Game) ChangeColors() {
	g.Reset()
	g.Player1Color = NoColor
	g.Player2Color = NoColor
	g.Status = StatusPickAgain
}
