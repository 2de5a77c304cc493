package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame()
	require.NoError(t, g.SelectColor(Player1, 0))
	require.NoError(t, g.SelectColor(Player2, 1))
	require.NoError(t, g.Start())
	return g
}

// drawOwner lays out a full 6x7 grid with 21 disks each and no run longer
// than two in any direction.
func drawOwner(r, c int) PlayerID {
	rowFlip := []int{0, 1, 1, 0, 0, 1}
	if (c%2)^rowFlip[r] == 0 {
		return Player1
	}
	return Player2
}

func TestGame_SelectColorAndStart(t *testing.T) {
	t.Run("start requires both colors", func(t *testing.T) {
		g := NewGame()
		require.NoError(t, g.SelectColor(Player1, 2))

		err := g.Start()

		assert.ErrorIs(t, err, ErrColorsNotSelected)
		assert.Equal(t, PhaseNotStarted, g.Phase)
		assert.Equal(t, StatusPickBeforeStart, g.Status)
	})

	t.Run("picking the other player's color unassigns it", func(t *testing.T) {
		// Given: both players hold different colors
		g := NewGame()
		require.NoError(t, g.SelectColor(Player1, 0))
		require.NoError(t, g.SelectColor(Player2, 1))

		// When: player 2 picks player 1's color
		require.NoError(t, g.SelectColor(Player2, 0))

		// Then: player 1 has no color and start is refused
		assert.Equal(t, NoColor, g.Player1Color)
		assert.Equal(t, 0, g.Player2Color)
		assert.ErrorIs(t, g.Start(), ErrColorsNotSelected)
	})

	t.Run("same colors are rejected on start", func(t *testing.T) {
		g := NewGame()
		g.Player1Color, g.Player2Color = 3, 3

		assert.ErrorIs(t, g.Start(), ErrSameColors)
		assert.Equal(t, PhaseNotStarted, g.Phase)
	})

	t.Run("invalid selections", func(t *testing.T) {
		g := NewGame()

		assert.ErrorIs(t, g.SelectColor(Player1, len(Palette)), ErrInvalidColor)
		assert.ErrorIs(t, g.SelectColor(Player1, -1), ErrInvalidColor)
		assert.ErrorIs(t, g.SelectColor(Empty, 0), ErrInvalidPlayer)
	})

	t.Run("colors are locked once started", func(t *testing.T) {
		g := startedGame(t)

		assert.ErrorIs(t, g.SelectColor(Player1, 3), ErrAlreadyStarted)
		assert.ErrorIs(t, g.Start(), ErrAlreadyStarted)
		assert.Equal(t, PhaseInProgress, g.Phase)
		assert.Equal(t, Player1, g.CurrentPlayer)
	})
}

func TestGame_Drop(t *testing.T) {
	t.Run("refused before start", func(t *testing.T) {
		g := NewGame()

		_, err := g.Drop(0)

		assert.ErrorIs(t, err, ErrNotStarted)
		assert.Equal(t, 0, g.MoveCount)
	})

	t.Run("turn alternates after each accepted move", func(t *testing.T) {
		g := startedGame(t)

		res, err := g.Drop(4)
		require.NoError(t, err)
		assert.Equal(t, Rows-1, res.Row)
		assert.Equal(t, Player1, res.Player)
		assert.Equal(t, Player2, g.CurrentPlayer)
		assert.Equal(t, fmt.Sprintf(StatusTurnFmt, "Jogador 2"), g.Status)

		res, err = g.Drop(4)
		require.NoError(t, err)
		assert.Equal(t, Rows-2, res.Row)
		assert.Equal(t, Player2, res.Player)
		assert.Equal(t, Player1, g.CurrentPlayer)
	})

	t.Run("full column keeps grid and turn", func(t *testing.T) {
		g := startedGame(t)
		for i := 0; i < Rows; i++ {
			_, err := g.Drop(0)
			require.NoError(t, err)
		}
		before := g.Board.Copy()
		turn := g.CurrentPlayer

		_, err := g.Drop(0)

		assert.ErrorIs(t, err, ErrColumnFull)
		assert.Equal(t, before, g.Board)
		assert.Equal(t, turn, g.CurrentPlayer)
		assert.Equal(t, Rows, g.MoveCount)
		assert.Equal(t, StatusColumnFull, g.Status)
	})

	t.Run("out of range column", func(t *testing.T) {
		g := startedGame(t)

		_, err := g.Drop(Columns)

		assert.ErrorIs(t, err, ErrColumnOutOfRange)
	})

	t.Run("vertical four in column 3 wins on the fourth drop", func(t *testing.T) {
		// Given: player 1 stacks column 3 while player 2 plays column 0
		g := startedGame(t)
		for i := 0; i < 3; i++ {
			res, err := g.Drop(3)
			require.NoError(t, err)
			assert.False(t, res.Terminal.Won)
			_, err = g.Drop(0)
			require.NoError(t, err)
		}

		// When: player 1 drops the fourth disk
		res, err := g.Drop(3)

		// Then: the move is a win with the column cells
		require.NoError(t, err)
		assert.True(t, res.Terminal.Won)
		assert.False(t, res.Terminal.Drawn)
		assert.Equal(t, Player1, res.Terminal.Winner)
		assert.Equal(t, []Cell{{2, 3}, {3, 3}, {4, 3}, {5, 3}}, res.Terminal.WinningCells)
		assert.Equal(t, PhaseWon, g.Phase)
		assert.Equal(t, Player1, g.CurrentPlayer, "turn does not toggle after a win")
		assert.Equal(t, fmt.Sprintf(StatusVictoryFmt, "Jogador 1"), g.Status)

		// And: further drops are refused
		before := g.Board.Copy()
		_, err = g.Drop(5)
		assert.ErrorIs(t, err, ErrGameOver)
		assert.Equal(t, before, g.Board)
	})

	t.Run("draw is reported once on the last cell", func(t *testing.T) {
		// Given: a board filled without any run, except two top cells
		g := startedGame(t)
		for r := 0; r < Rows; r++ {
			for c := 0; c < Columns; c++ {
				g.Board[r][c] = drawOwner(r, c)
			}
		}
		g.Board[0][5] = Empty
		g.Board[0][6] = Empty
		g.MoveCount = Rows*Columns - 2
		g.CurrentPlayer = Player1

		// When: player 1 fills column 6
		res, err := g.Drop(6)

		// Then: not yet a draw
		require.NoError(t, err)
		assert.False(t, res.Terminal.Won)
		assert.False(t, res.Terminal.Drawn)
		assert.Equal(t, PhaseInProgress, g.Phase)

		// When: player 2 fills the last cell
		res, err = g.Drop(5)

		// Then: drawn
		require.NoError(t, err)
		assert.False(t, res.Terminal.Won)
		assert.True(t, res.Terminal.Drawn)
		assert.Equal(t, PhaseDrawn, g.Phase)
		assert.Equal(t, StatusDraw, g.Status)

		_, err = g.Drop(5)
		assert.ErrorIs(t, err, ErrGameOver)
	})

	t.Run("win beats draw on the last cell", func(t *testing.T) {
		// Given: a nearly full board where the last cell completes a row
		g := startedGame(t)
		for r := 0; r < Rows; r++ {
			for c := 0; c < Columns; c++ {
				g.Board[r][c] = drawOwner(r, c)
			}
		}
		g.Board[0][3] = Player1
		g.Board[0][5] = Player1
		g.Board[0][6] = Empty
		g.CurrentPlayer = Player1

		// When
		res, err := g.Drop(6)

		// Then
		require.NoError(t, err)
		assert.True(t, g.Board.IsFull())
		assert.True(t, res.Terminal.Won)
		assert.False(t, res.Terminal.Drawn)
		assert.Equal(t, []Cell{{0, 2}, {0, 3}, {0, 4}, {0, 5}}, res.Terminal.WinningCells)
		assert.Equal(t, PhaseWon, g.Phase)
	})
}

func TestDrawPatternHasNoRun(t *testing.T) {
	b := NewDefaultBoard()
	ones := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			b[r][c] = drawOwner(r, c)
			if b[r][c] == Player1 {
				ones++
			}
		}
	}

	assert.Equal(t, Rows*Columns/2, ones)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			assert.False(t, CheckWin(b, r, c).Won, "cell (%d,%d)", r, c)
		}
	}
}

func TestGame_ResetAndChangeColors(t *testing.T) {
	t.Run("reset after a win", func(t *testing.T) {
		// Given: a won game
		g := startedGame(t)
		for i := 0; i < 3; i++ {
			_, _ = g.Drop(3)
			_, _ = g.Drop(0)
		}
		_, err := g.Drop(3)
		require.NoError(t, err)
		require.Equal(t, PhaseWon, g.Phase)

		// When
		g.Reset()

		// Then: grid empty, phase not started, colors kept
		for r := range g.Board {
			for c := range g.Board[r] {
				assert.Equal(t, Empty, g.Board[r][c])
			}
		}
		assert.Equal(t, PhaseNotStarted, g.Phase)
		assert.Equal(t, Player1, g.CurrentPlayer)
		assert.Equal(t, Empty, g.Winner)
		assert.Nil(t, g.WinningCells)
		assert.Nil(t, g.LastMove)
		assert.Zero(t, g.MoveCount)
		assert.Equal(t, TerminalState{}, g.CheckTerminal())
		assert.Equal(t, 0, g.Player1Color)
		assert.Equal(t, 1, g.Player2Color)

		// And: a new game can start right away
		require.NoError(t, g.Start())
	})

	t.Run("change colors clears selections and grid", func(t *testing.T) {
		g := startedGame(t)
		_, err := g.Drop(1)
		require.NoError(t, err)

		g.ChangeColors()

		assert.Equal(t, NoColor, g.Player1Color)
		assert.Equal(t, NoColor, g.Player2Color)
		assert.Equal(t, PhaseNotStarted, g.Phase)
		assert.Equal(t, Empty, g.Board[Rows-1][1])
		assert.ErrorIs(t, g.Start(), ErrColorsNotSelected)
	})
}

func TestNewGameWithSize(t *testing.T) {
	g, err := NewGameWithSize(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Board.Rows())

	_, err = NewGameWithSize(0, 4)
	assert.ErrorIs(t, err, ErrInvalidBoardSize)
}
