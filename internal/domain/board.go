package domain

// Board is a grid of Rows x Columns cells where board[0] is the top row
// (0 -> top and Rows-1 -> bottom).
type Board [][]PlayerID

func NewBoard(rows, columns int) (Board, error) {
	if rows <= 0 || columns <= 0 {
		return nil, ErrInvalidBoardSize
	}

	board := make(Board, rows)
	for i := range board {
		board[i] = make([]PlayerID, columns)
	}
	return board, nil
}

// NewDefaultBoard returns the classic 6x7 grid.
func NewDefaultBoard() Board {
	board, _ := NewBoard(Rows, Columns)
	return board
}

func (b Board) Rows() int {
	return len(b)
}

func (b Board) Columns() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

func (b Board) InBounds(row, column int) bool {
	return row >= 0 && row < b.Rows() && column >= 0 && column < b.Columns()
}

func (b Board) IsColumnFull(column int) bool {
	return b[0][column] != Empty
}

// DropDisk shifts the disk from top to bottom till it reaches the end or
// another disk. A full column is left untouched.
func (b Board) DropDisk(column int, player PlayerID) (int, error) {
	if column < 0 || column >= b.Columns() {
		return -1, ErrColumnOutOfRange
	}

	for row := b.Rows() - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = player
			return row, nil
		}
	}

	return -1, ErrColumnFull
}

// IsFull reports whether every cell is occupied. Gravity keeps the top row
// last to fill, so only that row needs checking.
func (b Board) IsFull() bool {
	for c := 0; c < b.Columns(); c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

func (b Board) Clear() {
	for r := range b {
		for c := range b[r] {
			b[r][c] = Empty
		}
	}
}

// this creates a deep copy of the board
func (b Board) Copy() Board {
	newBoard := make(Board, len(b))
	for i := range b {
		newBoard[i] = make([]PlayerID, len(b[i]))
		copy(newBoard[i], b[i])
	}
	return newBoard
}

// Ints converts the board for JSON and database storage.
func (b Board) Ints() [][]int {
	out := make([][]int, len(b))
	for i := range b {
		out[i] = make([]int, len(b[i]))
		for j := range b[i] {
			out[i][j] = int(b[i][j])
		}
	}
	return out
}

func (b Board) ValidMoves() []int {
	moves := []int{}
	for col := 0; col < b.Columns(); col++ {
		if !b.IsColumnFull(col) {
			moves = append(moves, col)
		}
	}
	return moves
}
