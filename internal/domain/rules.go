package domain

// scan order matters: the first axis holding a run is the one reported
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

type WinResult struct {
	Won   bool
	Cells []Cell
}

// CheckWin only looks at lines passing through the last placed disk at
// (row, column), never the whole board. On a win, Cells holds the first
// ToWin cells of the run, ordered from its negative-direction end.
func CheckWin(board Board, row, column int) WinResult {
	if !board.InBounds(row, column) {
		return WinResult{}
	}
	player := board[row][column]
	if player == Empty {
		return WinResult{}
	}

	for _, axis := range axes {
		dr, dc := axis[0], axis[1]

		forward := walk(board, row, column, dr, dc, player)
		backward := walk(board, row, column, -dr, -dc, player)
		if 1+len(forward)+len(backward) < ToWin {
			continue
		}

		run := make([]Cell, 0, 1+len(forward)+len(backward))
		for i := len(backward) - 1; i >= 0; i-- {
			run = append(run, backward[i])
		}
		run = append(run, Cell{Row: row, Column: column})
		run = append(run, forward...)

		return WinResult{Won: true, Cells: run[:ToWin]}
	}

	return WinResult{}
}

// walk collects contiguous cells owned by player, starting next to the
// origin and stepping by (dr, dc).
func walk(board Board, row, column, dr, dc int, player PlayerID) []Cell {
	var cells []Cell
	r, c := row+dr, column+dc
	for board.InBounds(r, c) && board[r][c] == player {
		cells = append(cells, Cell{Row: r, Column: c})
		r += dr
		c += dc
	}
	return cells
}
