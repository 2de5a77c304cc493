package domain

// client actions
const (
	ActionInit         = "init"
	ActionSelectColor  = "select_color"
	ActionStart        = "start"
	ActionDrop         = "drop"
	ActionReset        = "reset"
	ActionChangeColors = "change_colors"
	ActionState        = "state"
)

// server message types
const (
	MessageTableJoined = "table_joined"
	MessageState       = "state"
	MessageError       = "error"
)

type ClientMessage struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	Player int    `json:"player,omitempty"`
	// pointers because 0 is a valid color index and a valid column
	Color  *int `json:"color,omitempty"`
	Column *int `json:"column,omitempty"`
}

type ColorSelection struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

type ServerMessage struct {
	Type         string          `json:"type"`
	TableID      string          `json:"tableId,omitempty"`
	Token        string          `json:"token,omitempty"`
	Message      string          `json:"message,omitempty"`
	Status       string          `json:"status,omitempty"`
	Phase        Phase           `json:"phase,omitempty"`
	CurrentTurn  int             `json:"currentTurn,omitempty"`
	Board        [][]int         `json:"board,omitempty"`
	Colors       *ColorSelection `json:"colors,omitempty"`
	LastMove     *Cell           `json:"lastMove,omitempty"`
	Winner       int             `json:"winner,omitempty"`
	WinningCells []Cell          `json:"winningCells,omitempty"`
	Drawn        bool            `json:"drawn,omitempty"`
	MoveCount    int             `json:"moveCount"`
}

// StateMessage snapshots g so it can be sent without holding the game lock.
func StateMessage(tableID string, g *Game) ServerMessage {
	msg := ServerMessage{
		Type:        MessageState,
		TableID:     tableID,
		Status:      g.Status,
		Phase:       g.Phase,
		CurrentTurn: int(g.CurrentPlayer),
		Board:       g.Board.Ints(),
		Colors: &ColorSelection{
			Player1: g.Player1Color,
			Player2: g.Player2Color,
		},
		MoveCount: g.MoveCount,
	}
	if g.LastMove != nil {
		last := *g.LastMove
		msg.LastMove = &last
	}

	terminal := g.CheckTerminal()
	if terminal.Won {
		msg.Winner = int(terminal.Winner)
		msg.WinningCells = terminal.WinningCells
	}
	msg.Drawn = terminal.Drawn
	return msg
}
