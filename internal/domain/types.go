package domain

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Other returns the opponent of p. Empty has no opponent.
func (p PlayerID) Other() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

func (p PlayerID) Label() string {
	switch p {
	case Player1:
		return "Jogador 1"
	case Player2:
		return "Jogador 2"
	}
	return ""
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent where the game is in its lifecycle
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseWon        Phase = "won"
	PhaseDrawn      Phase = "drawn"
)

func (p Phase) IsTerminal() bool {
	return p == PhaseWon || p == PhaseDrawn
}

// Cell is a (row, column) coordinate on the grid. Row 0 is the top row.
type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrColumnOutOfRange  Error = "column out of range"
	ErrColumnFull        Error = "column full"
	ErrGameOver          Error = "game over"
	ErrNotStarted        Error = "game not started"
	ErrAlreadyStarted    Error = "game already started"
	ErrColorsNotSelected Error = "both players must select a color"
	ErrSameColors        Error = "players must select different colors"
	ErrInvalidColor      Error = "invalid color"
	ErrInvalidPlayer     Error = "invalid player"
	ErrInvalidBoardSize  Error = "invalid board size"

	ErrInvalidCEP      Error = "invalid cep"
	ErrNoValidCEP      Error = "no valid cep"
	ErrLookupFailed    Error = "lookup failed"
	ErrLookupTimeout   Error = "lookup timed out"
	ErrSaveFailed      Error = "save failed"
	ErrAddressNotFound Error = "address not found"

	ErrTableNotFound Error = "table not found"
	ErrUnknownAction Error = "unknown action"
)
