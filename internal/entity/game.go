package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	BoardSize = 9
)

// Mark is the symbol a player places. EmptyCell marks a free cell.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Outcome is the resolution of a game: no result yet, a win for one of the marks, or a tie.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWinX Outcome = "X"
	OutcomeWinO Outcome = "O"
	OutcomeTie  Outcome = "-"
)

// WinFor returns the winning outcome for mark.
func WinFor(mark Mark) Outcome {
	switch mark {
	case PlayerX:
		return OutcomeWinX
	case PlayerO:
		return OutcomeWinO
	default:
		return OutcomeNone
	}
}

// Winner returns the mark that won, or EmptyCell when nobody did.
func (that Outcome) Winner() Mark {
	switch that {
	case OutcomeWinX:
		return PlayerX
	case OutcomeWinO:
		return PlayerO
	default:
		return EmptyCell
	}
}

func (that Outcome) IsWin() bool {
	return that == OutcomeWinX || that == OutcomeWinO
}

func (that Outcome) IsTie() bool {
	return that == OutcomeTie
}

// Board is laid out row by row, cell 0 is the top left corner.
type Board [BoardSize]Mark

// IsFull reports whether no empty cell is left.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// Line is an ordered triple of board indexes.
type Line [3]int

// Contains reports whether cell is part of the line.
func (that Line) Contains(cell int) bool {
	for _, idx := range that {
		if idx == cell {
			return true
		}
	}
	return false
}

// Score counts games won per mark within a session.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

func (that Score) Of(mark Mark) int {
	switch mark {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return 0
	}
}

func (that *Score) increment(mark Mark) {
	switch mark {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

// Game is the state of one hot-seat table: the current board plus the score carried across restarts.
type Game struct {
	Board       Board   `json:"board"`
	Turn        Mark    `json:"player_turn"`
	Starter     Mark    `json:"starter"`
	Outcome     Outcome `json:"outcome"`
	WinningLine *Line   `json:"winning_line,omitempty"`
	Score       Score   `json:"score"`
}

func NewGame() *Game {
	return &Game{
		Turn:    PlayerX,
		Starter: PlayerX,
		Outcome: OutcomeNone,
	}
}

func (that *Game) Status() string {
	if that.IsFinished() {
		return StatusFinished
	}
	return StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Outcome != OutcomeNone
}

func (that *Game) IsOngoing() bool {
	return that.Outcome == OutcomeNone
}

// RecordWin increments the score of the winning mark. It is a no-op for any other outcome.
func (that *Game) RecordWin(outcome Outcome) {
	if outcome.IsWin() {
		that.Score.increment(outcome.Winner())
	}
}
