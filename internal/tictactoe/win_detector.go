package tictactoe

import "github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"

// LineID names one of the eight winning lines. The order of the constants is the order lines are checked in.
type LineID int

const (
	LineTopRow LineID = iota
	LineMiddleRow
	LineBottomRow
	LineLeftColumn
	LineCenterColumn
	LineRightColumn
	LineMainDiagonal
	LineAntiDiagonal
)

type winLine struct {
	name  string
	cells entity.Line
}

var winLines = [...]winLine{
	LineTopRow:       {name: "top row", cells: entity.Line{0, 1, 2}},
	LineMiddleRow:    {name: "middle row", cells: entity.Line{3, 4, 5}},
	LineBottomRow:    {name: "bottom row", cells: entity.Line{6, 7, 8}},
	LineLeftColumn:   {name: "left column", cells: entity.Line{0, 3, 6}},
	LineCenterColumn: {name: "center column", cells: entity.Line{1, 4, 7}},
	LineRightColumn:  {name: "right column", cells: entity.Line{2, 5, 8}},
	LineMainDiagonal: {name: "main diagonal", cells: entity.Line{0, 4, 8}},
	LineAntiDiagonal: {name: "anti diagonal", cells: entity.Line{2, 4, 6}},
}

// Lines returns every winning line in check order.
func Lines() []LineID {
	ids := make([]LineID, len(winLines))
	for i := range winLines {
		ids[i] = LineID(i)
	}
	return ids
}

func (that LineID) Cells() entity.Line {
	return winLines[that].cells
}

func (that LineID) String() string {
	if that < 0 || int(that) >= len(winLines) {
		return "unknown line"
	}
	return winLines[that].name
}

// Result is what Evaluate found on a board. Line is set only for wins.
type Result struct {
	Outcome entity.Outcome
	Line    *entity.Line
}

// Evaluate inspects the board for a completed line or a tie.
// The first line in check order wins when several are complete.
func Evaluate(board entity.Board) Result {
	for _, line := range winLines {
		a, b, c := board[line.cells[0]], board[line.cells[1]], board[line.cells[2]]
		if a != entity.EmptyCell && a == b && b == c {
			cells := line.cells
			return Result{Outcome: entity.WinFor(a), Line: &cells}
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return Result{Outcome: entity.OutcomeNone}
	}

	return Result{Outcome: entity.OutcomeTie}
}
