package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	rowSeparator = "───┼───┼───"
	colSeparator = "│"
)

// Renderer draws a game as text. Colors are dropped when color.NoColor is set.
type Renderer struct {
	markX     *color.Color
	markO     *color.Color
	free      *color.Color
	highlight *color.Color
	status    *color.Color
}

func NewRenderer() *Renderer {
	return &Renderer{
		markX:     color.New(color.FgBlue, color.Bold),
		markO:     color.New(color.FgGreen, color.Bold),
		free:      color.New(color.Faint),
		highlight: color.New(color.BgGreen, color.FgBlack, color.Bold),
		status:    color.New(color.Bold),
	}
}

// Render writes the score, the status line and the board.
func (that *Renderer) Render(w io.Writer, game *entity.Game) error {
	var sb strings.Builder

	sb.WriteString(that.score(game.Score))
	sb.WriteString("\n")
	sb.WriteString(that.status.Sprint(StatusText(game)))
	sb.WriteString("\n\n")
	sb.WriteString(that.board(game))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to render game: %w", err)
	}

	return nil
}

// StatusText is the one line summary shown above the board.
func StatusText(game *entity.Game) string {
	switch {
	case game.Outcome.IsTie():
		return "It's a tie!"
	case game.Outcome.IsWin():
		return fmt.Sprintf("Player %s wins!", game.Outcome.Winner())
	default:
		return fmt.Sprintf("Turn: %s", game.Turn)
	}
}

func (that *Renderer) score(score entity.Score) string {
	return fmt.Sprintf("%s: %d  %s: %d",
		that.markX.Sprint(entity.PlayerX), score.X,
		that.markO.Sprint(entity.PlayerO), score.O,
	)
}

func (that *Renderer) board(game *entity.Game) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator)
			sb.WriteString("\n")
		}

		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = that.cell(game, row*3+col)
		}

		sb.WriteString(strings.Join(cells, colSeparator))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (that *Renderer) cell(game *entity.Game, idx int) string {
	mark := game.Board[idx]

	if mark == entity.EmptyCell {
		return that.free.Sprint(" " + strconv.Itoa(idx+1) + " ")
	}

	text := " " + string(mark) + " "
	if game.WinningLine != nil && game.WinningLine.Contains(idx) {
		return that.highlight.Sprint(text)
	}

	if mark == entity.PlayerX {
		return that.markX.Sprint(text)
	}

	return that.markO.Sprint(text)
}
