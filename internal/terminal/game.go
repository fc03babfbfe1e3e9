package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

const helpText = "Enter a cell number (1-9), r to restart or q to quit."

// Game runs a hot-seat match on a terminal: both players type into the same input.
type Game struct {
	logger     *slog.Logger
	controller *tictactoe.GameController
	renderer   *Renderer
}

func NewGame(logger *slog.Logger, controller *tictactoe.GameController) *Game {
	return &Game{
		logger:     logger.With("component", "terminal"),
		controller: controller,
		renderer:   NewRenderer(),
	}
}

// Run reads commands from in until q or end of input.
func (that *Game) Run(in io.Reader, out io.Writer) error {
	if err := that.show(out, helpText); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		notice, quit := that.handle(strings.TrimSpace(scanner.Text()))
		if quit {
			return nil
		}

		if err := that.show(out, notice); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

// handle applies one command and returns the notice to print under the board.
func (that *Game) handle(command string) (string, bool) {
	switch strings.ToLower(command) {
	case "q", "quit":
		return "", true
	case "r", "restart":
		that.controller.Restart()
		that.logger.Debug("game restarted", "turn", that.controller.Turn())
		return "", false
	case "":
		return helpText, false
	}

	number, err := strconv.Atoi(command)
	if err != nil {
		return helpText, false
	}

	if err = that.controller.ApplyMove(number - 1); err != nil {
		that.logger.Debug("move rejected", "cell", number, "reason", err)
		return rejectionNotice(number, err), false
	}

	return "", false
}

func rejectionNotice(number int, err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return "The game is over, press r to play again."
	case errors.Is(err, apperror.ErrCellOccupied):
		return fmt.Sprintf("Cell %d is already taken.", number)
	default:
		return fmt.Sprintf("There is no cell %d. %s", number, helpText)
	}
}

func (that *Game) show(out io.Writer, notice string) error {
	if err := that.renderer.Render(out, that.controller.Game()); err != nil {
		return err
	}

	if notice == "" {
		return nil
	}

	if _, err := fmt.Fprintln(out, notice); err != nil {
		return fmt.Errorf("failed to write notice: %w", err)
	}

	return nil
}
