package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// GameController applies moves and restarts to a game. It is not safe for concurrent use.
type GameController struct {
	game *entity.Game
}

// NewGameController wraps game. A nil game starts a fresh one.
func NewGameController(game *entity.Game) *GameController {
	if game == nil {
		game = entity.NewGame()
	}

	return &GameController{game: game}
}

func (that *GameController) Game() *entity.Game {
	return that.game
}

func (that *GameController) Board() entity.Board {
	return that.game.Board
}

func (that *GameController) Turn() entity.Mark {
	return that.game.Turn
}

func (that *GameController) Starter() entity.Mark {
	return that.game.Starter
}

func (that *GameController) Outcome() entity.Outcome {
	return that.game.Outcome
}

// Status - returns entity.StatusFinished or entity.StatusOngoing.
func (that *GameController) Status() string {
	return that.game.Status()
}

// WinningLine returns the completed line and true when the game was won.
func (that *GameController) WinningLine() (entity.Line, bool) {
	if that.game.WinningLine == nil {
		return entity.Line{}, false
	}
	return *that.game.WinningLine, true
}

func (that *GameController) Score() entity.Score {
	return that.game.Score
}

// IsCellPlayable reports whether a move on cell would be accepted.
func (that *GameController) IsCellPlayable(cell int) bool {
	return that.validateMove(cell) == nil
}

// ApplyMove places the current player's mark on cell. A refused move returns an error
// wrapping apperror.ErrMoveRejected and leaves the game untouched.
func (that *GameController) ApplyMove(cell int) error {
	if err := that.validateMove(cell); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMoveRejected, err)
	}

	that.game.Board[cell] = that.game.Turn
	that.game.Turn = that.game.Turn.Opponent()

	that.updateGameState()

	return nil
}

// Restart clears the board and keeps the score. After a win the losing mark starts,
// otherwise the starter of the previous game starts again.
func (that *GameController) Restart() {
	next := that.game.Starter
	if next == entity.EmptyCell {
		next = entity.PlayerX
	}

	if that.game.Outcome.IsWin() {
		next = that.game.Outcome.Winner().Opponent()
	}

	that.game.Board = entity.Board{}
	that.game.Outcome = entity.OutcomeNone
	that.game.WinningLine = nil
	that.game.Turn = next
	that.game.Starter = next
}

// validateMove - checks if the move is valid.
func (that *GameController) validateMove(cell int) error {
	if that.game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameState - evaluates the board after a move.
func (that *GameController) updateGameState() {
	result := Evaluate(that.game.Board)

	that.game.Outcome = result.Outcome
	that.game.WinningLine = result.Line
	that.game.RecordWin(result.Outcome)
}
