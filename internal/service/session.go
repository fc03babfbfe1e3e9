package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type SessionService interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type sessionService struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	newID       func() string
}

func NewSessionService(logger *slog.Logger, sessionRepo sessionRepo) SessionService {
	return &sessionService{
		logger:      logger.With("component", "sessionService"),
		sessionRepo: sessionRepo,
		newID:       uuid.NewString,
	}
}

// GetOrCreateSession returns the stored session. Unknown and expired ids get a fresh session.
func (that *sessionService) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id != "" {
		session, err := that.sessionRepo.GetByID(ctx, id)
		if err == nil {
			return session, nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
	}

	session := entity.NewSession(that.newID())
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, nil
}

// MakeTurn applies a move. A rejected move returns the untouched session together with
// an error wrapping apperror.ErrMoveRejected, and nothing is written.
func (that *sessionService) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", id, "cell", cell)

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	controller := tictactoe.NewGameController(session.Game)
	mark := controller.Turn()

	if err = controller.ApplyMove(cell); err != nil {
		log.Debug("move rejected", "reason", err)
		return session, err
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log.Info("move applied", "mark", mark, "status", session.Game.Status(), "outcome", session.Game.Outcome)

	return session, nil
}

func (that *sessionService) Restart(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "Restart", "sessionID", id)

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	tictactoe.NewGameController(session.Game).Restart()

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log.Info("game restarted", "turn", session.Game.Turn, "score", session.Game.Score)

	return session, nil
}

func (that *sessionService) EndSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "sessionID", id)

	return nil
}
