package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/testing/suite"
)

var errRedisDown = errors.New("redis down")

type mockSessionRepo struct {
	mock.Mock
}

func newMockSessionRepo(t *testing.T) *mockSessionRepo {
	t.Helper()

	repo := &mockSessionRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	return repo
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)

	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo sessionRepo) *sessionService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, _ := NewSessionService(logger, repo).(*sessionService)
	svc.newID = func() string { return "generated" }

	return svc
}

func TestSessionService_GetOrCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new session when id is empty", func(t *testing.T) {
		// Given: a repository accepting writes
		repo := newMockSessionRepo(t)
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil).Once()

		svc := newTestService(repo)

		// When: asking for a session without id
		session, err := svc.GetOrCreateSession(ctx, "")

		// Then: a fresh session with a generated id is returned
		require.NoError(t, err)
		assert.Equal(t, entity.NewSession("generated"), session)
	})

	t.Run("Returns the existing session", func(t *testing.T) {
		// Given: a stored session
		existing := &entity.Session{ID: "s1", Game: &entity.Game{Turn: entity.PlayerO, Score: entity.Score{X: 4}}}

		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(existing, nil).Once()

		svc := newTestService(repo)

		// When: asking for it
		session, err := svc.GetOrCreateSession(ctx, "s1")

		// Then: the stored session is returned untouched
		require.NoError(t, err)
		assert.Same(t, existing, session)
	})

	t.Run("Expired session is replaced", func(t *testing.T) {
		// Given: the session id is unknown
		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "gone").Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil).Once()

		svc := newTestService(repo)

		// When: asking for it
		session, err := svc.GetOrCreateSession(ctx, "gone")

		// Then: a new session is created
		require.NoError(t, err)
		assert.Equal(t, "generated", session.ID)
	})

	t.Run("Storage failure is returned", func(t *testing.T) {
		// Given: redis is down
		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(nil, errRedisDown).Once()

		svc := newTestService(repo)

		// When: asking for a session
		session, err := svc.GetOrCreateSession(ctx, "s1")

		// Then: the error is propagated and no session is created
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, session)
	})
}

func TestSessionService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted move is saved", func(t *testing.T) {
		// Given: a fresh session
		session := entity.NewSession("s1")

		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(session, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, session).Return(nil).Once()

		svc := newTestService(repo)

		// When: X plays the center
		updated, err := svc.MakeTurn(ctx, "s1", 4)

		// Then: the mark is placed and O is next
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, updated.Game.Board[4])
		assert.Equal(t, entity.PlayerO, updated.Game.Turn)
	})

	t.Run("Rejected move is not saved", func(t *testing.T) {
		// Given: the center is taken
		session := entity.NewSession("s1")
		session.Game.Board[4] = entity.PlayerX
		session.Game.Turn = entity.PlayerO
		before := *session.Game

		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(session, nil).Once()

		svc := newTestService(repo)

		// When: O clicks the center
		updated, err := svc.MakeTurn(ctx, "s1", 4)

		// Then: the move is rejected, nothing is written and the session is returned as is
		require.ErrorIs(t, err, apperror.ErrMoveRejected)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, *updated.Game)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Winning move scores", func(t *testing.T) {
		// Given: X is one move away from the top row
		session := entity.NewSession("s1")
		session.Game.Board = entity.Board{
			entity.PlayerX, entity.PlayerX, entity.EmptyCell,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}

		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(session, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, session).Return(nil).Once()

		svc := newTestService(repo)

		// When: X completes the row
		updated, err := svc.MakeTurn(ctx, "s1", 2)

		// Then: X wins and scores
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeWinX, updated.Game.Outcome)
		assert.Equal(t, entity.Score{X: 1}, updated.Game.Score)
	})

	t.Run("Unknown session", func(t *testing.T) {
		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "nope").Return(nil, apperror.ErrSessionNotFound).Once()

		svc := newTestService(repo)

		updated, err := svc.MakeTurn(ctx, "nope", 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, updated)
	})

	t.Run("Save failure", func(t *testing.T) {
		session := entity.NewSession("s1")

		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(session, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, session).Return(errRedisDown).Once()

		svc := newTestService(repo)

		updated, err := svc.MakeTurn(ctx, "s1", 0)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, updated)
	})
}

func TestSessionService_Restart(t *testing.T) {
	ctx := context.Background()

	t.Run("Restart after a win keeps the score and lets the loser start", func(t *testing.T) {
		// Given: X won the previous game
		line := entity.Line{0, 1, 2}
		session := &entity.Session{
			ID: "s1",
			Game: &entity.Game{
				Board: entity.Board{
					entity.PlayerX, entity.PlayerX, entity.PlayerX,
					entity.PlayerO, entity.PlayerO, entity.EmptyCell,
					entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
				},
				Turn:        entity.PlayerO,
				Starter:     entity.PlayerX,
				Outcome:     entity.OutcomeWinX,
				WinningLine: &line,
				Score:       entity.Score{X: 1},
			},
		}

		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "s1").Return(session, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, session).Return(nil).Once()

		svc := newTestService(repo)

		// When: restarting
		updated, err := svc.Restart(ctx, "s1")

		// Then: O starts a clean board
		require.NoError(t, err)
		assert.Equal(t, &entity.Game{
			Turn:    entity.PlayerO,
			Starter: entity.PlayerO,
			Score:   entity.Score{X: 1},
		}, updated.Game)
	})

	t.Run("Unknown session", func(t *testing.T) {
		repo := newMockSessionRepo(t)
		repo.On("GetByID", mock.Anything, "nope").Return(nil, apperror.ErrSessionNotFound).Once()

		svc := newTestService(repo)

		_, err := svc.Restart(ctx, "nope")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionService_EndSession(t *testing.T) {
	ctx := context.Background()

	repo := newMockSessionRepo(t)
	repo.On("DeleteByID", mock.Anything, "s1").Return(nil).Once()
	repo.On("DeleteByID", mock.Anything, "s2").Return(apperror.ErrSessionNotFound).Once()

	svc := newTestService(repo)

	require.NoError(t, svc.EndSession(ctx, "s1"))
	require.ErrorIs(t, svc.EndSession(ctx, "s2"), apperror.ErrSessionNotFound)
}

func TestSessionService_Redis(t *testing.T) {
	ctx, st := suite.New(t)

	svc := NewSessionService(st.Logger, repository.NewSessionRepository(st.Storage, 0))

	// Given: a new session
	session, err := svc.GetOrCreateSession(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	// When: X wins on the main diagonal
	for _, cell := range []int{0, 1, 4, 2, 8} {
		_, err = svc.MakeTurn(ctx, session.ID, cell)
		require.NoError(t, err)
	}

	// Then: a late click is rejected and the stored state is the finished game
	_, err = svc.MakeTurn(ctx, session.ID, 5)
	require.ErrorIs(t, err, apperror.ErrGameFinished)

	stored, err := svc.GetOrCreateSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeWinX, stored.Game.Outcome)
	assert.Equal(t, entity.Score{X: 1}, stored.Game.Score)

	// When: restarting
	restarted, err := svc.Restart(ctx, session.ID)
	require.NoError(t, err)

	// Then: O starts and the score survives
	assert.Equal(t, entity.PlayerO, restarted.Game.Turn)
	assert.Equal(t, entity.Score{X: 1}, restarted.Game.Score)

	// When: the session ends
	require.NoError(t, svc.EndSession(ctx, session.ID))

	// Then: the next lookup starts over
	fresh, err := svc.GetOrCreateSession(ctx, session.ID)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, fresh.ID)
}
