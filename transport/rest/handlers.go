package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	GetGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	EndSession(w http.ResponseWriter, r *http.Request)
}

type sessionService interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type gameResponse struct {
	SessionID string       `json:"session_id,omitempty"`
	Accepted  bool         `json:"accepted"`
	Status    string       `json:"status,omitempty"`
	Game      *entity.Game `json:"game,omitempty"`
	Error     string       `json:"error,omitempty"`
}

type handlers struct {
	logger         *slog.Logger
	sessionService sessionService
	cookieName     string
	sessionTTL     time.Duration
}

func NewHandlers(logger *slog.Logger, sessionService sessionService, cookieName string, sessionTTL time.Duration) Handlers {
	return &handlers{
		logger:         logger.With("component", "rest"),
		sessionService: sessionService,
		cookieName:     cookieName,
		sessionTTL:     sessionTTL,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := that.resolveSession(w, r)
	if !ok {
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(session, true, nil))
}

func (that *handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MakeTurn")

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "cell is required"})
		return
	}

	session, ok := that.resolveSession(w, r)
	if !ok {
		return
	}

	updated, err := that.sessionService.MakeTurn(r.Context(), session.ID, *req.Cell)
	if errors.Is(err, apperror.ErrMoveRejected) {
		that.writeJSON(w, http.StatusOK, newGameResponse(updated, false, err))
		return
	}

	if err != nil {
		log.Error("failed to make turn", "sessionID", session.ID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to make turn"})
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(updated, true, nil))
}

func (that *handlers) Restart(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Restart")

	session, ok := that.resolveSession(w, r)
	if !ok {
		return
	}

	updated, err := that.sessionService.Restart(r.Context(), session.ID)
	if err != nil {
		log.Error("failed to restart game", "sessionID", session.ID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to restart game"})
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(updated, true, nil))
}

func (that *handlers) EndSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "EndSession")

	cookie, err := r.Cookie(that.cookieName)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err = that.sessionService.EndSession(r.Context(), cookie.Value); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		log.Error("failed to end session", "sessionID", cookie.Value, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to end session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     that.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// resolveSession loads the session named by the cookie, starting a new one when it is missing or expired.
func (that *handlers) resolveSession(w http.ResponseWriter, r *http.Request) (*entity.Session, bool) {
	var id string
	if cookie, err := r.Cookie(that.cookieName); err == nil {
		id = cookie.Value
	}

	session, err := that.sessionService.GetOrCreateSession(r.Context(), id)
	if err != nil {
		that.logger.Error("failed to get session", "sessionID", id, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to get session"})
		return nil, false
	}

	if session.ID != id {
		cookie := &http.Cookie{
			Name:     that.cookieName,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}

		// without a ttl the cookie lives as long as the browser session
		if that.sessionTTL > 0 {
			cookie.Expires = time.Now().Add(that.sessionTTL)
		}

		http.SetCookie(w, cookie)
	}

	return session, true
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body gameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func newGameResponse(session *entity.Session, accepted bool, err error) gameResponse {
	resp := gameResponse{
		Accepted: accepted,
	}

	if session != nil {
		resp.SessionID = session.ID
		resp.Game = session.Game
		resp.Status = session.Game.Status()
	}

	if err != nil {
		resp.Error = err.Error()
	}

	return resp
}
