package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	actionConnect = "connect"
	actionTurn    = "game:turn"
	actionRestart = "game:restart"
	actionLeave   = "game:leave"
	actionError   = "error"

	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
)

type sessionService interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

// conn is one client. Messages of a connection are handled one at a time.
type conn struct {
	ws        *websocket.Conn
	sessionID string
}

type handlerFunc func(ctx context.Context, client *conn, message *Message) error

type Server struct {
	logger         *slog.Logger
	sessionService sessionService
	cookieName     string
	upgrader       websocket.Upgrader

	handlers map[string]handlerFunc
}

// New creates the server. Without allowedOrigins only same-origin upgrades are accepted.
func New(logger *slog.Logger, sessionService sessionService, cookieName string, allowedOrigins []string) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		sessionService: sessionService,
		cookieName:     cookieName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionLeave] = server.handleLeave

	return server
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		// gorilla falls back to its same-origin check
		return nil
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, origin)
	}
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	var sessionID string
	if cookie, err := req.Cookie(that.cookieName); err == nil {
		sessionID = cookie.Value
	}

	session, err := that.sessionService.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		http.Error(writer, "failed to get session", http.StatusInternalServerError)
		return
	}

	header := http.Header{}
	if session.ID != sessionID {
		header.Add("Set-Cookie", (&http.Cookie{
			Name:     that.cookieName,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
		}).String())
		log.Info("session cookie not found, new one created", "sessionID", session.ID)
	}

	ws, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		// the upgrader already answered the client
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer ws.Close()

	log.Info("WebSocket connection established", "sessionID", session.ID)

	client := &conn{ws: ws, sessionID: session.ID}
	if err = that.handleMessages(ctx, client); err != nil {
		log.Info("connection closed", "sessionID", client.sessionID, "reason", err)
	}
}

// handleMessages - processes messages from the client until the connection is closed.
func (that *Server) handleMessages(ctx context.Context, client *conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		message, err := readMessage(client.ws)
		if err != nil {
			var syntaxErr *malformedMessageError
			if errors.As(err, &syntaxErr) {
				log.Warn("malformed message", "error", err)
				if err = that.sendErrorResponse(client, actionError, "malformed message"); err != nil {
					return err
				}
				continue
			}

			return err
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err = that.sendErrorResponse(client, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, client, message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return err
		}
	}
}
