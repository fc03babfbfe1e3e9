package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

func (that *Server) handleConnect(ctx context.Context, client *conn, msg *Message) error {
	log := that.logger.With("method", "handleConnect", "sessionID", client.sessionID)

	session, err := that.sessionService.GetOrCreateSession(ctx, client.sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return that.sendErrorResponse(client, msg.Action, "failed to get session")
	}

	// the session may have expired while the socket was open
	client.sessionID = session.ID

	return that.sendMessage(client, msg.Action, newResponsePayload(session, true))
}

func (that *Server) handleGameTurn(ctx context.Context, client *conn, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "sessionID", client.sessionID)

	var payloadReq RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			log.Warn("failed to unmarshal payload", "error", err)
			return that.sendErrorResponse(client, msg.Action, "malformed payload")
		}
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(client, msg.Action, "cell is required")
	}

	session, err := that.sessionService.MakeTurn(ctx, client.sessionID, *payloadReq.Cell)
	if errors.Is(err, apperror.ErrMoveRejected) {
		payload := newResponsePayload(session, false)
		payload.Error = err.Error()

		return that.sendMessage(client, msg.Action, payload)
	}

	if err != nil {
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(client, msg.Action, "failed to make turn")
	}

	return that.sendMessage(client, msg.Action, newResponsePayload(session, true))
}

func (that *Server) handleRestart(ctx context.Context, client *conn, msg *Message) error {
	log := that.logger.With("method", "handleRestart", "sessionID", client.sessionID)

	session, err := that.sessionService.Restart(ctx, client.sessionID)
	if err != nil {
		log.Error("failed to restart game", "error", err)
		return that.sendErrorResponse(client, msg.Action, "failed to restart game")
	}

	return that.sendMessage(client, msg.Action, newResponsePayload(session, true))
}

func (that *Server) handleLeave(ctx context.Context, client *conn, msg *Message) error {
	log := that.logger.With("method", "handleLeave", "sessionID", client.sessionID)

	err := that.sessionService.EndSession(ctx, client.sessionID)
	if err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		log.Error("failed to end session", "error", err)
		return that.sendErrorResponse(client, msg.Action, "failed to end session")
	}

	return that.sendMessage(client, msg.Action, ResponsePayload{SessionID: client.sessionID, Accepted: true})
}
