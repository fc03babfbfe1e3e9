package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload is what clients send. Only game:turn carries a cell.
type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
}

type ResponsePayload struct {
	SessionID string       `json:"session_id,omitempty"`
	Accepted  bool         `json:"accepted"`
	Status    string       `json:"status,omitempty"`
	Game      *entity.Game `json:"game,omitempty"`
	Error     string       `json:"error,omitempty"`
}

type malformedMessageError struct {
	err error
}

func (that *malformedMessageError) Error() string {
	return fmt.Sprintf("malformed message: %v", that.err)
}

func (that *malformedMessageError) Unwrap() error {
	return that.err
}

func readMessage(ws *websocket.Conn) (*Message, error) {
	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	var message Message
	if err = json.Unmarshal(data, &message); err != nil {
		return nil, &malformedMessageError{err: err}
	}

	return &message, nil
}

func (that *Server) sendMessage(client *conn, action string, payload ResponsePayload) error {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = client.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = client.ws.WriteJSON(Message{Action: action, Payload: rawPayload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(client *conn, action, errMsg string) error {
	return that.sendMessage(client, action, ResponsePayload{
		SessionID: client.sessionID,
		Error:     errMsg,
	})
}

func newResponsePayload(session *entity.Session, accepted bool) ResponsePayload {
	return ResponsePayload{
		SessionID: session.ID,
		Accepted:  accepted,
		Status:    session.Game.Status(),
		Game:      session.Game,
	}
}
