package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// idleWait bounds how long a quiz socket may sit without a message;
	// long enough to read and answer a full quiz.
	idleWait = 30 * time.Minute
	// maxMessageSize fits a submit carrying fifty long answers.
	maxMessageSize = 64 << 10
)

// Prepare applies read limits to a freshly upgraded connection.
func Prepare(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(idleWait))
	})
}

// WriteTyped sends one event payload.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends an error event with an API error code.
func WriteError(conn *websocket.Conn, code, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Code:  code,
		Error: errMsg,
	})
}

// ReadJSON waits for the next client action.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetReadDeadline(time.Now().Add(idleWait))
	return conn.ReadJSON(v)
}
