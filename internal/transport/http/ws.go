package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/vecinoapp/favores-service/pkg/logger/sl"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamMessages pushes the thread's complete message list over a websocket:
// once on connect and again after every insert.
func (s *Server) streamMessages(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.streamMessages"

	threadID := chi.URLParam(r, "threadID")
	userID := userIDFromContext(r.Context())

	// Authorization runs before the upgrade so a rejected subscriber gets a
	// plain HTTP status instead of a dropped socket.
	out, cancel, err := s.chatService.Subscribe(r.Context(), threadID, userID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", sl.Err(err))
		return
	}
	defer conn.Close()

	go readUntilClosed(conn, cancel)

	for msgs := range out {
		if err := conn.WriteJSON(map[string][]messageResponse{"messages": toMessageResponses(msgs)}); err != nil {
			return
		}
	}
}

// streamConversations pushes the caller's conversation list over a
// websocket: once on connect and again whenever any of their threads change.
func (s *Server) streamConversations(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.streamConversations"

	userID := userIDFromContext(r.Context())

	out, cancel, err := s.chatService.SubscribeConversations(r.Context(), userID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", sl.Err(err))
		return
	}
	defer conn.Close()

	go readUntilClosed(conn, cancel)

	for summaries := range out {
		if err := conn.WriteJSON(map[string][]conversationResponse{"conversations": toConversationResponses(summaries)}); err != nil {
			return
		}
	}
}

// readUntilClosed drains client frames so close messages are processed and
// tears the subscription down when the peer goes away.
func readUntilClosed(conn *websocket.Conn, cancel func()) {
	defer cancel()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
