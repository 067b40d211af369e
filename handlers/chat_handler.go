package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"fitTrackAPI/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteWait = 10 * time.Second

	// Idle conversations are dropped after this without a frame from the peer.
	wsReadWait = 5 * time.Minute

	turnTimeout = 10 * time.Second
)

type ChatHandler struct {
	dialogService *services.DialogService
}

func NewChatHandler(dialogService *services.DialogService) *ChatHandler {
	return &ChatHandler{
		dialogService: dialogService,
	}
}

type chatMessage struct {
	ChatID   int64  `json:"chatId"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// PostMessage handles one conversation turn over plain HTTP: one inbound
// message in the body, one reply in the response.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()

	var msg chatMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg.ChatID == 0 {
		respondWithError(w, http.StatusBadRequest, "chatId is required")
		return
	}

	// A single request/response turn cannot deliver interim frames, so the
	// notice rides along on the final reply instead.
	var notice string
	reply := h.dialogService.HandleMessage(ctx, msg.ChatID, msg.Username, msg.Text, func(n string) {
		notice = n
	})
	reply.Notice = notice

	respondWithJSON(w, http.StatusOK, reply)
}

// Converse runs a conversation over a websocket: each inbound JSON message
// produces one reply frame. Transient notices are written as their own frames
// while the slow lookup is still running, ahead of the final text.
func (h *ChatHandler) Converse(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Could not upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	for {
		conn.SetReadDeadline(time.Now().Add(wsReadWait))

		var msg chatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Websocket read failed: %v", err)
			}
			return
		}
		if msg.ChatID == 0 {
			h.writeReply(conn, services.Reply{Text: "chatId is required"})
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
		reply := h.dialogService.HandleMessage(ctx, msg.ChatID, msg.Username, msg.Text, func(n string) {
			h.writeReply(conn, services.Reply{Text: n})
		})
		cancel()

		if err := h.writeReply(conn, reply); err != nil {
			return
		}
	}
}

func (h *ChatHandler) writeReply(conn *websocket.Conn, reply services.Reply) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(reply); err != nil {
		log.Printf("Websocket write failed: %v", err)
		return err
	}
	return nil
}
