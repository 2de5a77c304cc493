package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"github.com/iamasit07/cep-connect4/backend/internal/service/game"
	"github.com/iamasit07/cep-connect4/backend/pkg/auth"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Handler struct {
	ConnManager  *ConnectionManager
	TableManager *game.TableManager
	Tokens       *auth.TableTokens
	Upgrader     websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, tm *game.TableManager, tokens *auth.TableTokens, allowedOrigins []string) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &Handler{
		ConnManager:  cm,
		TableManager: tm,
		Tokens:       tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades the request and serves table commands
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn)
}

func (h *Handler) handleConnection(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	connID := h.ConnManager.AddConnection(conn)
	defer func() {
		log.Printf("[WS] Connection %d closed", connID)
		h.ConnManager.RemoveConnection(connID)
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ConnManager.Ping(connID); err != nil {
					return
				}
			}
		}
	}()

	// 1. Wait for init
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("[WS] Read error during init: %v", err)
		return
	}

	var hello domain.ClientMessage
	if err := json.Unmarshal(data, &hello); err != nil || hello.Type != domain.ActionInit {
		log.Printf("[WS] Connection %d did not start with init", connID)
		h.ConnManager.SendMessage(connID, errorMessage("", "expected init message"))
		return
	}

	tableID, err := h.joinTable(connID, hello.Token)
	if err != nil {
		log.Printf("[WS] Could not seat connection %d: %v", connID, err)
		h.ConnManager.SendMessage(connID, errorMessage("", "could not create table"))
		return
	}

	// 2. Main message loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Connection %d dropped unexpectedly: %v", connID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			h.ConnManager.SendMessage(connID, errorMessage(tableID, "invalid message format"))
			continue
		}

		if !h.processMessage(connID, tableID, msg) {
			return
		}
	}
}

// joinTable resumes the table named by token, or opens a new one when the
// token is missing, invalid or names a table that was already cleaned up.
func (h *Handler) joinTable(connID int64, token string) (string, error) {
	var table *game.Table

	if token != "" {
		tableID, err := h.Tokens.Parse(token)
		if err != nil {
			log.Printf("[WS] Rejected table token on connection %d: %v", connID, err)
		} else if existing, ok := h.TableManager.GetTable(tableID); ok {
			table = existing
		}
	}

	if table == nil {
		created, err := h.TableManager.CreateTable()
		if err != nil {
			return "", err
		}
		table = created
		token = ""
	}

	if token == "" {
		issued, err := h.Tokens.Issue(table.TableID)
		if err != nil {
			return "", err
		}
		token = issued
	}

	h.ConnManager.Join(connID, table.TableID)
	log.Printf("[WS] Connection %d joined table %s", connID, table.TableID)

	joined := table.Snapshot()
	joined.Type = domain.MessageTableJoined
	joined.Token = token
	h.ConnManager.SendMessage(connID, joined)
	return table.TableID, nil
}

// processMessage applies one command. It returns false once the table is gone.
func (h *Handler) processMessage(connID int64, tableID string, msg domain.ClientMessage) bool {
	if msg.Type == domain.ActionInit {
		h.ConnManager.SendMessage(connID, errorMessage(tableID, "already initialized"))
		return true
	}

	state, err := h.TableManager.Dispatch(tableID, msg)
	if errors.Is(err, domain.ErrTableNotFound) {
		h.ConnManager.SendMessage(connID, errorMessage(tableID, err.Error()))
		return false
	}
	if err != nil {
		h.ConnManager.SendMessage(connID, errorMessage(tableID, err.Error()))
	}

	if msg.Type == domain.ActionState {
		h.ConnManager.SendMessage(connID, state)
		return true
	}
	h.ConnManager.BroadcastToTable(tableID, state)
	return true
}

func errorMessage(tableID, message string) domain.ServerMessage {
	return domain.ServerMessage{Type: domain.MessageError, TableID: tableID, Message: message}
}
