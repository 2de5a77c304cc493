package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/cep-connect4/backend/internal/domain"
)

const writeWait = 10 * time.Second

// ConnectionManager tracks live sockets and the table each one sits at.
// Several sockets may share a table (two players on one board, or a
// reconnecting tab), so state updates are fanned out per table.
type ConnectionManager struct {
	connections map[int64]*websocket.Conn
	tableOf     map[int64]string
	seats       map[string]map[int64]struct{} // tableID → connection IDs

	// gorilla allows one concurrent writer per socket
	writeMu map[int64]*sync.Mutex

	mu     sync.RWMutex // protects the maps
	nextID atomic.Int64
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[int64]*websocket.Conn),
		tableOf:     make(map[int64]string),
		seats:       make(map[string]map[int64]struct{}),
		writeMu:     make(map[int64]*sync.Mutex),
	}
}

// AddConnection registers conn and returns its connection ID
func (cm *ConnectionManager) AddConnection(conn *websocket.Conn) int64 {
	connID := cm.nextID.Add(1)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[connID] = conn
	cm.writeMu[connID] = &sync.Mutex{}
	return connID
}

// Join seats connID at tableID, leaving any previous table
func (cm *ConnectionManager) Join(connID int64, tableID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[connID]; !exists {
		return
	}
	cm.leaveLocked(connID)

	if cm.seats[tableID] == nil {
		cm.seats[tableID] = make(map[int64]struct{})
	}
	cm.seats[tableID][connID] = struct{}{}
	cm.tableOf[connID] = tableID
}

func (cm *ConnectionManager) leaveLocked(connID int64) {
	tableID, seated := cm.tableOf[connID]
	if !seated {
		return
	}
	delete(cm.seats[tableID], connID)
	if len(cm.seats[tableID]) == 0 {
		delete(cm.seats, tableID)
	}
	delete(cm.tableOf, connID)
}

// RemoveConnection closes the socket and forgets it
func (cm *ConnectionManager) RemoveConnection(connID int64) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[connID]; exists {
		conn.Close()
		cm.leaveLocked(connID)
		delete(cm.connections, connID)
		delete(cm.writeMu, connID)
	}
}

// SeatCount returns how many sockets are watching tableID
func (cm *ConnectionManager) SeatCount(tableID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.seats[tableID])
}

func (cm *ConnectionManager) write(connID int64, fn func(conn *websocket.Conn) error) error {
	cm.mu.RLock()
	conn, exists := cm.connections[connID]
	mu, muExists := cm.writeMu[connID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil // disconnected, ignore
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fn(conn)
}

// SendMessage sends a JSON message to one connection
func (cm *ConnectionManager) SendMessage(connID int64, message domain.ServerMessage) error {
	return cm.write(connID, func(conn *websocket.Conn) error {
		return conn.WriteJSON(message)
	})
}

func (cm *ConnectionManager) Ping(connID int64) error {
	return cm.write(connID, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.PingMessage, nil)
	})
}

// BroadcastToTable sends message to every connection seated at tableID
func (cm *ConnectionManager) BroadcastToTable(tableID string, message domain.ServerMessage) {
	cm.mu.RLock()
	targets := make([]int64, 0, len(cm.seats[tableID]))
	for connID := range cm.seats[tableID] {
		targets = append(targets, connID)
	}
	cm.mu.RUnlock()

	for _, connID := range targets {
		cm.SendMessage(connID, message)
	}
}

// CloseTable disconnects everyone at a table that no longer exists
func (cm *ConnectionManager) CloseTable(tableID string, reason string) {
	cm.mu.RLock()
	targets := make([]int64, 0, len(cm.seats[tableID]))
	for connID := range cm.seats[tableID] {
		targets = append(targets, connID)
	}
	cm.mu.RUnlock()

	for _, connID := range targets {
		_ = cm.SendMessage(connID, domain.ServerMessage{Type: domain.MessageError, TableID: tableID, Message: reason})
		cm.RemoveConnection(connID)
	}
}
