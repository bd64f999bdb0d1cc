package chart

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/chartview/pkg/logger"
)

// WebSocketMessage is the envelope for every server push.
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// wsClient holds one connection's subscription. Gorilla connections
// allow a single concurrent writer, so mu serializes the initial push
// with the broadcast loop.
type wsClient struct {
	mu   sync.Mutex
	pair string
}

// WebSocketManager pushes view updates to connected render surfaces.
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]*wsClient
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	log           logger.Logger
	chart         *Chart
}

// NewWebSocketManager creates a manager bound to one chart.
func NewWebSocketManager(log logger.Logger, chart *Chart) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]*wsClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, 100),
		log:           log,
		chart:         chart,
	}

	go manager.handleBroadcasts()

	return manager
}

// handleBroadcasts drains the broadcast channel toward every client.
func (m *WebSocketManager) handleBroadcasts() {
	for msg := range m.broadcastChan {
		m.RLock()
		for conn, client := range m.clients {
			// Pair-scoped messages only reach clients subscribed to
			// that pair; unscoped messages reach everyone.
			if view, ok := msg.Payload.(View); ok && client.pair != "" && view.Pair != "" && view.Pair != client.pair {
				continue
			}

			client.mu.Lock()
			err := conn.WriteJSON(msg)
			client.mu.Unlock()
			if err != nil {
				m.log.Error("Error sending WebSocket message: ", err)
				conn.Close()
				// Removal from the map happens in the client handler
				// when it detects the closed connection.
			}
		}
		m.RUnlock()
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	client := &wsClient{pair: pair}
	m.Lock()
	m.clients[conn] = client
	clientCount := len(m.clients)
	m.Unlock()

	m.log.Info("New WebSocket client connected, total: ", clientCount)

	go m.sendInitialData(conn, client)
	go m.handleClient(conn)
}

// handleClient keeps the connection alive and detects disconnects.
func (m *WebSocketManager) handleClient(conn *websocket.Conn) {
	defer func() {
		m.Lock()
		delete(m.clients, conn)
		m.log.Info("WebSocket client disconnected, remaining: ", len(m.clients))
		m.Unlock()
		conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	// Clients only listen; reading here surfaces disconnects.
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Error("WebSocket read error: ", err)
			}
			break
		}
	}
}

// sendInitialData sends the full current view to a new client.
func (m *WebSocketManager) sendInitialData(conn *websocket.Conn, client *wsClient) {
	msg := WebSocketMessage{
		Type:    "view",
		Payload: m.chart.View(),
	}

	client.mu.Lock()
	err := conn.WriteJSON(msg)
	client.mu.Unlock()
	if err != nil {
		m.log.Error("Error sending initial data: ", err)
	}
}

// Broadcast queues a message for every connected client.
func (m *WebSocketManager) Broadcast(msgType string, payload any) {
	m.broadcastChan <- WebSocketMessage{
		Type:    msgType,
		Payload: payload,
	}
}

// broadcastView pushes the current full view to every render surface.
func (c *Chart) broadcastView() {
	if c.wsManager == nil {
		return
	}
	c.wsManager.Broadcast("view", c.View())
}
