// Package server implements the WebSocket transport: the hub and the
// per-connection read/write pumps
package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/game"
	"github.com/tecu23/duel-server/pkg/messages"
)

// InboundHubMessage are the messages that the hub receives
type InboundHubMessage struct {
	Conn    *Connection             // who sent it
	Message messages.InboundMessage // decoded envelope
}

// Hub keeps track of all active connections and routes every inbound
// event, including connects and disconnects, into the coordinator. Its
// Run loop is the single place client events enter the game.
type Hub struct {
	mu          sync.RWMutex              // Mutex to protect direct access to the connections map.
	connections map[uuid.UUID]*Connection // Registered connections

	register   chan *Connection       // Incoming registration
	unregister chan *Connection       // Incoming unregistration
	inbound    chan InboundHubMessage // Client events to route

	coordinator *game.Coordinator
	logger      *zap.Logger
}

// NewHub creates a new hub
func NewHub(coordinator *game.Coordinator, logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		inbound:     make(chan InboundHubMessage),
		coordinator: coordinator,
		logger:      logger,
	}
}

// Run is the main execution of the hub
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.registerConnection(conn)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)

		case msg := <-h.inbound:
			h.handleInbound(msg)
		}
	}
}

// Register queues a connection for registration
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister queues a connection for removal
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	h.connections[conn.ID] = conn
	total := len(h.connections)
	h.mu.Unlock()

	h.logger.Info("connection registered",
		zap.String("connection_id", conn.ID.String()),
		zap.Int("total", total))

	h.coordinator.OnConnect(conn.ID)
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	_, ok := h.connections[conn.ID]
	if ok {
		delete(h.connections, conn.ID)
		close(conn.send)
	}
	total := len(h.connections)
	h.mu.Unlock()

	if !ok {
		return
	}

	h.logger.Info("connection unregistered",
		zap.String("connection_id", conn.ID.String()),
		zap.Int("total", total))

	h.coordinator.OnDisconnect(conn.ID)
}

// handleInbound decodes and routes a client event to the coordinator
func (h *Hub) handleInbound(msg InboundHubMessage) {
	switch msg.Message.Event {
	case messages.InboundMakeMove:
		var payload messages.MakeMovePayload
		if err := json.Unmarshal(msg.Message.Payload, &payload); err != nil {
			msg.Conn.SendJSON(messages.OutboundMessage{
				Event:   messages.OutboundInvalidMove,
				Payload: messages.InvalidMovePayload{Reason: "malformed move payload"},
			})
			return
		}

		h.coordinator.OnMove(msg.Conn.ID, payload)

	case messages.InboundOfferDraw:
		h.coordinator.OnDrawOffer(msg.Conn.ID)

	case messages.InboundAcceptDraw:
		h.coordinator.OnDrawAccept()

	case messages.InboundResign:
		h.coordinator.OnResign(msg.Conn.ID)

	case messages.InboundReset:
		h.coordinator.Reset()

	default:
		h.logger.Warn("unknown inbound event", zap.String("event", msg.Message.Event))
		msg.Conn.SendJSON(messages.OutboundMessage{
			Event:   messages.OutboundError,
			Payload: messages.ErrorPayload{Message: "Unknown message type"},
		})
	}
}

// EmitToAll broadcasts one message to every connection
func (h *Hub) EmitToAll(msg messages.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal outbound", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections {
		conn.Send(data)
	}
}

// EmitToOne sends one message to a single connection, if still present
func (h *Hub) EmitToOne(id uuid.UUID, msg messages.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal outbound", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if conn, ok := h.connections[id]; ok {
		conn.Send(data)
	}
}

// EmitToOthers broadcasts to every connection except the given one
func (h *Hub) EmitToOthers(id uuid.UUID, msg messages.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal outbound", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, conn := range h.connections {
		if connID == id {
			continue
		}
		conn.Send(data)
	}
}

// Shutdown closes every connection
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.connections {
		close(conn.send)
		conn.ws.Close()
		delete(h.connections, id)
	}
}
