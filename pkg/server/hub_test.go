package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/events"
	"github.com/tecu23/duel-server/pkg/game"
	"github.com/tecu23/duel-server/pkg/messages"
	"github.com/tecu23/duel-server/pkg/rules"
	"github.com/tecu23/duel-server/pkg/session"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	coordinator := game.NewCoordinator(
		game.Config{InitialTimeSeconds: 600, TickInterval: time.Hour},
		session.NewRegistry(),
		rules.New(),
		events.NewPublisher(),
		zap.NewNop(),
	)

	h := NewHub(coordinator, zap.NewNop())
	coordinator.AttachBroadcaster(h)

	return h
}

func newTestConnection() *Connection {
	return &Connection{
		ID:     uuid.New(),
		send:   make(chan []byte, 16),
		logger: zap.NewNop(),
	}
}

// drain decodes everything queued on the connection
func drain(t *testing.T, c *Connection) []messages.OutboundMessage {
	t.Helper()

	var out []messages.OutboundMessage
	for {
		select {
		case data := <-c.send:
			var msg messages.OutboundMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func eventNames(msgs []messages.OutboundMessage) []string {
	names := make([]string, 0, len(msgs))
	for _, m := range msgs {
		names = append(names, m.Event)
	}
	return names
}

func TestRegisterSendsRoleAndState(t *testing.T) {
	h := newTestHub(t)

	conn := newTestConnection()
	h.registerConnection(conn)

	got := eventNames(drain(t, conn))
	assert.Equal(t, []string{messages.OutboundPlayerRole, messages.OutboundGameState}, got)
}

func TestUnknownEventGetsError(t *testing.T) {
	h := newTestHub(t)

	conn := newTestConnection()
	h.registerConnection(conn)
	drain(t, conn)

	h.handleInbound(InboundHubMessage{
		Conn:    conn,
		Message: messages.InboundMessage{Event: "NO_SUCH_EVENT"},
	})

	got := drain(t, conn)
	require.Len(t, got, 1)
	assert.Equal(t, messages.OutboundError, got[0].Event)
}

func TestMalformedMovePayloadGetsInvalidMove(t *testing.T) {
	h := newTestHub(t)

	conn := newTestConnection()
	h.registerConnection(conn)
	drain(t, conn)

	h.handleInbound(InboundHubMessage{
		Conn: conn,
		Message: messages.InboundMessage{
			Event:   messages.InboundMakeMove,
			Payload: json.RawMessage(`"not an object"`),
		},
	})

	got := drain(t, conn)
	require.Len(t, got, 1)
	assert.Equal(t, messages.OutboundInvalidMove, got[0].Event)
}

func TestMoveIsBroadcastToEveryConnection(t *testing.T) {
	h := newTestHub(t)

	white := newTestConnection()
	black := newTestConnection()
	spec := newTestConnection()

	h.registerConnection(white)
	h.registerConnection(black)
	h.registerConnection(spec)
	drain(t, white)
	drain(t, black)
	drain(t, spec)

	h.handleInbound(InboundHubMessage{
		Conn: white,
		Message: messages.InboundMessage{
			Event:   messages.InboundMakeMove,
			Payload: json.RawMessage(`{"from":"e2","to":"e4"}`),
		},
	})

	for _, conn := range []*Connection{white, black, spec} {
		got := drain(t, conn)
		require.Len(t, got, 1)
		assert.Equal(t, messages.OutboundMove, got[0].Event)
	}
}

func TestUnregisterAnnouncesDisconnect(t *testing.T) {
	h := newTestHub(t)

	white := newTestConnection()
	black := newTestConnection()

	h.registerConnection(white)
	h.registerConnection(black)
	drain(t, white)
	drain(t, black)

	h.unregisterConnection(white)

	got := drain(t, black)
	require.Len(t, got, 1)
	assert.Equal(t, messages.OutboundPlayerDisconnected, got[0].Event)
}
