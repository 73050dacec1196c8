package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/internal/color"
	"github.com/tecu23/duel-server/pkg/events"
	"github.com/tecu23/duel-server/pkg/messages"
	"github.com/tecu23/duel-server/pkg/rules"
	"github.com/tecu23/duel-server/pkg/session"
)

// Broadcaster is the delivery capability the coordinator needs from the
// transport layer. Emission is fire-and-forget.
type Broadcaster interface {
	EmitToAll(msg messages.OutboundMessage)
	EmitToOne(id uuid.UUID, msg messages.OutboundMessage)
	EmitToOthers(id uuid.UUID, msg messages.OutboundMessage)
}

// State is the coordinator lifecycle state
type State string

// Waiting until both seats fill, Active while moves are accepted,
// Concluded once a terminal outcome is recorded
const (
	StateWaiting   State = "waiting"
	StateActive    State = "active"
	StateConcluded State = "concluded"
)

// Config carries the tunables the coordinator needs
type Config struct {
	InitialTimeSeconds int
	TickInterval       time.Duration
}

// Coordinator is the authoritative state machine for the single game.
// Every inbound event, including clock ticks, serializes on its mutex,
// so no two mutations of game, clock, or seat state interleave.
type Coordinator struct {
	mu sync.Mutex

	state    State
	registry *session.Registry
	engine   *rules.Engine
	clock    *Clock

	broadcaster Broadcaster
	publisher   *events.Publisher
	logger      *zap.Logger
}

// NewCoordinator wires the registry, rules engine, and a fresh clock
// into a coordinator in the Waiting state. The broadcaster is attached
// separately because the transport hub needs the coordinator first.
func NewCoordinator(
	cfg Config,
	registry *session.Registry,
	engine *rules.Engine,
	publisher *events.Publisher,
	logger *zap.Logger,
) *Coordinator {
	c := &Coordinator{
		state:     StateWaiting,
		registry:  registry,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}

	c.clock = NewClock(cfg.InitialTimeSeconds, cfg.TickInterval, c.onTick, c.onExpiry)

	return c
}

// AttachBroadcaster wires the transport used for all outbound emission
func (c *Coordinator) AttachBroadcaster(b Broadcaster) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.broadcaster = b
}

// State returns the current lifecycle state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// OnConnect seats or spectates the connection, sends it its role and the
// full current state, and starts the game when the second seat fills.
func (c *Coordinator) OnConnect(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	role := c.registry.AssignRole(id)

	if seatColor, ok := role.Color(); ok {
		c.emitToOne(id, messages.OutboundMessage{
			Event:   messages.OutboundPlayerRole,
			Payload: messages.PlayerRolePayload{Color: seatColor},
		})
	} else {
		c.emitToOne(id, messages.OutboundMessage{
			Event:   messages.OutboundSpectatorRole,
			Payload: struct{}{},
		})
	}

	c.emitToOne(id, messages.OutboundMessage{
		Event:   messages.OutboundGameState,
		Payload: c.statePayloadLocked(),
	})

	c.publisher.Publish(events.Event{
		Type:    events.EventSeatAssigned,
		Payload: map[string]string{"connection_id": id.String(), "role": string(role)},
	})

	c.logger.Info("connection assigned",
		zap.String("connection_id", id.String()),
		zap.String("role", string(role)))

	if c.state == StateWaiting && c.registry.BothSeated() {
		c.state = StateActive
		c.clock.Start(color.White)

		c.publisher.Publish(events.Event{Type: events.EventGameStarted})
		c.logger.Info("both seats filled, game started")
	}
}

// OnMove validates and applies a move request. Moves from connections
// not seated on the side to move, or outside the Active state, are
// dropped silently. Illegal moves get a private INVALID_MOVE. Anything
// that panics during processing is caught here and surfaced the same
// way; committed state is never left half-mutated.
func (c *Coordinator) OnMove(id uuid.UUID, req messages.MakeMovePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("move processing panic", zap.Any("panic", r))
			c.emitToOne(id, messages.OutboundMessage{
				Event:   messages.OutboundInvalidMove,
				Payload: messages.InvalidMovePayload{Reason: fmt.Sprintf("internal error: %v", r)},
			})
		}
	}()

	if c.state != StateActive {
		return
	}

	mover := c.engine.Turn()
	if seat, ok := c.registry.SeatOf(mover); !ok || seat != id {
		return
	}

	// Freeze the clock before touching the position. If the mover's
	// flag already fell, the expiry callback is in flight and owns the
	// conclusion; this move arrived too late.
	c.clock.Stop()
	if white, black := c.clock.Remaining(); (mover == color.White && white <= 0) ||
		(mover == color.Black && black <= 0) {
		return
	}

	res, err := c.engine.Apply(req.From, req.To, req.Promotion)
	if err != nil {
		c.emitToOne(id, messages.OutboundMessage{
			Event:   messages.OutboundInvalidMove,
			Payload: messages.InvalidMovePayload{Reason: err.Error()},
		})
		c.clock.Start(mover)
		return
	}

	st := c.engine.Status()
	if !st.Over() {
		c.clock.Start(mover.Opp())
	}

	white, black := c.clock.Remaining()
	c.emitToAll(messages.OutboundMessage{
		Event: messages.OutboundMove,
		Payload: messages.MovePayload{
			Move:        messages.MoveDetail{From: req.From, To: req.To, Promotion: req.Promotion, SAN: res.SAN},
			BoardFEN:    res.FEN,
			WhiteTime:   white,
			BlackTime:   black,
			CurrentTurn: res.Turn,
		},
	})

	c.publisher.Publish(events.Event{
		Type:    events.EventMoveProcessed,
		Payload: map[string]string{"uci": res.UCI, "san": res.SAN, "fen": res.FEN},
	})

	c.logger.Info("move processed",
		zap.String("san", res.SAN),
		zap.String("new_turn", string(res.Turn)))

	switch {
	case st.Checkmate:
		c.concludeLocked(fmt.Sprintf("Checkmate! %s wins!", mover.Label()))
	case st.Stalemate:
		c.concludeLocked("Stalemate! Game drawn.")
	case st.Draw:
		c.logger.Info("game drawn", zap.String("reason", st.DrawReason))
		c.concludeLocked("Draw!")
	}
}

// OnTimeout handles a clock expiry. Only meaningful while Active.
func (c *Coordinator) OnTimeout(side color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		return
	}

	c.emitToAll(messages.OutboundMessage{
		Event:   messages.OutboundTimeUp,
		Payload: messages.TimeUpPayload{Color: side},
	})

	c.publisher.Publish(events.Event{
		Type:    events.EventClockExpired,
		Payload: map[string]string{"color": string(side)},
	})

	c.concludeLocked(fmt.Sprintf("%s's time is up. %s wins!", side.Label(), side.Opp().Label()))
}

// OnDrawOffer forwards the offer to everyone except the requester. It is
// advisory only and accepted in any state.
func (c *Coordinator) OnDrawOffer(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.emitToOthers(id, messages.OutboundMessage{
		Event:   messages.OutboundDrawOffered,
		Payload: struct{}{},
	})

	c.publisher.Publish(events.Event{
		Type:    events.EventDrawOffered,
		Payload: map[string]string{"connection_id": id.String()},
	})
}

// OnDrawAccept concludes the game as drawn by agreement. No-op unless
// Active.
func (c *Coordinator) OnDrawAccept() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		return
	}

	c.concludeLocked("Draw by agreement!")
}

// OnResign concludes the game naming the resigner's opponent as winner.
// Permitted from Active or Waiting.
func (c *Coordinator) OnResign(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateConcluded {
		return
	}

	role := c.registry.SideOf(id)

	msg := "Player resigns."
	if seatColor, ok := role.Color(); ok {
		msg = fmt.Sprintf("%s resigns. %s wins!", seatColor.Label(), seatColor.Opp().Label())
	}

	c.concludeLocked(msg)
}

// OnDisconnect releases the connection's seat, if it held one, stops the
// clock, and announces the vacated side. The game is not concluded; it
// stays clockless until reset or a new connection claims the seat.
func (c *Coordinator) OnDisconnect(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	role := c.registry.SideOf(id)
	c.registry.Release(id)

	c.publisher.Publish(events.Event{
		Type:    events.EventConnectionClosed,
		Payload: map[string]string{"connection_id": id.String()},
	})

	seatColor, held := role.Color()
	if !held {
		return
	}

	c.clock.Stop()

	c.emitToAll(messages.OutboundMessage{
		Event:   messages.OutboundPlayerDisconnected,
		Payload: messages.PlayerDisconnectedPayload{Color: seatColor},
	})

	c.logger.Info("player disconnected",
		zap.String("connection_id", id.String()),
		zap.String("color", string(seatColor)))
}

// Reset reinitializes position, clock, and seats, and broadcasts the
// fresh state. Valid from any state.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.Reset()
	c.clock.Reset()
	c.registry.Reset()
	c.state = StateWaiting

	c.emitToAll(messages.OutboundMessage{
		Event:   messages.OutboundGameState,
		Payload: c.statePayloadLocked(),
	})

	c.publisher.Publish(events.Event{Type: events.EventGameReset})
	c.logger.Info("game reset")
}

// onTick relays clock decrements to all connections. It runs on the
// clock goroutine and deliberately takes no coordinator lock: it reads
// nothing but the snapshot it was handed.
func (c *Coordinator) onTick(white, black int) {
	c.emitToAll(messages.OutboundMessage{
		Event:   messages.OutboundTimerUpdate,
		Payload: messages.TimerUpdatePayload{White: white, Black: black},
	})
}

// onExpiry re-enters the coordinator through the same serialization as
// every client event.
func (c *Coordinator) onExpiry(side color.Color) {
	c.OnTimeout(side)
}

// concludeLocked records the terminal outcome: clock stopped, state
// Concluded, result broadcast. Caller holds the mutex.
func (c *Coordinator) concludeLocked(msg string) {
	c.clock.Stop()
	c.state = StateConcluded

	c.emitToAll(messages.OutboundMessage{
		Event:   messages.OutboundGameOver,
		Payload: messages.GameOverPayload{Message: msg},
	})

	c.publisher.Publish(events.Event{
		Type:    events.EventGameOver,
		Payload: map[string]string{"message": msg},
	})

	c.logger.Info("game over", zap.String("message", msg))
}

func (c *Coordinator) statePayloadLocked() messages.GameStatePayload {
	white, black := c.clock.Remaining()

	return messages.GameStatePayload{
		BoardFEN:    c.engine.FEN(),
		WhiteTime:   white,
		BlackTime:   black,
		CurrentTurn: c.engine.Turn(),
	}
}

func (c *Coordinator) emitToAll(msg messages.OutboundMessage) {
	if c.broadcaster != nil {
		c.broadcaster.EmitToAll(msg)
	}
}

func (c *Coordinator) emitToOne(id uuid.UUID, msg messages.OutboundMessage) {
	if c.broadcaster != nil {
		c.broadcaster.EmitToOne(id, msg)
	}
}

func (c *Coordinator) emitToOthers(id uuid.UUID, msg messages.OutboundMessage) {
	if c.broadcaster != nil {
		c.broadcaster.EmitToOthers(id, msg)
	}
}
