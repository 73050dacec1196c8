package messages

import "github.com/tecu23/duel-server/internal/color"

// Outbound event names
const (
	OutboundPlayerRole         = "PLAYER_ROLE"
	OutboundSpectatorRole      = "SPECTATOR_ROLE"
	OutboundGameState          = "GAME_STATE"
	OutboundMove               = "MOVE"
	OutboundTimerUpdate        = "TIMER_UPDATE"
	OutboundTimeUp             = "TIME_UP"
	OutboundGameOver           = "GAME_OVER"
	OutboundInvalidMove        = "INVALID_MOVE"
	OutboundDrawOffered        = "DRAW_OFFERED"
	OutboundPlayerDisconnected = "PLAYER_DISCONNECTED"
	OutboundError              = "ERROR"
)

// OutboundMessage is how we wrap responses before sending
// them to the client
type OutboundMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// PlayerRolePayload tells a connection which seat it was given
type PlayerRolePayload struct {
	Color color.Color `json:"color"`
}

// GameStatePayload is the full state snapshot sent on connect and reset
type GameStatePayload struct {
	BoardFEN    string      `json:"board_fen"`
	WhiteTime   int         `json:"white_time"`
	BlackTime   int         `json:"black_time"`
	CurrentTurn color.Color `json:"current_turn"`
}

// MoveDetail echoes the accepted move back to clients
type MoveDetail struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	SAN       string `json:"san,omitempty"`
}

// MovePayload represents the payload broadcast after an accepted move
type MovePayload struct {
	Move        MoveDetail  `json:"move"`
	BoardFEN    string      `json:"board_fen"`
	WhiteTime   int         `json:"white_time"`
	BlackTime   int         `json:"black_time"`
	CurrentTurn color.Color `json:"current_turn"`
}

// TimerUpdatePayload carries both remaining times, once per tick
type TimerUpdatePayload struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// TimeUpPayload names the side whose clock expired
type TimeUpPayload struct {
	Color color.Color `json:"color"`
}

// GameOverPayload announces the game result
type GameOverPayload struct {
	Message string `json:"message"`
}

// InvalidMovePayload is unicast to the requester of a rejected move
type InvalidMovePayload struct {
	Reason string `json:"reason"`
}

// PlayerDisconnectedPayload names the seat vacated by a disconnect
type PlayerDisconnectedPayload struct {
	Color color.Color `json:"color"`
}

// ErrorPayload reports a malformed or unknown message
type ErrorPayload struct {
	Message string `json:"message"`
}
