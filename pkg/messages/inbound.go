// Package messages defines the wire protocol between server and clients
package messages

import "encoding/json"

// Inbound event names
const (
	InboundMakeMove   = "MAKE_MOVE"
	InboundOfferDraw  = "OFFER_DRAW"
	InboundAcceptDraw = "ACCEPT_DRAW"
	InboundResign     = "RESIGN"
	InboundReset      = "RESET"
)

// InboundMessage is the generic wrapper for messages coming from the client.
// The "event" field tells us the action; "payload" is the data we parse further.
type InboundMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// MakeMovePayload represents the payload for making a move during a game
type MakeMovePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}
