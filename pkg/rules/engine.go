// Package rules wraps the chess rules library behind the small surface
// the coordinator needs: apply a move, ask for the game status, and
// serialize or load a position. The coordinator never touches board
// internals directly.
package rules

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/tecu23/duel-server/internal/color"
)

// MoveResult describes an accepted move
type MoveResult struct {
	UCI  string
	SAN  string
	FEN  string      // position after the move
	Turn color.Color // side to move after the move
}

// Status is the rules-level view of the game
type Status struct {
	Checkmate  bool
	Stalemate  bool
	Draw       bool
	DrawReason string
	Turn       color.Color
}

// Over reports whether any terminal condition holds
func (s Status) Over() bool {
	return s.Checkmate || s.Stalemate || s.Draw
}

// Engine owns the authoritative position
type Engine struct {
	game *chess.Game
}

// New creates an engine at the standard starting position
func New() *Engine {
	return &Engine{game: chess.NewGame()}
}

// Apply validates and plays a move given as from/to squares plus an
// optional promotion piece letter. Queen is assumed when a promotion is
// required but none was given. Returns an error for anything the rules
// reject; the position is unchanged in that case.
func (e *Engine) Apply(from, to, promotion string) (*MoveResult, error) {
	pos := e.game.Position()

	uci := strings.ToLower(strings.TrimSpace(from) + strings.TrimSpace(to) + strings.TrimSpace(promotion))

	notation := chess.UCINotation{}

	apply := func(u string) (*chess.Move, error) {
		mv, err := notation.Decode(pos, u)
		if err != nil {
			return nil, err
		}
		if err := e.game.Move(mv, nil); err != nil {
			return nil, err
		}
		return mv, nil
	}

	mv, err := apply(uci)
	if err != nil && promotion == "" {
		// Bare from/to on a promoting pawn move is missing its piece
		// letter; retry as a queen promotion.
		mv, err = apply(uci + "q")
	}
	if err != nil {
		return nil, fmt.Errorf("illegal move %s%s: %w", from, to, err)
	}

	san := chess.AlgebraicNotation{}.Encode(pos, mv)

	return &MoveResult{
		UCI:  mv.String(),
		SAN:  san,
		FEN:  e.game.FEN(),
		Turn: e.Turn(),
	}, nil
}

// Status inspects the current position for terminal conditions
func (e *Engine) Status() Status {
	st := Status{Turn: e.Turn()}

	switch e.game.Outcome() {
	case chess.WhiteWon, chess.BlackWon:
		// Resignation never goes through the engine, so a decisive
		// outcome here is always mate.
		st.Checkmate = true
	case chess.Draw:
		if e.game.Method() == chess.Stalemate {
			st.Stalemate = true
		} else {
			st.Draw = true
			st.DrawReason = strings.ToLower(e.game.Method().String())
		}
	}

	return st
}

// Turn returns the side to move
func (e *Engine) Turn() color.Color {
	if e.game.Position().Turn() == chess.White {
		return color.White
	}

	return color.Black
}

// FEN serializes the current position
func (e *Engine) FEN() string {
	return e.game.FEN()
}

// Load replaces the position with the given FEN
func (e *Engine) Load(fen string) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", fen, err)
	}

	e.game = chess.NewGame(opt)
	return nil
}

// Reset restores the standard starting position
func (e *Engine) Reset() {
	e.game = chess.NewGame()
}
