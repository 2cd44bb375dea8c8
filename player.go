package main

import "context"

// IPlayer is a seat at the board. Implementations decide when a move is
// available; the tick loop polls them.
type IPlayer interface {
	IsHuman() bool
	Color() PlayerColor
}

// MoveSource proposes a move for the given position. ok is false when the
// source has nothing to offer (remote unreachable, malformed reply, illegal
// cell), in which case the caller falls through to the next source.
type MoveSource interface {
	Propose(ctx context.Context, state GameState, rules Rules) (Move, bool)
}
