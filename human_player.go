package main

import "sync"

// HumanPlayer buffers the move submitted over the API until the tick loop
// picks it up.
type HumanPlayer struct {
	color PlayerColor

	mu      sync.Mutex
	pending Move
	hasMove bool
}

func NewHumanPlayer(color PlayerColor) *HumanPlayer {
	return &HumanPlayer{color: color}
}

func (p *HumanPlayer) IsHuman() bool      { return true }
func (p *HumanPlayer) Color() PlayerColor { return p.color }

func (p *HumanPlayer) SubmitMove(move Move) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = move
	p.hasMove = true
}

func (p *HumanPlayer) TakePendingMove() (Move, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasMove {
		return Move{}, false
	}
	p.hasMove = false
	return p.pending, true
}

func (p *HumanPlayer) ClearPending() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hasMove = false
}
