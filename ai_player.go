package main

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// AIPlayer runs its search on a worker goroutine so the tick loop never
// blocks on a think. StartThinking snapshots the position; the result is
// tagged with the snapshot's hash so a move computed for a stale position
// is never played.
type AIPlayer struct {
	color PlayerColor

	thinking  atomic.Bool
	moveReady atomic.Bool

	mu            sync.Mutex
	readyMove     Move
	readyStats    SearchStats
	searchedHash  uint64
	cancelCurrent context.CancelFunc
}

func NewAIPlayer(color PlayerColor) *AIPlayer {
	return &AIPlayer{color: color}
}

func (p *AIPlayer) IsHuman() bool      { return false }
func (p *AIPlayer) Color() PlayerColor { return p.color }

func (p *AIPlayer) IsThinking() bool   { return p.thinking.Load() }
func (p *AIPlayer) HasMoveReady() bool { return p.moveReady.Load() }

// StartThinking kicks off a search for the given position. No-op if a
// search is already running.
func (p *AIPlayer) StartThinking(state GameState, rules Rules, config Config) {
	if !p.thinking.CompareAndSwap(false, true) {
		return
	}
	p.moveReady.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.cancelCurrent = cancel
	p.mu.Unlock()

	snapshot := state.Clone()
	go func() {
		defer p.thinking.Store(false)
		defer cancel()
		move, stats, ok := SearchBestMove(ctx, snapshot, rules, p.color, config)
		if !ok {
			return
		}
		if config.AiLogSearchStats {
			logSearchStats(p.color, move, stats)
		}
		p.mu.Lock()
		p.readyMove = move
		p.readyStats = stats
		p.searchedHash = snapshot.Hash
		p.mu.Unlock()
		p.moveReady.Store(true)
	}()
}

// TakeMove hands the finished move over once, but only if it was computed
// for the position identified by currentHash.
func (p *AIPlayer) TakeMove(currentHash uint64) (Move, SearchStats, bool) {
	if !p.moveReady.CompareAndSwap(true, false) {
		return Move{}, SearchStats{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.searchedHash != currentHash {
		return Move{}, SearchStats{}, false
	}
	return p.readyMove, p.readyStats, true
}

// ChooseMove searches synchronously. Used by the move source chain and in
// tests; the live game path goes through StartThinking/TakeMove.
func (p *AIPlayer) ChooseMove(ctx context.Context, state GameState, rules Rules, config Config) (Move, bool) {
	move, stats, ok := SearchBestMove(ctx, state, rules, p.color, config)
	if ok && config.AiLogSearchStats {
		logSearchStats(p.color, move, stats)
	}
	return move, ok
}

// StopThinking cancels any in-flight search and drops a pending result.
func (p *AIPlayer) StopThinking() {
	p.mu.Lock()
	cancel := p.cancelCurrent
	p.cancelCurrent = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.moveReady.Store(false)
}

func logSearchStats(color PlayerColor, move Move, stats SearchStats) {
	log.Printf("search %s: move=(%d,%d) depth=%d nodes=%d ttHits=%d ttStores=%d cutoffs=%d score=%.0f elapsed=%dms timedOut=%v",
		color, move.X, move.Y, stats.Depth, stats.Nodes, stats.TTHits, stats.TTStores, stats.Cutoffs, stats.BestScore, stats.ElapsedMs, stats.TimedOut)
}
