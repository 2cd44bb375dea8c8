package main

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"
)

const (
	winScore     = 2_000_000_000.0
	illegalScore = -3_000_000_000.0

	// Bonus per ply of remaining depth on decided positions, so the
	// search prefers the quickest win and the slowest loss.
	depthDampStep = 1000.0

	candidateRadius = 2
)

type AIScoreSettings struct {
	DepthWide          int
	DepthNarrow        int
	WideCandidateCount int
	TimeBudget         time.Duration
}

func scoreSettingsFromConfig(config Config) AIScoreSettings {
	return AIScoreSettings{
		DepthWide:          config.AiDepthWide,
		DepthNarrow:        config.AiDepthNarrow,
		WideCandidateCount: config.AiWideCandidateCount,
		TimeBudget:         time.Duration(config.AiTimeBudgetMs) * time.Millisecond,
	}
}

type SearchStats struct {
	Depth     int
	Nodes     int64
	TTHits    int64
	TTStores  int64
	Cutoffs   int64
	ElapsedMs int64
	BestScore float64
	TimedOut  bool
}

type minimaxContext struct {
	ctx      context.Context
	rules    Rules
	config   Config
	aiPlayer PlayerColor
	tt       *TranspositionTable
	stats    *SearchStats
}

func timedOut(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func chebDist(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

func manhattanDist(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// collectCandidateMoves gathers every empty cell within Chebyshev distance 2
// of an occupied cell. On an empty board the only candidate is the center.
// Candidates are ordered by Manhattan distance to the last move, closest
// first, with a fixed (y, x) tie-break so repeated searches of the same
// position walk the same move list.
func collectCandidateMoves(state GameState) []Move {
	size := state.Board.Size()
	if state.Board.CountStones() == 0 {
		return []Move{NewMove(size/2, size/2)}
	}

	seen := make([]bool, size*size)
	candidates := []Move{}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if state.Board.At(x, y) == CellEmpty {
				continue
			}
			for dy := -candidateRadius; dy <= candidateRadius; dy++ {
				for dx := -candidateRadius; dx <= candidateRadius; dx++ {
					nx := x + dx
					ny := y + dy
					if !state.Board.InBounds(nx, ny) {
						continue
					}
					idx := ny*size + nx
					if seen[idx] || state.Board.At(nx, ny) != CellEmpty {
						continue
					}
					seen[idx] = true
					candidates = append(candidates, NewMove(nx, ny))
				}
			}
		}
	}

	refX := size / 2
	refY := size / 2
	if state.HasLastMove {
		refX = state.LastMove.X
		refY = state.LastMove.Y
	}
	sort.Slice(candidates, func(i, j int) bool {
		di := manhattanDist(candidates[i].X, candidates[i].Y, refX, refY)
		dj := manhattanDist(candidates[j].X, candidates[j].Y, refX, refY)
		if di != dj {
			return di < dj
		}
		if candidates[i].Y != candidates[j].Y {
			return candidates[i].Y < candidates[j].Y
		}
		return candidates[i].X < candidates[j].X
	})
	return candidates
}

// depthForCandidates trades depth for width: crowded frontiers get a shallow
// scan, tight ones a deeper one.
func depthForCandidates(candidateCount int, settings AIScoreSettings) int {
	if candidateCount > settings.WideCandidateCount {
		return settings.DepthWide
	}
	return settings.DepthNarrow
}

// applyMove plays move for player on state in place. The caller passes a
// clone; the original position is never touched. Returns false when the move
// is not legal in this position.
func applyMove(state *GameState, rules Rules, move Move, player PlayerColor) bool {
	if state.Status != StatusRunning {
		return false
	}
	if ok, _ := rules.IsLegal(*state, move, player); !ok {
		return false
	}
	prevToMove := state.ToMove
	state.Board.Set(move.X, move.Y, CellFromPlayer(player))
	state.LastMove = move
	state.HasLastMove = true
	if rules.IsWin(state.Board, move) {
		if player == PlayerBlack {
			state.Status = StatusBlackWon
		} else {
			state.Status = StatusWhiteWon
		}
	} else if rules.IsDraw(state.Board) {
		state.Status = StatusDraw
	}
	state.ToMove = otherPlayer(player)
	UpdateHashAfterMove(state, move, player, prevToMove)
	return true
}

// evaluateState scores a position from the AI player's point of view.
// Decided games pin to the full win score; running games fall through to the
// pattern evaluator.
func evaluateState(state GameState, aiPlayer PlayerColor, config Config) float64 {
	switch state.Status {
	case StatusBlackWon:
		if aiPlayer == PlayerBlack {
			return winScore
		}
		return -winScore
	case StatusWhiteWon:
		if aiPlayer == PlayerWhite {
			return winScore
		}
		return -winScore
	case StatusDraw:
		return 0
	}
	return EvaluateBoard(state.Board, aiPlayer, config)
}

func dampedScore(score float64, remainingDepth int) float64 {
	if score >= winScore/2 {
		return score + depthDampStep*float64(remainingDepth)
	}
	if score <= -winScore/2 {
		return score - depthDampStep*float64(remainingDepth)
	}
	return score
}

func (mc *minimaxContext) minimax(state GameState, depth int, alpha, beta float64) float64 {
	mc.stats.Nodes++

	if state.Status != StatusRunning {
		return dampedScore(evaluateState(state, mc.aiPlayer, mc.config), depth)
	}
	if depth == 0 || timedOut(mc.ctx) {
		return dampedScore(evaluateState(state, mc.aiPlayer, mc.config), depth)
	}

	alphaOrig := alpha
	var ttMove Move
	hasTTMove := false
	if mc.tt != nil {
		if entry, ok := mc.tt.Probe(state.Hash); ok {
			mc.stats.TTHits++
			if int(entry.Depth) >= depth {
				switch entry.Flag {
				case TTExact:
					return entry.Value
				case TTLower:
					if entry.Value > alpha {
						alpha = entry.Value
					}
				case TTUpper:
					if entry.Value < beta {
						beta = entry.Value
					}
				}
				if alpha >= beta {
					return entry.Value
				}
			}
			ttMove = entry.BestMove
			hasTTMove = true
		}
	}

	// A decided-looking position is not worth expanding further.
	staticEval := evaluateState(state, mc.aiPlayer, mc.config)
	if staticEval >= winScore/2 || staticEval <= -winScore/2 {
		return dampedScore(staticEval, depth)
	}

	candidates := collectCandidateMoves(state)
	if len(candidates) == 0 {
		return staticEval
	}
	if hasTTMove {
		for i, cand := range candidates {
			if cand.Equals(ttMove) {
				candidates[0], candidates[i] = candidates[i], candidates[0]
				break
			}
		}
	}

	maximizing := state.ToMove == mc.aiPlayer
	mover := state.ToMove

	var best float64
	if maximizing {
		best = -winScore * 2
	} else {
		best = winScore * 2
	}
	var bestMove Move
	for _, cand := range candidates {
		if timedOut(mc.ctx) {
			break
		}
		child := state.Clone()
		if !applyMove(&child, mc.rules, cand, mover) {
			continue
		}
		score := mc.minimax(child, depth-1, alpha, beta)
		if maximizing {
			if score > best {
				best = score
				bestMove = cand
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
				bestMove = cand
			}
			if best < beta {
				beta = best
			}
		}
		if alpha >= beta {
			mc.stats.Cutoffs++
			break
		}
	}

	if mc.tt != nil && !timedOut(mc.ctx) {
		flag := TTExact
		if best <= alphaOrig {
			flag = TTUpper
		} else if best >= beta {
			flag = TTLower
		}
		if mc.tt.Store(state.Hash, depth, best, flag, bestMove) {
			mc.stats.TTStores++
		}
	}
	return best
}

var (
	sharedCacheMu sync.Mutex
	sharedTT      *TranspositionTable
	sharedTTSize  int
)

func ensureSharedTT(config Config) *TranspositionTable {
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	if sharedTT == nil || sharedTTSize != config.AiTtSize {
		sharedTT = NewTranspositionTable(uint64(config.AiTtSize), config.AiTtBuckets)
		sharedTTSize = config.AiTtSize
	}
	return sharedTT
}

// FlushSearchCaches drops transposition data carried over from previous
// games. Called on every reset so searches from a fresh board are
// reproducible.
func FlushSearchCaches() {
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	if sharedTT != nil {
		sharedTT.Clear()
	}
}

// SearchBestMove runs an alpha-beta search for aiPlayer from state within
// the configured wall-clock budget. It always returns whatever best move it
// has when the budget runs out; ok is false only when the position has no
// legal move at all.
func SearchBestMove(parent context.Context, state GameState, rules Rules, aiPlayer PlayerColor, config Config) (Move, SearchStats, bool) {
	settings := scoreSettingsFromConfig(config)
	started := time.Now()

	stats := SearchStats{}
	// Fixed opening, nothing to search.
	if state.Board.CountStones() == 0 {
		size := state.Board.Size()
		return NewMove(size/2, size/2), stats, true
	}

	ctx, cancel := context.WithTimeout(parent, settings.TimeBudget)
	defer cancel()

	candidates := collectCandidateMoves(state)
	if len(candidates) == 0 {
		return Move{}, stats, false
	}
	depth := depthForCandidates(len(candidates), settings)
	stats.Depth = depth

	tt := ensureSharedTT(config)
	tt.NextGeneration()
	mc := &minimaxContext{
		ctx:      ctx,
		rules:    rules,
		config:   config,
		aiPlayer: aiPlayer,
		tt:       tt,
		stats:    &stats,
	}

	best := candidates[0]
	bestScore := illegalScore
	alpha := -winScore * 2
	beta := winScore * 2
	evaluated := 0
	for _, cand := range candidates {
		if timedOut(ctx) && evaluated > 0 {
			stats.TimedOut = true
			break
		}
		child := state.Clone()
		if !applyMove(&child, rules, cand, aiPlayer) {
			continue
		}
		score := mc.minimax(child, depth-1, alpha, beta)
		evaluated++
		if score > bestScore {
			bestScore = score
			best = cand
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	stats.BestScore = bestScore
	stats.ElapsedMs = time.Since(started).Milliseconds()
	if evaluated == 0 {
		if fallback, ok := randomLegalMove(state, rules, aiPlayer); ok {
			return fallback, stats, true
		}
		return Move{}, stats, false
	}
	return best, stats, true
}

// randomLegalMove picks any legal cell. Last-resort fallback when the search
// produced nothing usable.
func randomLegalMove(state GameState, rules Rules, player PlayerColor) (Move, bool) {
	size := state.Board.Size()
	free := []Move{}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			move := NewMove(x, y)
			if ok, _ := rules.IsLegal(state, move, player); ok {
				free = append(free, move)
			}
		}
	}
	if len(free) == 0 {
		return Move{}, false
	}
	return free[rand.Intn(len(free))], true
}
