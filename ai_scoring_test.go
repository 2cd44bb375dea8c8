package main

import (
	"context"
	"testing"
	"time"
)

func runningState(settings GameSettings) GameState {
	state := DefaultGameState(settings)
	state.Status = StatusRunning
	return state
}

func TestCandidatesEmptyBoardIsCenter(t *testing.T) {
	state := runningState(DefaultGameSettings())
	candidates := collectCandidateMoves(state)
	if len(candidates) != 1 {
		t.Fatalf("expected single candidate on empty board, got %d", len(candidates))
	}
	if !candidates[0].Equals(Move{X: 7, Y: 7}) {
		t.Fatalf("expected center (7,7), got (%d,%d)", candidates[0].X, candidates[0].Y)
	}
}

func TestSearchOpensAtCenterWithoutSearching(t *testing.T) {
	state := runningState(DefaultGameSettings())
	rules := NewRules(DefaultGameSettings())

	move, stats, ok := SearchBestMove(context.Background(), state, rules, PlayerBlack, DefaultConfig())
	if !ok {
		t.Fatalf("expected a move")
	}
	if !move.Equals(Move{X: 7, Y: 7}) {
		t.Fatalf("expected center (7,7), got (%d,%d)", move.X, move.Y)
	}
	if stats.Nodes != 0 {
		t.Fatalf("empty board must not be searched, visited %d nodes", stats.Nodes)
	}
}

func TestCandidatesStayNearStones(t *testing.T) {
	state := runningState(DefaultGameSettings())
	state.Board.Set(7, 7, CellBlack)
	state.Board.Set(8, 8, CellWhite)
	state.LastMove = Move{X: 8, Y: 8}
	state.HasLastMove = true

	candidates := collectCandidateMoves(state)
	if len(candidates) == 0 {
		t.Fatalf("expected candidates near stones")
	}
	seen := map[Move]bool{}
	for _, cand := range candidates {
		if seen[cand] {
			t.Fatalf("duplicate candidate (%d,%d)", cand.X, cand.Y)
		}
		seen[cand] = true
		if state.Board.At(cand.X, cand.Y) != CellEmpty {
			t.Fatalf("candidate (%d,%d) is occupied", cand.X, cand.Y)
		}
		d1 := chebDist(cand.X, cand.Y, 7, 7)
		d2 := chebDist(cand.X, cand.Y, 8, 8)
		if d1 > candidateRadius && d2 > candidateRadius {
			t.Fatalf("candidate (%d,%d) too far from every stone", cand.X, cand.Y)
		}
	}
}

func TestCandidatesOrderedByDistanceToLastMove(t *testing.T) {
	state := runningState(DefaultGameSettings())
	state.Board.Set(3, 3, CellBlack)
	state.Board.Set(11, 11, CellWhite)
	state.LastMove = Move{X: 11, Y: 11}
	state.HasLastMove = true

	candidates := collectCandidateMoves(state)
	prev := -1
	for _, cand := range candidates {
		d := manhattanDist(cand.X, cand.Y, 11, 11)
		if d < prev {
			t.Fatalf("candidates not sorted by distance to last move")
		}
		prev = d
	}
}

func TestDepthForCandidates(t *testing.T) {
	settings := scoreSettingsFromConfig(DefaultConfig())
	if got := depthForCandidates(21, settings); got != settings.DepthWide {
		t.Fatalf("expected wide depth %d for crowded frontier, got %d", settings.DepthWide, got)
	}
	if got := depthForCandidates(20, settings); got != settings.DepthNarrow {
		t.Fatalf("expected narrow depth %d, got %d", settings.DepthNarrow, got)
	}
}

func TestApplyMoveLeavesOriginalUntouched(t *testing.T) {
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	state.Board.Set(7, 7, CellBlack)
	state.ToMove = PlayerWhite
	state.recomputeHash()
	before := state.Clone()

	child := state.Clone()
	if !applyMove(&child, rules, Move{X: 8, Y: 7}, PlayerWhite) {
		t.Fatalf("expected legal move to apply")
	}
	if !state.Board.Equals(before.Board) {
		t.Fatalf("search mutation leaked into the original board")
	}
	if state.Hash != before.Hash || state.ToMove != before.ToMove {
		t.Fatalf("search mutation leaked into the original state")
	}
	if child.Board.At(8, 7) != CellWhite {
		t.Fatalf("expected stone on the child board")
	}
	if child.ToMove != PlayerBlack {
		t.Fatalf("expected turn to pass on the child")
	}
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	state.Board.Set(7, 7, CellBlack)
	state.ToMove = PlayerWhite

	child := state.Clone()
	if applyMove(&child, rules, Move{X: 7, Y: 7}, PlayerWhite) {
		t.Fatalf("occupied cell must be rejected")
	}
	if applyMove(&child, rules, Move{X: 5, Y: 5}, PlayerBlack) {
		t.Fatalf("out-of-turn move must be rejected")
	}
}

func TestSearchTakesImmediateWin(t *testing.T) {
	FlushSearchCaches()
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	placeRun(&state.Board, CellBlack, 5, 7, 1, 0, 4)
	state.Board.Set(5, 8, CellWhite)
	state.Board.Set(6, 8, CellWhite)
	state.Board.Set(7, 8, CellWhite)
	state.LastMove = Move{X: 7, Y: 8}
	state.HasLastMove = true
	state.recomputeHash()

	move, _, ok := SearchBestMove(context.Background(), state, rules, PlayerBlack, DefaultConfig())
	if !ok {
		t.Fatalf("expected a move")
	}
	winsLeft := move.Equals(Move{X: 4, Y: 7})
	winsRight := move.Equals(Move{X: 9, Y: 7})
	if !winsLeft && !winsRight {
		t.Fatalf("expected the winning extension, got (%d,%d)", move.X, move.Y)
	}
}

func TestSearchBlocksOpponentFour(t *testing.T) {
	FlushSearchCaches()
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	// White must answer black's four: OBBBB. with the open end at (9,7).
	state.Board.Set(4, 7, CellWhite)
	placeRun(&state.Board, CellBlack, 5, 7, 1, 0, 4)
	state.Board.Set(5, 9, CellWhite)
	state.ToMove = PlayerWhite
	state.LastMove = Move{X: 8, Y: 7}
	state.HasLastMove = true
	state.recomputeHash()

	move, _, ok := SearchBestMove(context.Background(), state, rules, PlayerWhite, DefaultConfig())
	if !ok {
		t.Fatalf("expected a move")
	}
	if !move.Equals(Move{X: 9, Y: 7}) {
		t.Fatalf("expected block at (9,7), got (%d,%d)", move.X, move.Y)
	}
}

func TestSearchBlocksOpenThree(t *testing.T) {
	FlushSearchCaches()
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	// Black has an open three .BBB.; left unanswered it becomes an open
	// four. White must take one of the two extension cells.
	placeRun(&state.Board, CellBlack, 6, 7, 1, 0, 3)
	state.Board.Set(3, 3, CellWhite)
	state.Board.Set(11, 11, CellWhite)
	state.ToMove = PlayerWhite
	state.LastMove = Move{X: 8, Y: 7}
	state.HasLastMove = true
	state.recomputeHash()

	move, _, ok := SearchBestMove(context.Background(), state, rules, PlayerWhite, DefaultConfig())
	if !ok {
		t.Fatalf("expected a move")
	}
	blocksLeft := move.Equals(Move{X: 5, Y: 7})
	blocksRight := move.Equals(Move{X: 9, Y: 7})
	if !blocksLeft && !blocksRight {
		t.Fatalf("expected a blocking move at (5,7) or (9,7), got (%d,%d)", move.X, move.Y)
	}
}

func TestSearchRespectsTinyBudget(t *testing.T) {
	FlushSearchCaches()
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	state.Board.Set(7, 7, CellBlack)
	state.ToMove = PlayerWhite
	state.LastMove = Move{X: 7, Y: 7}
	state.HasLastMove = true
	state.recomputeHash()

	config := DefaultConfig()
	config.AiTimeBudgetMs = 1
	started := time.Now()
	move, _, ok := SearchBestMove(context.Background(), state, rules, PlayerWhite, config)
	elapsed := time.Since(started)
	if !ok {
		t.Fatalf("expected a move even under a tiny budget")
	}
	if legal, _ := rules.IsLegal(state, move, PlayerWhite); !legal {
		t.Fatalf("expected a legal move, got (%d,%d)", move.X, move.Y)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("search ignored its deadline: %v", elapsed)
	}
}

func TestSearchIsDeterministicForSamePosition(t *testing.T) {
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := runningState(settings)
	state.Board.Set(7, 7, CellBlack)
	state.Board.Set(8, 7, CellWhite)
	state.Board.Set(7, 8, CellBlack)
	state.ToMove = PlayerWhite
	state.LastMove = Move{X: 7, Y: 8}
	state.HasLastMove = true
	state.recomputeHash()

	config := DefaultConfig()
	config.AiDepthNarrow = 2

	FlushSearchCaches()
	first, _, ok := SearchBestMove(context.Background(), state, rules, PlayerWhite, config)
	if !ok {
		t.Fatalf("expected a move")
	}
	FlushSearchCaches()
	second, _, ok := SearchBestMove(context.Background(), state, rules, PlayerWhite, config)
	if !ok {
		t.Fatalf("expected a move")
	}
	if !first.Equals(second) {
		t.Fatalf("expected identical moves, got (%d,%d) and (%d,%d)", first.X, first.Y, second.X, second.Y)
	}
}

func TestRandomLegalMoveOnlyPicksLegal(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 5
	rules := NewRules(settings)
	state := runningState(settings)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 2 && y == 3 {
				continue
			}
			state.Board.Set(x, y, CellBlack)
		}
	}
	move, ok := randomLegalMove(state, rules, state.ToMove)
	if !ok {
		t.Fatalf("expected the one remaining cell")
	}
	if !move.Equals(Move{X: 2, Y: 3}) {
		t.Fatalf("expected (2,3), got (%d,%d)", move.X, move.Y)
	}
}

func TestDampedScorePrefersFasterWin(t *testing.T) {
	slow := dampedScore(winScore, 1)
	fast := dampedScore(winScore, 3)
	if fast <= slow {
		t.Fatalf("expected shallower win to score higher: fast=%f slow=%f", fast, slow)
	}
	slowLoss := dampedScore(-winScore, 1)
	fastLoss := dampedScore(-winScore, 3)
	if fastLoss >= slowLoss {
		t.Fatalf("expected shallower loss to score lower: fast=%f slow=%f", fastLoss, slowLoss)
	}
	if dampedScore(42, 3) != 42 {
		t.Fatalf("ordinary scores must pass through untouched")
	}
}
