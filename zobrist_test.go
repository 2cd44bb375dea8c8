package main

import "testing"

func TestHashIncludesSideToMove(t *testing.T) {
	settings := DefaultGameSettings()
	state := DefaultGameState(settings)
	state.Board.Set(0, 0, CellBlack)
	state.recomputeHash()

	flipped := state.Clone()
	flipped.ToMove = otherPlayer(flipped.ToMove)
	flipped.recomputeHash()
	if state.Hash == flipped.Hash {
		t.Fatalf("expected hash to differ for different side to move")
	}
}

func TestHashDiffersPerStoneColor(t *testing.T) {
	settings := DefaultGameSettings()
	black := DefaultGameState(settings)
	black.Board.Set(3, 3, CellBlack)
	black.recomputeHash()

	white := DefaultGameState(settings)
	white.Board.Set(3, 3, CellWhite)
	white.recomputeHash()
	if black.Hash == white.Hash {
		t.Fatalf("expected hash to depend on stone color")
	}
}

func TestIncrementalHashMatchesFullRecompute(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 9
	rules := NewRules(settings)
	state := DefaultGameState(settings)
	state.Status = StatusRunning

	moves := []Move{{X: 4, Y: 4}, {X: 5, Y: 4}, {X: 4, Y: 5}, {X: 5, Y: 5}, {X: 3, Y: 3}}
	for _, move := range moves {
		player := state.ToMove
		if !applyMove(&state, rules, move, player) {
			t.Fatalf("expected move (%d,%d) to apply", move.X, move.Y)
		}
		if state.Hash != ComputeHash(state) {
			t.Fatalf("incremental hash diverged after (%d,%d)", move.X, move.Y)
		}
	}
}

func TestZobristTablesAreStablePerSize(t *testing.T) {
	a := GetZobrist(15)
	b := GetZobrist(15)
	if a != b {
		t.Fatalf("expected cached table to be reused")
	}
	c := GetZobrist(9)
	if a == c {
		t.Fatalf("expected distinct tables per board size")
	}
}
