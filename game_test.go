package main

import (
	"testing"
	"time"
)

func humanVsHumanSettings() GameSettings {
	settings := DefaultGameSettings()
	settings.BlackType = PlayerHuman
	settings.WhiteType = PlayerHuman
	return settings
}

func TestGameRejectsMoveBeforeStart(t *testing.T) {
	game := NewGame(humanVsHumanSettings())
	if applied, reason := game.TryApplyMove(Move{X: 7, Y: 7}); applied || reason != "game not running" {
		t.Fatalf("expected rejection before start, got applied=%v reason=%q", applied, reason)
	}
}

func TestGameAlternatesTurns(t *testing.T) {
	game := NewGame(humanVsHumanSettings())
	game.Start()
	if applied, _ := game.TryApplyMove(Move{X: 7, Y: 7}); !applied {
		t.Fatalf("expected first move to apply")
	}
	state := game.State()
	if state.ToMove != PlayerWhite {
		t.Fatalf("expected white to move after black")
	}
	if state.Board.At(7, 7) != CellBlack {
		t.Fatalf("expected black stone at (7,7)")
	}
	if applied, _ := game.TryApplyMove(Move{X: 7, Y: 7}); applied {
		t.Fatalf("occupied cell must be rejected")
	}
	if game.History().Size() != 1 {
		t.Fatalf("rejected move must not enter history")
	}
}

func TestGameDetectsWinAndLocksOut(t *testing.T) {
	game := NewGame(humanVsHumanSettings())
	game.Start()
	// Black builds a horizontal five; white answers far away.
	for i := 0; i < 4; i++ {
		if applied, reason := game.TryApplyMove(Move{X: 3 + i, Y: 7}); !applied {
			t.Fatalf("black move %d rejected: %s", i, reason)
		}
		if applied, reason := game.TryApplyMove(Move{X: 3 + i, Y: 12}); !applied {
			t.Fatalf("white move %d rejected: %s", i, reason)
		}
	}
	if applied, _ := game.TryApplyMove(Move{X: 7, Y: 7}); !applied {
		t.Fatalf("winning move rejected")
	}
	state := game.State()
	if state.Status != StatusBlackWon {
		t.Fatalf("expected black win, got %v", state.Status)
	}
	if len(state.WinningLine) != 5 {
		t.Fatalf("expected winning line of 5, got %d", len(state.WinningLine))
	}
	if applied, _ := game.TryApplyMove(Move{X: 0, Y: 0}); applied {
		t.Fatalf("terminal position must reject further moves")
	}
}

func TestGameResetClearsEverything(t *testing.T) {
	game := NewGame(humanVsHumanSettings())
	game.Start()
	game.TryApplyMove(Move{X: 7, Y: 7})
	game.Reset(humanVsHumanSettings())

	state := game.State()
	if state.Status != StatusNotStarted {
		t.Fatalf("expected fresh status, got %v", state.Status)
	}
	if state.Board.CountStones() != 0 {
		t.Fatalf("expected empty board after reset")
	}
	if game.History().Size() != 0 {
		t.Fatalf("expected empty history after reset")
	}
	if state.HasLastMove {
		t.Fatalf("expected no last move after reset")
	}
}

func TestGameTickDrainsHumanPendingMove(t *testing.T) {
	game := NewGame(humanVsHumanSettings())
	game.Start()
	if !game.SubmitHumanMove(Move{X: 7, Y: 7}) {
		t.Fatalf("expected submission to be accepted")
	}
	if !game.Tick() {
		t.Fatalf("expected tick to apply the pending move")
	}
	if game.State().Board.At(7, 7) != CellBlack {
		t.Fatalf("expected stone after tick")
	}
	if game.Tick() {
		t.Fatalf("expected no move on the next tick")
	}
}

func TestGameTickPlaysAIMove(t *testing.T) {
	configStore.Update(func() Config {
		c := DefaultConfig()
		c.AiTimeBudgetMs = 200
		c.AiDepthNarrow = 1
		c.AiDepthWide = 1
		return c
	}())
	defer configStore.Update(DefaultConfig())

	settings := DefaultGameSettings()
	settings.BlackType = PlayerAI
	settings.WhiteType = PlayerHuman
	game := NewGame(settings)
	game.Start()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if game.Tick() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	state := game.State()
	if state.Board.CountStones() != 1 {
		t.Fatalf("expected one AI stone, got %d", state.Board.CountStones())
	}
	if state.Board.At(7, 7) != CellBlack {
		t.Fatalf("expected opening at center, got stone elsewhere")
	}
	if state.ToMove != PlayerWhite {
		t.Fatalf("expected white to move after AI opening")
	}
}

func TestGameStaleAIResultIsDiscarded(t *testing.T) {
	ai := NewAIPlayer(PlayerWhite)
	settings := DefaultGameSettings()
	rules := NewRules(settings)
	state := DefaultGameState(settings)
	state.Status = StatusRunning
	state.Board.Set(7, 7, CellBlack)
	state.ToMove = PlayerWhite
	state.recomputeHash()

	config := DefaultConfig()
	config.AiTimeBudgetMs = 100
	config.AiDepthNarrow = 1
	config.AiDepthWide = 1
	ai.StartThinking(state, rules, config)

	deadline := time.Now().Add(5 * time.Second)
	for !ai.HasMoveReady() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !ai.HasMoveReady() {
		t.Fatalf("search did not finish in time")
	}
	if _, _, ok := ai.TakeMove(state.Hash ^ 0x1); ok {
		t.Fatalf("move for a different position must be discarded")
	}
	if ai.HasMoveReady() {
		t.Fatalf("stale result must be consumed on rejection")
	}
}

func TestGameStopHaltsPlay(t *testing.T) {
	game := NewGame(humanVsHumanSettings())
	game.Start()
	game.TryApplyMove(Move{X: 7, Y: 7})
	game.Stop()
	if applied, _ := game.TryApplyMove(Move{X: 8, Y: 8}); applied {
		t.Fatalf("stopped game must reject moves")
	}
	if game.State().Status != StatusNotStarted {
		t.Fatalf("expected stopped status")
	}
}
