package main

import (
	"log"
	"time"
)

type Game struct {
	settings    GameSettings
	rules       Rules
	state       GameState
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopSeatWork()
	g.settings = settings
	g.rules = NewRules(settings)
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	FlushSearchCaches()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

// Stop abandons a running game. The board keeps its stones but no further
// moves are accepted until the next reset.
func (g *Game) Stop() {
	g.stopSeatWork()
	if g.state.Status == StatusRunning {
		g.state.Status = StatusNotStarted
		g.state.LastMessage = "game stopped"
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays a stone for the side to move. Terminal positions
// reject everything; the board is only mutated after the move passes the
// legality checks.
func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	prevToMove := g.state.ToMove
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	ok, reason := g.rules.IsLegalDefault(g.state, move)
	if !ok {
		g.state.LastMessage = "Illegal move: " + reason
		return false, g.state.LastMessage
	}
	g.state.LastMessage = ""
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	cell := CellFromPlayer(g.state.ToMove)
	g.state.Board.Set(move.X, move.Y, cell)
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.WinningLine = nil

	entry := HistoryEntry{Move: move, Player: g.state.ToMove, ElapsedMs: elapsedMs, IsAi: isAiMove, Depth: move.Depth}
	g.history.Push(entry)
	g.logMovePlayed(move, elapsedMs, isAiMove)

	if g.rules.IsWin(g.state.Board, move) {
		if line, found := g.rules.FindAlignmentLine(g.state.Board, move); found {
			g.state.WinningLine = line
		}
		g.logWin(g.state.ToMove)
		if g.state.ToMove == PlayerBlack {
			g.state.Status = StatusBlackWon
		} else {
			g.state.Status = StatusWhiteWon
		}
		UpdateHashAfterMove(&g.state, move, prevToMove, prevToMove)
		return true, ""
	}
	if g.rules.IsDraw(g.state.Board) {
		g.state.Status = StatusDraw
		UpdateHashAfterMove(&g.state, move, prevToMove, prevToMove)
		return true, ""
	}

	g.state.ToMove = otherPlayer(g.state.ToMove)
	UpdateHashAfterMove(&g.state, move, prevToMove, prevToMove)
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances the game by at most one move. Human seats drain their
// pending buffer; machine seats hand over a finished result or are started
// thinking. Returns whether a move was applied.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if !ok {
			return false
		}
		if move, pending := human.TakePendingMove(); pending {
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		return false
	}
	switch seat := player.(type) {
	case *AIPlayer:
		if seat.HasMoveReady() {
			if move, stats, ok := seat.TakeMove(g.state.Hash); ok {
				move.Depth = stats.Depth
				applied, _ := g.TryApplyMove(move)
				return applied
			}
		}
		if !seat.IsThinking() {
			seat.StartThinking(g.state.Clone(), g.rules, GetConfig())
		}
	case *SourcePlayer:
		if seat.HasMoveReady() {
			if move, ok := seat.TakeMove(g.state.Hash); ok {
				applied, _ := g.TryApplyMove(move)
				return applied
			}
		}
		if !seat.IsThinking() {
			seat.StartThinking(g.state.Clone(), g.rules)
		}
	}
	return false
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SubmitMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	switch seat := g.currentPlayer().(type) {
	case *AIPlayer:
		return seat.IsThinking()
	case *SourcePlayer:
		return seat.IsThinking()
	}
	return false
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	g.blackPlayer = g.createPlayer(PlayerBlack, g.settings.BlackType)
	g.whitePlayer = g.createPlayer(PlayerWhite, g.settings.WhiteType)
}

func (g *Game) createPlayer(color PlayerColor, kind PlayerType) IPlayer {
	switch kind {
	case PlayerHuman:
		return NewHumanPlayer(color)
	case PlayerRemote:
		config := GetConfig()
		remote := NewRemoteMoveSource(config.RemoteMoveURL, time.Duration(config.RemoteTimeoutMs)*time.Millisecond)
		chain := NewChainedMoveSource(remote, NewLocalSearchSource(GetConfig), RandomMoveSource{})
		return NewSourcePlayer(color, chain)
	default:
		return NewAIPlayer(color)
	}
}

func (g *Game) stopSeatWork() {
	for _, player := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		switch seat := player.(type) {
		case *AIPlayer:
			seat.StopThinking()
		case *SourcePlayer:
			seat.StopThinking()
		case *HumanPlayer:
			seat.ClearPending()
		}
	}
}

// ResetForConfigChange drops in-flight searches and cached search data so
// new settings take effect from the next move.
func (g *Game) ResetForConfigChange() {
	g.stopSeatWork()
	FlushSearchCaches()
}

func (g *Game) logMatchup() {
	log.Printf("game: new %dx%d board, black=%s white=%s",
		g.settings.BoardSize, g.settings.BoardSize,
		playerTypeName(g.settings.BlackType), playerTypeName(g.settings.WhiteType))
}

func (g *Game) logMovePlayed(move Move, elapsedMs float64, isAiMove bool) {
	mover := "human"
	if isAiMove {
		mover = "ai"
	}
	log.Printf("game: %s %s plays (%d,%d) after %.0fms", g.state.ToMove, mover, move.X, move.Y, elapsedMs)
}

func (g *Game) logWin(player PlayerColor) {
	log.Printf("game: %s wins by alignment", player)
}

func playerTypeName(kind PlayerType) string {
	switch kind {
	case PlayerHuman:
		return "human"
	case PlayerRemote:
		return "remote"
	default:
		return "ai"
	}
}
