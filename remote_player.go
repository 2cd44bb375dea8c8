package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type remoteMoveRequest struct {
	BoardSize int      `json:"board_size"`
	Board     []string `json:"board"`
	ToMove    string   `json:"to_move"`
	LastMove  *Move    `json:"last_move,omitempty"`
}

type remoteMoveResponse struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	NoMove bool   `json:"no_move,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RemoteMoveSource asks an external inference endpoint for a move. Any
// transport error, non-200 status, malformed body or illegal cell makes
// Propose report no move; the caller's source chain handles the fallback.
type RemoteMoveSource struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewRemoteMoveSource(url string, timeout time.Duration) *RemoteMoveSource {
	return &RemoteMoveSource{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *RemoteMoveSource) Propose(ctx context.Context, state GameState, rules Rules) (Move, bool) {
	if s.url == "" {
		return Move{}, false
	}
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload := remoteMoveRequest{
		BoardSize: state.Board.Size(),
		Board:     encodeBoardRows(state.Board),
		ToMove:    state.ToMove.String(),
	}
	if state.HasLastMove {
		last := state.LastMove
		payload.LastMove = &last
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Move{}, false
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Move{}, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Move{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Move{}, false
	}

	var decoded remoteMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Move{}, false
	}
	if decoded.NoMove || decoded.Error != "" {
		return Move{}, false
	}
	move := NewMove(decoded.X, decoded.Y)
	if ok, _ := rules.IsLegal(state, move, state.ToMove); !ok {
		return Move{}, false
	}
	return move, true
}

func encodeBoardRows(board Board) []string {
	size := board.Size()
	rows := make([]string, size)
	buf := make([]byte, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch board.At(x, y) {
			case CellBlack:
				buf[x] = 'B'
			case CellWhite:
				buf[x] = 'W'
			default:
				buf[x] = '.'
			}
		}
		rows[y] = string(buf)
	}
	return rows
}

// LocalSearchSource runs the in-process alpha-beta search.
type LocalSearchSource struct {
	config func() Config
}

func NewLocalSearchSource(config func() Config) *LocalSearchSource {
	return &LocalSearchSource{config: config}
}

func (s *LocalSearchSource) Propose(ctx context.Context, state GameState, rules Rules) (Move, bool) {
	move, _, ok := SearchBestMove(ctx, state, rules, state.ToMove, s.config())
	return move, ok
}

// RandomMoveSource plays any legal cell. Terminal link of the chain.
type RandomMoveSource struct{}

func (RandomMoveSource) Propose(_ context.Context, state GameState, rules Rules) (Move, bool) {
	return randomLegalMove(state, rules, state.ToMove)
}

// ChainedMoveSource tries each source in order and returns the first
// proposal.
type ChainedMoveSource struct {
	sources []MoveSource
}

func NewChainedMoveSource(sources ...MoveSource) *ChainedMoveSource {
	return &ChainedMoveSource{sources: sources}
}

func (c *ChainedMoveSource) Propose(ctx context.Context, state GameState, rules Rules) (Move, bool) {
	if len(c.sources) == 0 {
		return Move{}, false
	}
	for _, source := range c.sources {
		if move, ok := source.Propose(ctx, state, rules); ok {
			return move, ok
		}
	}
	return Move{}, false
}

// SourcePlayer is a seat backed by a MoveSource chain, typically remote
// inference with the local search and a random cell as fallbacks. Like
// AIPlayer it works on a goroutine and tags results with the position hash.
type SourcePlayer struct {
	color  PlayerColor
	source MoveSource

	thinking  atomic.Bool
	moveReady atomic.Bool

	mu            sync.Mutex
	readyMove     Move
	searchedHash  uint64
	cancelCurrent context.CancelFunc
}

func NewSourcePlayer(color PlayerColor, source MoveSource) *SourcePlayer {
	return &SourcePlayer{color: color, source: source}
}

func (p *SourcePlayer) IsHuman() bool      { return false }
func (p *SourcePlayer) Color() PlayerColor { return p.color }

func (p *SourcePlayer) IsThinking() bool   { return p.thinking.Load() }
func (p *SourcePlayer) HasMoveReady() bool { return p.moveReady.Load() }

func (p *SourcePlayer) StartThinking(state GameState, rules Rules) {
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
		move, ok := p.source.Propose(ctx, snapshot, rules)
		if !ok {
			return
		}
		p.mu.Lock()
		p.readyMove = move
		p.searchedHash = snapshot.Hash
		p.mu.Unlock()
		p.moveReady.Store(true)
	}()
}

func (p *SourcePlayer) TakeMove(currentHash uint64) (Move, bool) {
	if !p.moveReady.CompareAndSwap(true, false) {
		return Move{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.searchedHash != currentHash {
		return Move{}, false
	}
	return p.readyMove, true
}

func (p *SourcePlayer) StopThinking() {
	p.mu.Lock()
	cancel := p.cancelCurrent
	p.cancelCurrent = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.moveReady.Store(false)
}
