package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unsafe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Status          string            `json:"status"`
	AiThinking      bool              `json:"ai_thinking"`
	History         []historyEntryDTO `json:"history"`
	LastMove        *Move             `json:"last_move,omitempty"`
	WinningLine     []Move            `json:"winning_line"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
}

type apiMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Depth     int     `json:"depth"`
}

type ttCacheStatusResponse struct {
	Count         int     `json:"count"`
	Capacity      int     `json:"capacity"`
	Usage         float64 `json:"usage"`
	Full          bool    `json:"full"`
	EntryBytes    uint64  `json:"entry_bytes"`
	UsedBytes     uint64  `json:"used_bytes"`
	CapacityBytes uint64  `json:"capacity_bytes"`
}

func main() {
	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if controller.Tick() && hub.HasClients() {
					if entry, ok := controller.LatestHistoryEntry(); ok {
						hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
					}
					hub.broadcastStatus <- controllerStatus(controller)
				}
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		controller.StopGame()
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastStatus <- controllerStatus(controller)
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
			controller.ResetForConfigChange()
		}
		if payload.Settings != nil {
			settings := settingsFromDTO(*payload.Settings, controller.Settings())
			controller.UpdateSettings(settings, false)
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(Move{X: payload.X, Y: payload.Y})
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ttCacheStatus())
	})
	r.Delete("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		FlushSearchCaches()
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := newClient(hub)
	hub.Register(client)

	status := controllerStatus(controller)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			status := controllerStatus(controller)
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	var lastMove *Move
	if state.HasLastMove {
		last := state.LastMove
		lastMove = &last
	}
	return StatusResponse{
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		BoardSize:       state.Board.Size(),
		Status:          state.Status.String(),
		AiThinking:      controller.AiThinking(),
		History:         historyToDTO(controller.History()),
		LastMove:        lastMove,
		WinningLine:     append([]Move(nil), state.WinningLine...),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func resetFromController(controller *GameController) resetPayload {
	settings := controller.Settings()
	return resetPayload{
		BoardSize: settings.BoardSize,
		WinLength: settings.WinLength,
		Black:     playerTypeName(settings.BlackType),
		White:     playerTypeName(settings.WhiteType),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	case "human_vs_human":
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case "remote_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerRemote
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerRemote
		}
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerAI
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerAI
		}
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.BlackType == PlayerAI && settings.WhiteType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman {
		mode = "human_vs_human"
	} else if settings.BlackType == PlayerRemote || settings.WhiteType == PlayerRemote {
		mode = "remote_vs_human"
	}
	humanPlayer := 0
	if settings.BlackType == PlayerHuman {
		humanPlayer = 1
	} else if settings.WhiteType == PlayerHuman {
		humanPlayer = 2
	}
	return GameSettingsDTO{Mode: mode, HumanPlayer: humanPlayer}
}

func boardToSlice(board Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for y := 0; y < size; y++ {
		rows[y] = make([]int, size)
		for x := 0; x < size; x++ {
			rows[y][x] = cellToInt(board.At(x, y))
		}
	}
	return rows
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerBlack {
		return 1
	}
	return 2
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Depth:     entry.Depth,
	}
}

func ttCacheStatus() ttCacheStatusResponse {
	tt := ensureSharedTT(GetConfig())
	count := tt.Count()
	capacity := tt.Capacity()
	entryBytes := uint64(unsafe.Sizeof(TTEntry{}))
	usage := 0.0
	full := false
	if capacity > 0 {
		usage = float64(count) / float64(capacity)
		full = count >= capacity
	}
	return ttCacheStatusResponse{
		Count:         count,
		Capacity:      capacity,
		Usage:         usage,
		Full:          full,
		EntryBytes:    entryBytes,
		UsedBytes:     uint64(count) * entryBytes,
		CapacityBytes: uint64(capacity) * entryBytes,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[backend] failed to encode response: %v", err)
	}
}
