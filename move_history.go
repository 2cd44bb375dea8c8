package main

type HistoryEntry struct {
	Move      Move        `json:"move"`
	Player    PlayerColor `json:"player"`
	ElapsedMs float64     `json:"elapsed_ms"`
	IsAi      bool        `json:"is_ai"`
	Depth     int         `json:"depth"`
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = h.entries[:0]
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}
