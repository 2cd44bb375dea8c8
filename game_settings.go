package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
	PlayerRemote
)

type GameSettings struct {
	BoardSize   int        `json:"board_size"`
	WinLength   int        `json:"win_length"`
	BlackType   PlayerType `json:"-"`
	WhiteType   PlayerType `json:"-"`
	BlackStarts bool       `json:"black_starts"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:   15,
		WinLength:   5,
		BlackType:   PlayerHuman,
		WhiteType:   PlayerAI,
		BlackStarts: true,
	}
}
