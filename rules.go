package main

import "fmt"

type Rules struct {
	settings GameSettings
}

func NewRules(settings GameSettings) Rules {
	return Rules{settings: settings}
}

func (r Rules) IsLegal(state GameState, move Move, player PlayerColor) (bool, string) {
	if !move.IsValid(r.settings.BoardSize) {
		return false, "out of bounds"
	}
	if player != state.ToMove {
		return false, "not your turn"
	}
	if !state.Board.IsEmpty(move.X, move.Y) {
		return false, "occupied"
	}
	return true, ""
}

func (r Rules) IsLegalDefault(state GameState, move Move) (bool, string) {
	return r.IsLegal(state, move, state.ToMove)
}

// IsWin scans the four axis directions from the last move only; the rest of
// the board cannot have changed since the previous check.
func (r Rules) IsWin(board Board, lastMove Move) bool {
	if !lastMove.IsValid(r.settings.BoardSize) {
		return false
	}
	if board.At(lastMove.X, lastMove.Y) == CellEmpty {
		return false
	}
	directions := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for i := 0; i < 4; i++ {
		dx := directions[i][0]
		dy := directions[i][1]
		count := 1
		count += r.countDirection(board, lastMove, dx, dy)
		count += r.countDirection(board, lastMove, -dx, -dy)
		if count >= r.settings.WinLength {
			return true
		}
	}
	return false
}

func (r Rules) IsDraw(board Board) bool {
	return board.CountEmpty() == 0
}

// FindAlignmentLine returns the coordinates of the winning run through
// lastMove, for highlighting.
func (r Rules) FindAlignmentLine(board Board, lastMove Move) ([]Move, bool) {
	line := []Move{}
	if !lastMove.IsValid(r.settings.BoardSize) {
		return line, false
	}
	if board.At(lastMove.X, lastMove.Y) == CellEmpty {
		return line, false
	}
	directions := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for i := 0; i < 4; i++ {
		dx := directions[i][0]
		dy := directions[i][1]
		line = r.collectLine(board, lastMove, dx, dy)
		if len(line) >= r.settings.WinLength {
			return line, true
		}
	}
	return []Move{}, false
}

func (r Rules) WinLength() int {
	return r.settings.WinLength
}

func (r Rules) BoardSize() int {
	return r.settings.BoardSize
}

func (r Rules) countDirection(board Board, start Move, dx, dy int) int {
	target := board.At(start.X, start.Y)
	x := start.X + dx
	y := start.Y + dy
	count := 0
	for board.InBounds(x, y) && board.At(x, y) == target {
		count++
		x += dx
		y += dy
	}
	return count
}

func (r Rules) collectLine(board Board, start Move, dx, dy int) []Move {
	line := []Move{}
	target := board.At(start.X, start.Y)
	x := start.X
	y := start.Y
	for board.InBounds(x-dx, y-dy) && board.At(x-dx, y-dy) == target {
		x -= dx
		y -= dy
	}
	for board.InBounds(x, y) && board.At(x, y) == target {
		line = append(line, Move{X: x, Y: y})
		x += dx
		y += dy
	}
	return line
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{board=%d, win=%d}", r.settings.BoardSize, r.settings.WinLength)
}
