package main

import "testing"

func TestBoardSetAndAt(t *testing.T) {
	board := NewBoard(15)
	if board.At(7, 7) != CellEmpty {
		t.Fatalf("expected fresh board to be empty")
	}
	board.Set(7, 7, CellBlack)
	if board.At(7, 7) != CellBlack {
		t.Fatalf("expected black stone at (7,7)")
	}
	if board.CountStones() != 1 {
		t.Fatalf("expected one stone, got %d", board.CountStones())
	}
	if board.CountEmpty() != 15*15-1 {
		t.Fatalf("expected %d empty cells, got %d", 15*15-1, board.CountEmpty())
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellWhite)
	clone := board.Clone()
	clone.Set(0, 0, CellBlack)
	if board.At(0, 0) != CellEmpty {
		t.Fatalf("clone mutation leaked into original")
	}
	if !board.Equals(board.Clone()) {
		t.Fatalf("expected clone to equal original")
	}
	if board.Equals(clone) {
		t.Fatalf("expected diverged clone to differ")
	}
}

func TestBoardInBounds(t *testing.T) {
	board := NewBoard(15)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{14, 14, true},
		{-1, 0, false},
		{0, -1, false},
		{15, 0, false},
		{0, 15, false},
	}
	for _, c := range cases {
		if got := board.InBounds(c.x, c.y); got != c.want {
			t.Fatalf("InBounds(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}
