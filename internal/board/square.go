// Package board holds the bitboard position, the legal move generator and
// reversible move application.
package board

import "fmt"

// Square indexes the board 0..63, a1 = 0, h1 = 7, a8 = 56, h8 = 63.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8

	// NoSquare marks an absent square, such as "no en-passant target".
	NoSquare Square = 64
)

// NewSquare builds a square from a 0-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns 0 for the a-file through 7 for the h-file.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns 0 for the first rank through 7 for the eighth.
func (sq Square) Rank() int { return int(sq) >> 3 }

// The neighbour helpers below are raw offsets. They wrap across board
// edges; callers mask with files or ranks where that matters.

func (sq Square) North() Square     { return sq + 8 }
func (sq Square) South() Square     { return sq - 8 }
func (sq Square) East() Square      { return sq + 1 }
func (sq Square) West() Square      { return sq - 1 }
func (sq Square) NorthEast() Square { return sq + 9 }
func (sq Square) NorthWest() Square { return sq + 7 }
func (sq Square) SouthEast() Square { return sq - 7 }
func (sq Square) SouthWest() Square { return sq - 9 }

// Flip mirrors the square vertically (a1 <-> a8).
func (sq Square) Flip() Square { return sq ^ 56 }

// RelativeRank is the rank seen from c's side of the board.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// String returns algebraic notation ("e4"), or "-" for NoSquare.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}
