package board

// direction is one of the eight compass rays. Odd values are diagonals.
type direction uint8

const (
	dirNorth direction = iota
	dirNorthEast
	dirEast
	dirSouthEast
	dirSouth
	dirSouthWest
	dirWest
	dirNorthWest
	noDirection
)

// (file, rank) step per direction
var dirDelta = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

func (d direction) diagonal() bool { return d&1 == 1 }

// increasing reports whether squares along d have growing indices, which
// decides whether the nearest blocker is the lowest or the highest bit.
func (d direction) increasing() bool {
	df, dr := dirDelta[d][0], dirDelta[d][1]
	return dr > 0 || (dr == 0 && df > 0)
}

func (d direction) opposite() direction { return (d + 4) & 7 }

// Precomputed step and ray tables, filled once at package init.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	rays        [64][8]Bitboard        // every square from sq toward the edge, sq excluded
	directionOf [64][64]direction      // direction from a to b, noDirection if unaligned
	betweenBB   [64][64]Bitboard       // squares strictly between two aligned squares
	lineBB      [64][64]Bitboard       // the full board line through two aligned squares
	increasing  [8]bool
)

func init() {
	for d := dirNorth; d < noDirection; d++ {
		increasing[d] = d.increasing()
	}
	for sq := A1; sq <= H8; sq++ {
		initSteps(sq)
		initRays(sq)
	}
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			initAlignment(a, b)
		}
	}
}

func initSteps(sq Square) {
	bb := SquareBB(sq)
	kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
		bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

	pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
	pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()

	f, r := sq.File(), sq.Rank()
	for _, j := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
		if onBoard(f+j[0], r+j[1]) {
			knightAttacks[sq] |= SquareBB(NewSquare(f+j[0], r+j[1]))
		}
	}
}

func initRays(sq Square) {
	for d := dirNorth; d < noDirection; d++ {
		f, r := sq.File()+dirDelta[d][0], sq.Rank()+dirDelta[d][1]
		for onBoard(f, r) {
			rays[sq][d] |= SquareBB(NewSquare(f, r))
			f += dirDelta[d][0]
			r += dirDelta[d][1]
		}
	}
}

func initAlignment(a, b Square) {
	directionOf[a][b] = noDirection
	if a == b {
		return
	}
	for d := dirNorth; d < noDirection; d++ {
		if rays[a][d].IsSet(b) {
			directionOf[a][b] = d
			betweenBB[a][b] = rays[a][d] &^ rays[b][d] &^ SquareBB(b)
			lineBB[a][b] = rays[a][d] | rays[a][d.opposite()] | SquareBB(a)
			return
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// rayPieceSteps returns the squares from sq along d up to and including the
// first occupied square.
func rayPieceSteps(sq Square, d direction, occ Bitboard) Bitboard {
	ray := rays[sq][d]
	if blockers := ray & occ; blockers != 0 {
		var first Square
		if increasing[d] {
			first = blockers.LSB()
		} else {
			first = blockers.MSB()
		}
		ray ^= rays[first][d]
	}
	return ray
}

// firstOnRay returns the nearest occupied square from sq along d, or NoSquare.
func firstOnRay(sq Square, d direction, occ Bitboard) Square {
	blockers := rays[sq][d] & occ
	if increasing[d] {
		return blockers.LSB()
	}
	return blockers.MSB()
}

// KnightAttacks returns the knight step set from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king step set from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a c pawn on sq captures on.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

// BishopAttacks returns diagonal attacks from sq given the occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return rayPieceSteps(sq, dirNorthEast, occ) | rayPieceSteps(sq, dirSouthEast, occ) |
		rayPieceSteps(sq, dirSouthWest, occ) | rayPieceSteps(sq, dirNorthWest, occ)
}

// RookAttacks returns orthogonal attacks from sq given the occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return rayPieceSteps(sq, dirNorth, occ) | rayPieceSteps(sq, dirEast, occ) |
		rayPieceSteps(sq, dirSouth, occ) | rayPieceSteps(sq, dirWest, occ)
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// Between returns the squares strictly between a and b when they share a
// line, and an empty set otherwise.
func Between(a, b Square) Bitboard { return betweenBB[a][b] }

// Line returns the whole board line through a and b, or an empty set.
func Line(a, b Square) Bitboard { return lineBB[a][b] }
