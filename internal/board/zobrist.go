package board

// Zobrist keys. The Empty row of pieceKeys stays zero so that XOR-ing an
// empty square is a no-op.
var (
	pieceKeys     [2][PieceTypeCount][64]uint64
	enPassantKeys [8]uint64
	castlingKeys  [16]uint64
	blackToMove   uint64
)

// xorshift64*, fixed seed so hashes are reproducible across runs
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func init() {
	rng := prng{state: 6960111479}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				pieceKeys[c][pt][sq] = rng.next()
			}
		}
	}
	for f := range enPassantKeys {
		enPassantKeys[f] = rng.next()
	}
	for i := range castlingKeys {
		castlingKeys[i] = rng.next()
	}
	blackToMove = rng.next()
}

// ComputeHash recomputes the Zobrist key of p from scratch.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	occ := p.Occupied
	for occ != 0 {
		sq := occ.PopLSB()
		pc := p.pieceAt[sq]
		h ^= pieceKeys[pc.Color()][pc.Type()][sq]
	}
	if p.SideToMove == Black {
		h ^= blackToMove
	}
	h ^= castlingKeys[p.State.Castling]
	if p.State.EnPassant != NoSquare {
		h ^= enPassantKeys[p.State.EnPassant.File()]
	}
	return h
}
