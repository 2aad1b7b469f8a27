package board

// Move packs a move into 16 bits:
//
//	bits 0-5:   origin square
//	bits 6-11:  target square
//	bits 12-15: MoveKind
//
// Two moves are equal exactly when their bits are equal.
type Move uint16

// MoveKind tags what a move does besides relocating a piece.
// Bit 2 of the kind marks captures, bit 3 marks promotions.
type MoveKind uint8

const (
	Quiet       MoveKind = 0
	DoublePush  MoveKind = 1
	CastleKing  MoveKind = 2
	CastleQueen MoveKind = 3
	Capture     MoveKind = 4
	EnPassant   MoveKind = 5

	PromoKnight MoveKind = 8
	PromoBishop MoveKind = 9
	PromoRook   MoveKind = 10
	PromoQueen  MoveKind = 11

	PromoCaptureKnight MoveKind = 12
	PromoCaptureBishop MoveKind = 13
	PromoCaptureRook   MoveKind = 14
	PromoCaptureQueen  MoveKind = 15
)

const (
	captureFlag   MoveKind = 4
	promotionFlag MoveKind = 8
)

// NoMove is the null sentinel. It never appears in a generated move list.
const NoMove Move = 0

// NewMove builds a move from its parts.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(from) | Move(to)<<6 | Move(kind)<<12
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the target square.
func (m Move) To() Square { return Square(m >> 6 & 0x3F) }

// Kind returns the move tag.
func (m Move) Kind() MoveKind { return MoveKind(m >> 12) }

// IsCapture reports whether the move removes an enemy piece, en passant included.
func (m Move) IsCapture() bool { return m.Kind()&captureFlag != 0 }

// IsPromotion reports whether a pawn is replaced on the last rank.
func (m Move) IsPromotion() bool { return m.Kind()&promotionFlag != 0 }

// IsCastle reports whether the move is a castling king move.
func (m Move) IsCastle() bool {
	k := m.Kind()
	return k == CastleKing || k == CastleQueen
}

// Promotion returns the piece a pawn promotes to, or Empty.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return Empty
	}
	return Knight + PieceType(m.Kind()&3)
}

// promotionKind returns the kind for promoting to pt, with or without capture.
func promotionKind(pt PieceType, capture bool) MoveKind {
	k := promotionFlag | MoveKind(pt-Knight)
	if capture {
		k |= captureFlag
	}
	return k
}

// String returns UCI move text ("e2e4", "e7e8q"), "0000" for NoMove.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// MaxMoves bounds the number of legal moves in any position.
const MaxMoves = 256

// MoveList is a fixed-capacity list that never allocates.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the i-th move.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Swap exchanges two entries.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() { ml.count = 0 }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves[:ml.count] {
		if x == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
