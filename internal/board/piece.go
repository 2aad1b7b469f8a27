package board

// Color is the side a piece belongs to, or the side to move.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is the kind of piece, Empty for none.
type PieceType uint8

const (
	Empty PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceTypeCount sizes arrays indexed by PieceType, Empty included.
const PieceTypeCount = 7

var pieceTypeNames = [PieceTypeCount]string{"empty", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (pt PieceType) String() string {
	if pt >= PieceTypeCount {
		return "invalid"
	}
	return pieceTypeNames[pt]
}

// Char returns the lowercase FEN letter for pt, or '.' for Empty.
func (pt PieceType) Char() byte {
	return ".pnbrqk"[pt]
}

// Piece packs a color and a piece type: color<<3 | type.
// The zero value is an empty square.
type Piece uint8

// NoPiece is what PieceAt reports for an unoccupied square.
const NoPiece Piece = 0

// NewPiece combines a piece type and a color.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece(c)<<3 | Piece(pt)
}

// Type returns the piece type.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the piece color. Empty squares report White.
func (p Piece) Color() Color { return Color(p >> 3) }

// IsEmpty reports whether p stands for an unoccupied square.
func (p Piece) IsEmpty() bool { return p.Type() == Empty }

// String returns the FEN letter: uppercase for White, lowercase for Black.
func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	ch := p.Type().Char()
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN letter to a Piece. Unknown letters give NoPiece.
func PieceFromChar(ch byte) Piece {
	c := White
	if ch >= 'a' && ch <= 'z' {
		c = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return NewPiece(Pawn, c)
	case 'N':
		return NewPiece(Knight, c)
	case 'B':
		return NewPiece(Bishop, c)
	case 'R':
		return NewPiece(Rook, c)
	case 'Q':
		return NewPiece(Queen, c)
	case 'K':
		return NewPiece(King, c)
	}
	return NoPiece
}
