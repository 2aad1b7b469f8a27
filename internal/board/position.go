package board

import (
	"fmt"
	"strings"
)

// CastlingRights holds the four castling permissions as bit flags.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// castlingMask[sq] is AND-ed into the rights whenever a move starts from or
// lands on sq; king and rook home squares drop the matching rights.
var castlingMask [64]CastlingRights

func init() {
	for sq := range castlingMask {
		castlingMask[sq] = AllCastling
	}
	castlingMask[E1] &^= WhiteKingSide | WhiteQueenSide
	castlingMask[H1] &^= WhiteKingSide
	castlingMask[A1] &^= WhiteQueenSide
	castlingMask[E8] &^= BlackKingSide | BlackQueenSide
	castlingMask[H8] &^= BlackKingSide
	castlingMask[A8] &^= BlackQueenSide
}

// DebugChecks turns precondition violations in piece placement into panics.
// It is meant for tests and the -debug flag; leave it alone while a search
// is running.
var DebugChecks bool

// State is the part of a position that cannot be recomputed when a move is
// taken back. It is pushed on every applied move.
type State struct {
	Castling      CastlingRights
	EnPassant     Square
	HalfMoveClock int
	Hash          uint64
}

// Position is a chess position in bitboard form.
type Position struct {
	Pieces   [2][PieceTypeCount]Bitboard
	Colored  [2]Bitboard
	Occupied Bitboard

	SideToMove     Color
	State          State
	FullMoveNumber int

	// Pinned caches the absolutely pinned pieces of the side to move. It is
	// refreshed by move generation and is not part of the position identity.
	Pinned Bitboard

	pieceAt [64]Piece
}

func newEmptyPosition() Position {
	return Position{
		State:          State{EnPassant: NoSquare, Hash: castlingKeys[NoCastling]},
		FullMoveNumber: 1,
	}
}

// PieceAt returns the piece on sq, NoPiece when the square is empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.pieceAt[sq]
}

// Hash returns the Zobrist key of the position.
func (p *Position) Hash() uint64 { return p.State.Hash }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// setPiece places pc on the empty square sq and folds it into the hash.
func (p *Position) setPiece(pc Piece, sq Square) {
	if DebugChecks && (pc.IsEmpty() || p.Occupied.IsSet(sq)) {
		panic(fmt.Sprintf("board: setPiece %v on %v, square holds %v", pc, sq, p.pieceAt[sq]))
	}
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Colored[c] |= bb
	p.Occupied |= bb
	p.pieceAt[sq] = pc
	p.State.Hash ^= pieceKeys[c][pt][sq]
}

// removePiece lifts the piece off the occupied square sq and returns it.
func (p *Position) removePiece(sq Square) Piece {
	pc := p.pieceAt[sq]
	if DebugChecks && pc.IsEmpty() {
		panic(fmt.Sprintf("board: removePiece on empty square %v", sq))
	}
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Colored[c] &^= bb
	p.Occupied &^= bb
	p.pieceAt[sq] = NoPiece
	p.State.Hash ^= pieceKeys[c][pt][sq]
	return pc
}

func (p *Position) movePiece(from, to Square) {
	p.setPiece(p.removePiece(from), to)
}

func (p *Position) setEnPassant(sq Square) {
	if p.State.EnPassant != NoSquare {
		p.State.Hash ^= enPassantKeys[p.State.EnPassant.File()]
	}
	p.State.EnPassant = sq
	if sq != NoSquare {
		p.State.Hash ^= enPassantKeys[sq.File()]
	}
}

func (p *Position) setCastling(cr CastlingRights) {
	if cr == p.State.Castling {
		return
	}
	p.State.Hash ^= castlingKeys[p.State.Castling] ^ castlingKeys[cr]
	p.State.Castling = cr
}

func (p *Position) flipSide() {
	p.SideToMove = p.SideToMove.Other()
	p.State.Hash ^= blackToMove
}

// AttackersOf returns the pieces of color by that attack sq.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	return p.attackersWith(sq, by, p.Occupied)
}

// attackersWith is AttackersOf against an arbitrary occupancy, used to look
// through a king that is about to step off a checking line.
func (p *Position) attackersWith(sq Square, by Color, occ Bitboard) Bitboard {
	them := &p.Pieces[by]
	attackers := pawnAttacks[by.Other()][sq]&them[Pawn] |
		knightAttacks[sq]&them[Knight] |
		kingAttacks[sq]&them[King]

	diagonal := them[Bishop] | them[Queen]
	orthogonal := them[Rook] | them[Queen]
	for d := dirNorth; d < noDirection; d++ {
		sliders := orthogonal
		if d.diagonal() {
			sliders = diagonal
		}
		if rays[sq][d]&sliders == 0 {
			continue
		}
		attackers |= rayPieceSteps(sq, d, occ) & sliders
	}
	return attackers
}

// IsAttackedBy reports whether any piece of color by attacks sq.
func (p *Position) IsAttackedBy(sq Square, by Color) bool {
	return p.AttackersOf(sq, by) != 0
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	us := p.SideToMove
	return p.AttackersOf(p.KingSquare(us), us.Other())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers() != 0
}

// findPinned returns the pieces of side that are absolutely pinned to its
// king. On each ray from the king, the first piece is pinned when it is
// friendly and the next piece behind it is an enemy slider moving along
// that ray. Pieces further back never matter.
func (p *Position) findPinned(side Color) Bitboard {
	ksq := p.KingSquare(side)
	if ksq == NoSquare {
		return 0
	}
	them := &p.Pieces[side.Other()]
	diagonal := them[Bishop] | them[Queen]
	orthogonal := them[Rook] | them[Queen]

	var pinned Bitboard
	for d := dirNorth; d < noDirection; d++ {
		sliders := orthogonal
		if d.diagonal() {
			sliders = diagonal
		}
		if rays[ksq][d]&sliders == 0 {
			continue
		}
		first := firstOnRay(ksq, d, p.Occupied)
		if first == NoSquare || !p.Colored[side].IsSet(first) {
			continue
		}
		second := firstOnRay(first, d, p.Occupied)
		if second != NoSquare && sliders.IsSet(second) {
			pinned |= SquareBB(first)
		}
	}
	return pinned
}

// NonPawnMaterial returns the summed value of c's knights, bishops, rooks
// and queens.
func (p *Position) NonPawnMaterial(c Color) int {
	v := 0
	for pt := Knight; pt <= Queen; pt++ {
		v += p.Pieces[c][pt].PopCount() * PieceValue[pt]
	}
	return v
}

// Material returns c's material excluding the king.
func (p *Position) Material(c Color) int {
	return p.NonPawnMaterial(c) + p.Pieces[c][Pawn].PopCount()*PieceValue[Pawn]
}

// PieceValue is the material worth of each piece type in centipawns.
var PieceValue = [PieceTypeCount]int{0, 100, 320, 330, 500, 900, 0}

// Validate checks the invariants that move generation depends on.
func (p *Position) Validate() error {
	for c := White; c <= Black; c++ {
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%v has %d kings", c, n)
		}
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawn on first or last rank")
	}
	if p.Colored[White]&p.Colored[Black] != 0 || p.Colored[White]|p.Colored[Black] != p.Occupied {
		return fmt.Errorf("occupancy out of sync")
	}
	for sq := A1; sq <= H8; sq++ {
		pc := p.pieceAt[sq]
		if pc.IsEmpty() != !p.Occupied.IsSet(sq) {
			return fmt.Errorf("piece table disagrees with occupancy on %v", sq)
		}
		if !pc.IsEmpty() && !p.Pieces[pc.Color()][pc.Type()].IsSet(sq) {
			return fmt.Errorf("piece table disagrees with bitboards on %v", sq)
		}
	}
	them := p.SideToMove.Other()
	if p.IsAttackedBy(p.KingSquare(them), p.SideToMove) {
		return fmt.Errorf("side not to move is in check")
	}
	if h := p.ComputeHash(); h != p.State.Hash {
		return fmt.Errorf("hash %016x, recomputed %016x", p.State.Hash, h)
	}
	return nil
}

// Equal reports whether two positions agree on placement, side and state.
// Pinned is ignored.
func (p *Position) Equal(o *Position) bool {
	return p.Pieces == o.Pieces && p.Colored == o.Colored && p.Occupied == o.Occupied &&
		p.pieceAt == o.pieceAt && p.SideToMove == o.SideToMove && p.State == o.State
}

// String renders the board as plain text with the FEN below it.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteString(p.pieceAt[NewSquare(file, rank)].String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	fmt.Fprintf(&sb, "Fen: %s\n", p.FEN())
	fmt.Fprintf(&sb, "Key: %016X\n", p.State.Hash)
	return sb.String()
}
