package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every error ParseFEN returns.
var ErrInvalidFEN = errors.New("invalid fen")

// ParseFEN builds a board from FEN text.
//
// Parsing is lenient: unknown characters in the placement and castling
// fields are skipped, missing trailing fields take their defaults
// ("w - - 0 1"), and an en passant square that no double push could have
// produced is dropped. It only fails when no usable board comes out: empty
// input, a rank holding more than eight squares, a side without exactly
// one king, or a side to move that could capture the enemy king.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidFEN)
	}

	b := &Board{Position: newEmptyPosition()}
	if err := b.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	if len(fields) > 1 && fields[1] == "b" {
		b.SideToMove = Black
		b.State.Hash ^= blackToMove
	}
	if len(fields) > 2 {
		b.setCastling(parseCastling(fields[2]))
	}
	if len(fields) > 3 {
		if sq, err := ParseSquare(fields[3]); err == nil && b.enPassantPossible(sq) {
			b.setEnPassant(sq)
		}
	}
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil && n >= 0 {
			b.State.HalfMoveClock = n
		}
	}
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			b.FullMoveNumber = n
		}
	}

	for c := White; c <= Black; c++ {
		if n := b.Pieces[c][King].PopCount(); n != 1 {
			return nil, fmt.Errorf("%w: %v has %d kings", ErrInvalidFEN, c, n)
		}
	}
	if them := b.SideToMove.Other(); b.IsAttackedBy(b.KingSquare(them), b.SideToMove) {
		return nil, fmt.Errorf("%w: %v king is in check with %v to move", ErrInvalidFEN, them, b.SideToMove)
	}
	return b, nil
}

// enPassantPossible reports whether the opponent's last move could have been
// a double push over sq: sq and the pawn's start square are empty and the
// pawn stands just past sq.
func (p *Position) enPassantPossible(sq Square) bool {
	us := p.SideToMove
	if sq.RelativeRank(us) != 5 {
		return false
	}
	pawn, start := sq.South(), sq.North()
	if us == Black {
		pawn, start = sq.North(), sq.South()
	}
	return p.pieceAt[pawn] == NewPiece(Pawn, us.Other()) &&
		!p.Occupied.IsSet(sq) && !p.Occupied.IsSet(start)
}

// MustParseFEN is ParseFEN for known-good constants; it panics on error.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

func (p *Position) parsePlacement(placement string) error {
	rank, file := 7, 0
	for i := 0; i < len(placement) && rank >= 0; i++ {
		ch := placement[i]
		switch {
		case ch == '/':
			rank--
			file = 0
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
			if file > 8 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
		default:
			pc := PieceFromChar(ch)
			if pc.IsEmpty() {
				continue
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			p.setPiece(pc, NewSquare(file, rank))
			file++
		}
	}
	return nil
}

func parseCastling(field string) CastlingRights {
	var cr CastlingRights
	for _, ch := range field {
		switch ch {
		case 'K':
			cr |= WhiteKingSide
		case 'Q':
			cr |= WhiteQueenSide
		case 'k':
			cr |= BlackKingSide
		case 'q':
			cr |= BlackQueenSide
		}
	}
	return cr
}

// FEN returns the six-field FEN text of the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		run := 0
		for file := 0; file < 8; file++ {
			pc := p.pieceAt[NewSquare(file, rank)]
			if pc.IsEmpty() {
				run++
				continue
			}
			if run > 0 {
				sb.WriteByte(byte('0' + run))
				run = 0
			}
			sb.WriteString(pc.String())
		}
		if run > 0 {
			sb.WriteByte(byte('0' + run))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.State.Castling, p.State.EnPassant,
		p.State.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
