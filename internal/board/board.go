package board

// Board is a Position plus the stacks needed to take moves back.
type Board struct {
	Position

	history       []Move
	stateStack    []State
	capturedStack []Piece
}

// NewBoard returns a board set to the standard initial position.
func NewBoard() *Board {
	return MustParseFEN(StartFEN)
}

// Clone returns an independent copy, stacks included.
func (b *Board) Clone() *Board {
	c := &Board{Position: b.Position}
	c.history = append(make([]Move, 0, cap(b.history)), b.history...)
	c.stateStack = append(make([]State, 0, cap(b.stateStack)), b.stateStack...)
	c.capturedStack = append(make([]Piece, 0, cap(b.capturedStack)), b.capturedStack...)
	return c
}

// History returns the moves applied so far, oldest first.
func (b *Board) History() []Move {
	return b.history
}

// Ply returns the number of moves applied to this board.
func (b *Board) Ply() int {
	return len(b.history)
}

// ApplyMove plays a legal move.
func (b *Board) ApplyMove(m Move) {
	from, to, kind := m.From(), m.To(), m.Kind()
	us := b.SideToMove
	if DebugChecks && (b.pieceAt[from].IsEmpty() || b.pieceAt[from].Color() != us) {
		panic("board: ApplyMove " + m.String() + " does not move a piece of the side to move")
	}

	b.stateStack = append(b.stateStack, b.State)
	b.setEnPassant(NoSquare)

	if b.pieceAt[from].Type() == Pawn || m.IsCapture() {
		b.State.HalfMoveClock = 0
	} else {
		b.State.HalfMoveClock++
	}

	if m.IsCapture() {
		victim := to
		if kind == EnPassant {
			victim = NewSquare(to.File(), from.Rank())
		}
		b.capturedStack = append(b.capturedStack, b.removePiece(victim))
	}

	switch {
	case m.IsPromotion():
		b.removePiece(from)
		b.setPiece(NewPiece(m.Promotion(), us), to)
	case m.IsCastle():
		r := castleRuleFor(us, kind)
		b.movePiece(from, to)
		b.movePiece(r.rook, r.rookTo)
	default:
		b.movePiece(from, to)
	}

	b.setCastling(b.State.Castling & castlingMask[from] & castlingMask[to])
	if kind == DoublePush {
		b.setEnPassant(NewSquare(from.File(), (from.Rank()+to.Rank())/2))
	}

	b.history = append(b.history, m)
	if us == Black {
		b.FullMoveNumber++
	}
	b.flipSide()
}

// UndoMove takes back the last move applied with ApplyMove.
func (b *Board) UndoMove() {
	n := len(b.history)
	if n == 0 {
		if DebugChecks {
			panic("board: UndoMove with empty history")
		}
		return
	}
	m := b.history[n-1]
	b.history = b.history[:n-1]

	b.SideToMove = b.SideToMove.Other()
	us := b.SideToMove
	if us == Black {
		b.FullMoveNumber--
	}

	from, to, kind := m.From(), m.To(), m.Kind()
	switch {
	case m.IsPromotion():
		b.removePiece(to)
		b.setPiece(NewPiece(Pawn, us), from)
	case m.IsCastle():
		r := castleRuleFor(us, kind)
		b.movePiece(to, from)
		b.movePiece(r.rookTo, r.rook)
	default:
		b.movePiece(to, from)
	}

	if m.IsCapture() {
		victim := to
		if kind == EnPassant {
			victim = NewSquare(to.File(), from.Rank())
		}
		last := len(b.capturedStack) - 1
		b.setPiece(b.capturedStack[last], victim)
		b.capturedStack = b.capturedStack[:last]
	}

	// The piece updates above touched the hash; the saved state restores it.
	b.popState()
}

// ApplyNullMove passes the turn. The halfmove clock restarts so that
// repetition checks never reach across the pass.
func (b *Board) ApplyNullMove() {
	b.stateStack = append(b.stateStack, b.State)
	b.setEnPassant(NoSquare)
	b.State.HalfMoveClock = 0
	b.flipSide()
}

// UndoNullMove takes back ApplyNullMove.
func (b *Board) UndoNullMove() {
	b.SideToMove = b.SideToMove.Other()
	b.popState()
}

func (b *Board) popState() {
	last := len(b.stateStack) - 1
	b.State = b.stateStack[last]
	b.stateStack = b.stateStack[:last]
}

// IsRepetition reports a threefold repetition: the current hash occurred
// twice before since the last irreversible move.
func (b *Board) IsRepetition() bool {
	n := len(b.stateStack)
	limit := b.State.HalfMoveClock
	seen := 0
	for i := 2; i <= limit && i <= n; i += 2 {
		if b.stateStack[n-i].Hash == b.State.Hash {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

// LegalMoves returns the legal moves of the side to move.
func (b *Board) LegalMoves() MoveList {
	var ml MoveList
	b.GenerateMoves(&ml)
	return ml
}

// IsLegal reports whether m is legal in the current position.
func (b *Board) IsLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	ml := b.LegalMoves()
	return ml.Contains(m)
}

// ParseMove finds the legal move written as UCI text ("e2e4", "a7a8q").
// Text that is malformed or names an illegal move gives NoMove.
func (b *Board) ParseMove(text string) Move {
	if len(text) != 4 && len(text) != 5 {
		return NoMove
	}
	ml := b.LegalMoves()
	for _, m := range ml.Slice() {
		if m.String() == text {
			return m
		}
	}
	return NoMove
}

// IsCheckmate reports whether the side to move is mated.
func (b *Board) IsCheckmate() bool {
	ml := b.LegalMoves()
	return ml.Len() == 0 && b.InCheck()
}

// IsStalemate reports whether the side to move has no move and is not in check.
func (b *Board) IsStalemate() bool {
	ml := b.LegalMoves()
	return ml.Len() == 0 && !b.InCheck()
}
