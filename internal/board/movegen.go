package board

// castleRule describes one castling move for one side.
type castleRule struct {
	right  CastlingRights
	kind   MoveKind
	king   Square
	kingTo Square
	rook   Square
	rookTo Square
	empty  Bitboard // strictly between king and rook
	path   Bitboard // squares the king stands on, crosses or lands on
}

var castleRules = [2][2]castleRule{
	White: {
		{WhiteKingSide, CastleKing, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), SquareBB(E1) | SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSide, CastleQueen, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(E1) | SquareBB(D1) | SquareBB(C1)},
	},
	Black: {
		{BlackKingSide, CastleKing, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), SquareBB(E8) | SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSide, CastleQueen, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(E8) | SquareBB(D8) | SquareBB(C8)},
	},
}

func castleRuleFor(c Color, kind MoveKind) *castleRule {
	if kind == CastleKing {
		return &castleRules[c][0]
	}
	return &castleRules[c][1]
}

var promotionOrder = [4]PieceType{Queen, Knight, Rook, Bishop}

// GenerateMoves appends every legal move of the side to move to ml.
func (p *Position) GenerateMoves(ml *MoveList) {
	p.generate(ml, false)
}

// GenerateCaptures appends the legal captures of the side to move to ml,
// capture-promotions and en passant included.
func (p *Position) GenerateCaptures(ml *MoveList) {
	p.generate(ml, true)
}

func (p *Position) generate(ml *MoveList, capturesOnly bool) {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare(us)
	checkers := p.AttackersOf(ksq, them)
	p.Pinned = p.findPinned(us)

	kingTargets := ^p.Colored[us]
	if capturesOnly {
		kingTargets = p.Colored[them]
	}
	p.genKingMoves(ml, ksq, kingTargets)

	// In double check only the king may move.
	if checkers.Several() {
		return
	}

	// Non-king moves must land on targets. Under a single check that is the
	// checker itself or a square between it and the king.
	targets := ^p.Colored[us]
	if checkers != 0 {
		targets = betweenBB[ksq][checkers.LSB()] | checkers
	}
	if capturesOnly {
		targets &= p.Colored[them]
	}

	p.genPawnMoves(ml, ksq, targets, checkers, capturesOnly)
	p.genPieceMoves(ml, ksq, targets)

	if checkers == 0 && !capturesOnly {
		p.genCastling(ml)
	}
}

// pinAllows reports whether a piece on from may go to to without leaving
// the line it is pinned along. Unpinned pieces are always allowed.
func (p *Position) pinAllows(ksq, from, to Square) bool {
	return !p.Pinned.IsSet(from) || lineBB[ksq][from].IsSet(to)
}

func (p *Position) genKingMoves(ml *MoveList, ksq Square, targets Bitboard) {
	them := p.SideToMove.Other()
	// The king is lifted off the board so sliders see through its old square.
	occ := p.Occupied &^ SquareBB(ksq)
	bb := kingAttacks[ksq] & targets
	for bb != 0 {
		to := bb.PopLSB()
		if p.attackersWith(to, them, occ) != 0 {
			continue
		}
		kind := Quiet
		if p.Colored[them].IsSet(to) {
			kind = Capture
		}
		ml.Add(NewMove(ksq, to, kind))
	}
}

func (p *Position) genPawnMoves(ml *MoveList, ksq Square, targets, checkers Bitboard, capturesOnly bool) {
	us := p.SideToMove
	enemies := p.Colored[us.Other()]
	empty := ^p.Occupied
	doubleRank := Rank4
	if us == Black {
		doubleRank = Rank5
	}
	ep := p.State.EnPassant

	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()

		if !capturesOnly {
			single := SquareBB(from).Forward(us) & empty
			if single != 0 {
				to := single.LSB()
				if targets.IsSet(to) && p.pinAllows(ksq, from, to) {
					addPawnMove(ml, from, to, false)
				}
				if double := single.Forward(us) & empty & doubleRank; double != 0 {
					to := double.LSB()
					if targets.IsSet(to) && p.pinAllows(ksq, from, to) {
						ml.Add(NewMove(from, to, DoublePush))
					}
				}
			}
		}

		attacks := pawnAttacks[us][from]
		captures := attacks & enemies & targets
		for captures != 0 {
			to := captures.PopLSB()
			if p.pinAllows(ksq, from, to) {
				addPawnMove(ml, from, to, true)
			}
		}

		if ep != NoSquare && attacks.IsSet(ep) && p.enPassantLegal(ksq, from, ep, checkers) {
			ml.Add(NewMove(from, ep, EnPassant))
		}
	}
}

func addPawnMove(ml *MoveList, from, to Square, capture bool) {
	if r := to.Rank(); r == 0 || r == 7 {
		for _, pt := range promotionOrder {
			ml.Add(NewMove(from, to, promotionKind(pt, capture)))
		}
		return
	}
	kind := Quiet
	if capture {
		kind = Capture
	}
	ml.Add(NewMove(from, to, kind))
}

// enPassantLegal applies the tests an en-passant capture needs on top of
// the geometry: check evasion, the pin axis of the capturing pawn, and the
// rank on which both pawns vanish at once.
func (p *Position) enPassantLegal(ksq, from, ep Square, checkers Bitboard) bool {
	victim := NewSquare(ep.File(), from.Rank())
	if DebugChecks && p.pieceAt[victim] != NewPiece(Pawn, p.SideToMove.Other()) {
		panic("board: en-passant square without a capturable pawn")
	}

	// A checking pawn that just double-pushed may be taken; otherwise the
	// capture must land between the king and its checker.
	if checkers != 0 && !checkers.IsSet(victim) && !betweenBB[ksq][checkers.LSB()].IsSet(ep) {
		return false
	}
	if !p.pinAllows(ksq, from, ep) {
		return false
	}
	if ksq.Rank() == from.Rank() {
		them := &p.Pieces[p.SideToMove.Other()]
		sliders := them[Rook] | them[Queen]
		occ := p.Occupied &^ (SquareBB(from) | SquareBB(victim))
		if (rayPieceSteps(ksq, dirEast, occ)|rayPieceSteps(ksq, dirWest, occ))&sliders != 0 {
			return false
		}
	}
	return true
}

func (p *Position) genPieceMoves(ml *MoveList, ksq Square, targets Bitboard) {
	us := p.SideToMove
	enemies := p.Colored[us.Other()]
	occ := p.Occupied

	for pt := Knight; pt <= Queen; pt++ {
		bb := p.Pieces[us][pt]
		if pt == Knight {
			// a pinned knight can never stay on its pin line
			bb &^= p.Pinned
		}
		for bb != 0 {
			from := bb.PopLSB()
			var attacks Bitboard
			switch pt {
			case Knight:
				attacks = knightAttacks[from]
			case Bishop:
				attacks = BishopAttacks(from, occ)
			case Rook:
				attacks = RookAttacks(from, occ)
			case Queen:
				attacks = QueenAttacks(from, occ)
			}
			attacks &= targets
			if p.Pinned.IsSet(from) {
				attacks &= lineBB[ksq][from]
			}
			for attacks != 0 {
				to := attacks.PopLSB()
				kind := Quiet
				if enemies.IsSet(to) {
					kind = Capture
				}
				ml.Add(NewMove(from, to, kind))
			}
		}
	}
}

func (p *Position) genCastling(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	for i := range castleRules[us] {
		r := &castleRules[us][i]
		if p.State.Castling&r.right == 0 {
			continue
		}
		// The right can outlive the rook when it was captured on its home
		// square in a position set up from FEN, so look at the board too.
		if p.pieceAt[r.rook] != NewPiece(Rook, us) || p.pieceAt[r.king] != NewPiece(King, us) {
			continue
		}
		if p.Occupied&r.empty != 0 {
			continue
		}
		if p.pathAttacked(r.path, them) {
			continue
		}
		ml.Add(NewMove(r.king, r.kingTo, r.kind))
	}
}

func (p *Position) pathAttacked(path Bitboard, by Color) bool {
	for path != 0 {
		if p.IsAttackedBy(path.PopLSB(), by) {
			return true
		}
	}
	return false
}
