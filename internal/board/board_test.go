package board

import (
	"testing"
)

func init() {
	DebugChecks = true
}

// walk visits every position reachable within depth plies and calls check
// after each ApplyMove and after each UndoMove.
func walk(t *testing.T, b *Board, depth int, check func(t *testing.T, b *Board, m Move)) {
	t.Helper()
	if depth == 0 {
		return
	}
	ml := b.LegalMoves()
	for _, m := range ml.Slice() {
		before := b.Position
		b.ApplyMove(m)
		check(t, b, m)
		walk(t, b, depth-1, check)
		b.UndoMove()
		if !b.Equal(&before) || b.FullMoveNumber != before.FullMoveNumber {
			t.Fatalf("undo %v did not restore %s, got %s", m, before.FEN(), b.FEN())
		}
	}
}

func TestApplyUndoRoundTrip(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, position3FEN, position4FEN, position5FEN} {
		t.Run(fen, func(t *testing.T) {
			b := MustParseFEN(fen)
			walk(t, b, 3, func(t *testing.T, b *Board, m Move) {})
			if b.Ply() != 0 || len(b.stateStack) != 0 || len(b.capturedStack) != 0 {
				t.Errorf("stacks not empty after walk: %d %d %d", b.Ply(), len(b.stateStack), len(b.capturedStack))
			}
		})
	}
}

func TestHashConsistency(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, position4FEN, position6FEN} {
		t.Run(fen, func(t *testing.T) {
			b := MustParseFEN(fen)
			walk(t, b, 3, func(t *testing.T, b *Board, m Move) {
				if got := b.ComputeHash(); got != b.Hash() {
					t.Fatalf("after %v: incremental hash %016x, recomputed %016x (%s)", m, b.Hash(), got, b.FEN())
				}
				if err := b.Validate(); err != nil {
					t.Fatalf("after %v: %v", m, err)
				}
			})
		})
	}
}

func TestHashIgnoresMoveOrder(t *testing.T) {
	a := NewBoard()
	for _, s := range []string{"g1f3", "g8f6", "b1c3"} {
		a.ApplyMove(a.ParseMove(s))
	}
	b := NewBoard()
	for _, s := range []string{"b1c3", "g8f6", "g1f3"} {
		b.ApplyMove(b.ParseMove(s))
	}
	if a.Hash() != b.Hash() {
		t.Errorf("transposed move orders hash differently: %016x vs %016x", a.Hash(), b.Hash())
	}
}

func TestApplyMoveState(t *testing.T) {
	b := NewBoard()
	b.ApplyMove(b.ParseMove("e2e4"))
	if b.State.EnPassant != E3 {
		t.Errorf("en passant = %v, want e3", b.State.EnPassant)
	}
	if b.State.HalfMoveClock != 0 {
		t.Errorf("halfmove clock = %d after pawn move", b.State.HalfMoveClock)
	}
	b.ApplyMove(b.ParseMove("g8f6"))
	if b.State.EnPassant != NoSquare {
		t.Errorf("en passant not cleared: %v", b.State.EnPassant)
	}
	if b.State.HalfMoveClock != 1 || b.FullMoveNumber != 2 {
		t.Errorf("clocks = %d/%d, want 1/2", b.State.HalfMoveClock, b.FullMoveNumber)
	}
}

func TestCastlingRightsUpdate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want CastlingRights
	}{
		{"king move", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1e2", BlackKingSide | BlackQueenSide},
		{"rook move", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "h1h5", WhiteQueenSide | BlackKingSide | BlackQueenSide},
		{"rook captured", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a8", WhiteKingSide | BlackKingSide},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", WhiteKingSide | WhiteQueenSide},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := MustParseFEN(tc.fen)
			m := b.ParseMove(tc.move)
			if m == NoMove {
				t.Fatalf("%s not legal", tc.move)
			}
			b.ApplyMove(m)
			if b.State.Castling != tc.want {
				t.Errorf("rights = %v, want %v", b.State.Castling, tc.want)
			}
		})
	}
}

func TestCastleMovesRook(t *testing.T) {
	b := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	b.ApplyMove(b.ParseMove("e1g1"))
	if b.PieceAt(F1) != NewPiece(Rook, White) || b.PieceAt(G1) != NewPiece(King, White) || !b.PieceAt(H1).IsEmpty() {
		t.Errorf("bad kingside castle:\n%v", &b.Position)
	}
	b.ApplyMove(b.ParseMove("e8c8"))
	if b.PieceAt(D8) != NewPiece(Rook, Black) || b.PieceAt(C8) != NewPiece(King, Black) || !b.PieceAt(A8).IsEmpty() {
		t.Errorf("bad queenside castle:\n%v", &b.Position)
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	b := MustParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	before := b.Position
	b.ApplyNullMove()
	if b.SideToMove != Black || b.State.EnPassant != NoSquare {
		t.Fatalf("null move: side %v ep %v", b.SideToMove, b.State.EnPassant)
	}
	if b.ComputeHash() != b.Hash() {
		t.Fatalf("null move hash mismatch")
	}
	b.UndoNullMove()
	if !b.Equal(&before) {
		t.Errorf("null move undo did not restore position")
	}
}

func TestRepetition(t *testing.T) {
	b := NewBoard()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 2; i++ {
		for _, s := range shuffle {
			if b.IsRepetition() {
				t.Fatalf("repetition reported too early at ply %d", b.Ply())
			}
			b.ApplyMove(b.ParseMove(s))
		}
	}
	if !b.IsRepetition() {
		t.Errorf("third occurrence of the start position not detected")
	}
	b.UndoMove()
	if b.IsRepetition() {
		t.Errorf("repetition still reported after undo")
	}
}

func TestRepetitionStopsAtIrreversibleMove(t *testing.T) {
	b := NewBoard()
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "e2e4", "e7e5"} {
		b.ApplyMove(b.ParseMove(s))
	}
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		b.ApplyMove(b.ParseMove(s))
	}
	if b.IsRepetition() {
		t.Errorf("only two occurrences since the pawn moves")
	}
}

func TestParseMove(t *testing.T) {
	b := MustParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	tests := []struct {
		text string
		want Move
	}{
		{"b7b8q", NewMove(B7, B8, PromoQueen)},
		{"b7b8n", NewMove(B7, B8, PromoKnight)},
		{"e1d1", NewMove(E1, D1, Quiet)},
		{"b7b8", NoMove},
		{"e1e3", NoMove},
		{"zz", NoMove},
		{"", NoMove},
		{"b7b8k", NoMove},
	}
	for _, tc := range tests {
		if got := b.ParseMove(tc.text); got != tc.want {
			t.Errorf("ParseMove(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestCheckmate(t *testing.T) {
	b := MustParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if !b.InCheck() {
		t.Fatal("expected black to be in check")
	}
	if !b.IsCheckmate() {
		t.Error("expected checkmate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// the king takes the rook
	b := MustParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if b.IsCheckmate() {
		t.Error("expected no checkmate")
	}
	if m := b.ParseMove("h8g8"); m.Kind() != Capture {
		t.Errorf("h8g8 = %v, want a capture", m)
	}
}

func TestStalemate(t *testing.T) {
	b := MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !b.IsStalemate() || b.IsCheckmate() {
		t.Error("expected stalemate")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	b.ApplyMove(b.ParseMove("e2e4"))
	c := b.Clone()
	c.ApplyMove(c.ParseMove("e7e5"))
	c.UndoMove()
	c.UndoMove()
	if b.Ply() != 1 || b.PieceAt(E4) != NewPiece(Pawn, White) {
		t.Errorf("clone shares state with original")
	}
	if c.FEN() != StartFEN {
		t.Errorf("clone undo = %s", c.FEN())
	}
}
