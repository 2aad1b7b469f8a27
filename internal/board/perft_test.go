package board

import (
	"fmt"
	"testing"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -"
	position4FEN = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	position5FEN = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	position6FEN = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"
)

type perftCase struct {
	depth    int
	expected uint64
	slow     bool
}

func runPerft(t *testing.T, fen string, cases []perftCase) {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("depth%d", tc.depth), func(t *testing.T) {
			if tc.slow && testing.Short() {
				t.Skip("deep perft skipped in short mode")
			}
			got := b.Perft(tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
	if got := b.FEN(); got != MustParseFEN(fen).FEN() {
		t.Errorf("board not restored after perft: %s", got)
	}
}

func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []perftCase{
		{1, 20, false},
		{2, 400, false},
		{3, 8902, false},
		{4, 197281, false},
		{5, 4865609, true},
	})
}

// Kiwipete exercises castling, pins and en passant together.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, kiwipeteFEN, []perftCase{
		{1, 48, false},
		{2, 2039, false},
		{3, 97862, false},
		{4, 4085603, true},
	})
}

func TestPerftPosition3(t *testing.T) {
	runPerft(t, position3FEN, []perftCase{
		{1, 14, false},
		{2, 191, false},
		{3, 2812, false},
		{4, 43238, false},
		{5, 674624, true},
		{6, 11030083, true},
	})
}

func TestPerftPosition4(t *testing.T) {
	runPerft(t, position4FEN, []perftCase{
		{1, 6, false},
		{2, 264, false},
		{3, 9467, false},
		{4, 422333, true},
		{5, 15833292, true},
	})
}

func TestPerftPosition5(t *testing.T) {
	runPerft(t, position5FEN, []perftCase{
		{1, 44, false},
		{2, 1486, false},
		{3, 62379, false},
		{4, 2103487, true},
	})
}

func TestPerftPosition6(t *testing.T) {
	runPerft(t, position6FEN, []perftCase{
		{1, 46, false},
		{2, 2079, false},
		{3, 89890, false},
		{4, 3894594, true},
	})
}

// The black pawn on e4 may not take d3 en passant: both pawns would leave
// the fourth rank and open it for the rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	b := MustParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	ml := b.LegalMoves()
	for _, m := range ml.Slice() {
		if m.Kind() == EnPassant {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}
	runPerft(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []perftCase{
		{1, 6, false},
		{2, 94, false},
	})
}
