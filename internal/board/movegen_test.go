package board

import (
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/notnil/chess"
)

func moveTexts(ml MoveList) []string {
	out := make([]string, 0, ml.Len())
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func TestLegalMoveEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		want    []string // must be generated
		notWant []string // must not be generated
		count   int      // exact move count, 0 to skip
	}{
		{
			name:    "double pin on a file",
			fen:     "r6k/8/8/r7/8/8/R7/K7 w - - 0 1",
			want:    []string{"a2a3", "a2a4", "a2a5", "a1b1", "a1b2"},
			notWant: []string{"a2a6", "a2b2", "a2h2"},
			count:   5,
		},
		{
			name: "two own pieces on the ray are not pinned",
			fen:  "r6k/8/8/8/8/R7/R7/K7 w - - 0 1",
			want: []string{"a2b2", "a2h2", "a3h3"},
		},
		{
			name:    "diagonal pin forbids en passant off the line",
			fen:     "7b/8/8/3pP3/8/8/8/K6k w - d6 0 1",
			notWant: []string{"e5d6", "e5e6"},
		},
		{
			name: "diagonal pin allows en passant along the line",
			fen:  "7b/8/8/4Pp2/8/8/8/K6k w - f6 0 1",
			want: []string{"e5f6"},
		},
		{
			name: "checking pawn removed en passant",
			fen:  "4k3/8/8/3pP3/4K3/8/8/8 w - d6 0 1",
			want: []string{"e5d6", "e4d5"},
		},
		{
			name:    "castling rights without the rook",
			fen:     "4k3/8/8/8/8/8/8/R3K2n w KQ - 0 1",
			want:    []string{"e1c1"},
			notWant: []string{"e1g1"},
		},
		{
			name:    "castling through an attacked square",
			fen:     "4k3/8/8/8/8/8/5r2/R3K2R w KQ - 0 1",
			want:    []string{"e1c1"},
			notWant: []string{"e1g1"},
		},
		{
			name: "attacked b1 does not stop queenside castling",
			fen:  "4k3/8/8/8/8/8/1r6/R3K2R w KQ - 0 1",
			want: []string{"e1c1", "e1g1"},
		},
		{
			name:    "no castling out of check",
			fen:     "4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1",
			notWant: []string{"e1c1", "e1g1"},
		},
		{
			name:    "double check leaves only king moves",
			fen:     "4k3/8/8/8/8/2Q2n2/8/r3K3 w - - 0 1",
			want:    []string{"e1e2", "e1f2"},
			notWant: []string{"c3f3", "e1f1", "e1d1"},
			count:   2,
		},
		{
			name:  "promotions with and without capture",
			fen:   "r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1",
			want:  []string{"b7b8q", "b7b8r", "b7b8b", "b7b8n", "b7a8q", "b7a8r", "b7a8b", "b7a8n"},
			count: 13,
		},
		{
			name:    "king cannot retreat along the checking ray",
			fen:     "4k3/8/8/8/8/8/8/r3K3 w - - 0 1",
			notWant: []string{"e1f1", "e1d1"},
			count:   3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := MustParseFEN(tc.fen)
			got := moveTexts(b.LegalMoves())
			for _, w := range tc.want {
				if !slices.Contains(got, w) {
					t.Errorf("missing %s in %v", w, got)
				}
			}
			for _, w := range tc.notWant {
				if slices.Contains(got, w) {
					t.Errorf("illegal %s generated in %v", w, got)
				}
			}
			if tc.count > 0 && len(got) != tc.count {
				t.Errorf("got %d moves %v, want %d", len(got), got, tc.count)
			}
		})
	}
}

func TestGenerateCapturesSubset(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, position4FEN, "4k3/8/8/3pP3/4K3/8/8/8 w - d6 0 1"} {
		b := MustParseFEN(fen)
		all := b.LegalMoves()
		var caps MoveList
		b.GenerateCaptures(&caps)

		want := 0
		for _, m := range all.Slice() {
			if m.IsCapture() {
				want++
				if !caps.Contains(m) {
					t.Errorf("%s: capture %v missing from GenerateCaptures", fen, m)
				}
			}
		}
		if caps.Len() != want {
			t.Errorf("%s: %d captures, want %d", fen, caps.Len(), want)
		}
	}
}

func TestMoveEncoding(t *testing.T) {
	m := NewMove(E7, F8, PromoCaptureKnight)
	if m.From() != E7 || m.To() != F8 || m.Kind() != PromoCaptureKnight {
		t.Fatalf("fields lost: %v %v %v", m.From(), m.To(), m.Kind())
	}
	if !m.IsCapture() || !m.IsPromotion() || m.Promotion() != Knight {
		t.Errorf("flags wrong for %v", m)
	}
	if m.String() != "e7f8n" {
		t.Errorf("String() = %q", m.String())
	}
	if NewMove(E1, G1, CastleKing) == NewMove(E1, G1, Quiet) {
		t.Errorf("kind not part of equality")
	}
	if NoMove.String() != "0000" {
		t.Errorf("NoMove.String() = %q", NoMove.String())
	}
}

// oracleFENs are full six-field FENs, as the reference library requires.
var oracleFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	position4FEN,
	position5FEN,
	position6FEN,
}

// TestMovesMatchReferenceLibrary plays random games and compares the legal
// move set with github.com/notnil/chess at every ply.
func TestMovesMatchReferenceLibrary(t *testing.T) {
	games := 12
	if testing.Short() {
		games = 3
	}
	rng := rand.New(rand.NewSource(7))

	for _, fen := range oracleFENs {
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("reference library rejected %q: %v", fen, err)
		}
		for g := 0; g < games; g++ {
			b := MustParseFEN(fen)
			ref := chess.NewGame(opt).Position()

			for ply := 0; ply < 60; ply++ {
				ours := moveTexts(b.LegalMoves())
				theirs := make([]string, 0, len(ours))
				byText := map[string]*chess.Move{}
				for _, m := range ref.ValidMoves() {
					s := chess.UCINotation{}.Encode(ref, m)
					theirs = append(theirs, s)
					byText[s] = m
				}
				slices.Sort(theirs)

				if !slices.Equal(ours, theirs) {
					t.Fatalf("%s after %v:\nours   %s\ntheirs %s", b.FEN(), b.History(),
						strings.Join(ours, " "), strings.Join(theirs, " "))
				}
				if len(ours) == 0 {
					break
				}
				pick := ours[rng.Intn(len(ours))]
				b.ApplyMove(b.ParseMove(pick))
				ref = ref.Update(byText[pick])
			}
		}
	}
}
