package engine

import (
	"fmt"
	"strings"

	"github.com/hailam/bitchess/internal/board"
)

// Evaluator scores a position in centipawns from the side to move's view.
type Evaluator interface {
	Evaluate(pos *board.Position) int
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(pos *board.Position) int

func (f EvaluatorFunc) Evaluate(pos *board.Position) int { return f(pos) }

// Piece values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

// endgameMaterial is the non-king material at or below which a side
// counts as being in the endgame.
const endgameMaterial = 1300

// The tables are laid out as seen from White with rank 8 on top, so
// entry i belongs to square i^56. Black squares are looked up unflipped.
var pawnTable = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightTable = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopTable = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookTable = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenTable = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMiddlegameTable = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgameTable = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var pieceTables = [board.PieceTypeCount]*[64]int{
	board.Pawn:   &pawnTable,
	board.Knight: &knightTable,
	board.Bishop: &bishopTable,
	board.Rook:   &rookTable,
	board.Queen:  &queenTable,
}

// Phase weights; a full board sums to maxPhase.
var phaseWeight = [board.PieceTypeCount]int{0, 0, 1, 1, 2, 4, 0}

const maxPhase = 24

const mobilityWeight = 1

func tableIndex(c board.Color, sq board.Square) board.Square {
	if c == board.White {
		return sq.Flip()
	}
	return sq
}

// Breakdown holds the evaluation terms from White's point of view.
type Breakdown struct {
	Material [2]int
	PST      [2]int
	Mobility [2]int
	King     [2]int
	Phase    int
}

// Total returns the White-relative sum of all terms.
func (b Breakdown) Total() int {
	total := 0
	for c, sign := range [2]int{1, -1} {
		total += sign * (b.Material[c] + b.PST[c] + b.Mobility[c] + b.King[c])
	}
	return total
}

func (b Breakdown) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-10s %7s %7s %7s\n", "term", "white", "black", "total")
	row := func(name string, v [2]int) {
		fmt.Fprintf(&sb, "%-10s %7d %7d %7d\n", name, v[0], v[1], v[0]-v[1])
	}
	row("material", b.Material)
	row("pst", b.PST)
	row("mobility", b.Mobility)
	row("king", b.King)
	fmt.Fprintf(&sb, "phase %d/%d, total %d (white)\n", b.Phase, maxPhase, b.Total())
	return sb.String()
}

// Evaluate returns the static evaluation relative to the side to move.
func Evaluate(pos *board.Position) int {
	score := Analyze(pos).Total()
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// DefaultEvaluator is the classical material, piece-square and mobility
// evaluation.
var DefaultEvaluator Evaluator = EvaluatorFunc(Evaluate)

// Analyze computes every evaluation term.
func Analyze(pos *board.Position) Breakdown {
	var b Breakdown
	phase := 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		phase += phaseWeight[pt] * (pos.Pieces[board.White][pt] | pos.Pieces[board.Black][pt]).PopCount()
	}
	b.Phase = min(phase, maxPhase)

	occ := pos.Occupied
	for c := board.White; c <= board.Black; c++ {
		own := pos.Colored[c]
		for pt := board.Pawn; pt <= board.Queen; pt++ {
			bb := pos.Pieces[c][pt]
			b.Material[c] += board.PieceValue[pt] * bb.PopCount()
			for bb != 0 {
				sq := bb.PopLSB()
				b.PST[c] += pieceTables[pt][tableIndex(c, sq)]
				if pt != board.Pawn {
					b.Mobility[c] += mobilityWeight * (pieceAttacks(pt, sq, occ) &^ own).PopCount()
				}
			}
		}

		ksq := pos.KingSquare(c)
		if ksq != board.NoSquare {
			idx := tableIndex(c, ksq)
			mg, eg := kingMiddlegameTable[idx], kingEndgameTable[idx]
			b.King[c] = (mg*b.Phase + eg*(maxPhase-b.Phase)) / maxPhase
		}
	}
	return b
}

func pieceAttacks(pt board.PieceType, sq board.Square, occ board.Bitboard) board.Bitboard {
	switch pt {
	case board.Knight:
		return board.KnightAttacks(sq)
	case board.Bishop:
		return board.BishopAttacks(sq, occ)
	case board.Rook:
		return board.RookAttacks(sq, occ)
	case board.Queen:
		return board.QueenAttacks(sq, occ)
	case board.King:
		return board.KingAttacks(sq)
	}
	return 0
}

// IsEndgame reports whether the opponent of the side to move has at most
// endgameMaterial of non-king material left.
func IsEndgame(pos *board.Position) bool {
	return pos.Material(pos.SideToMove.Other()) <= endgameMaterial
}
