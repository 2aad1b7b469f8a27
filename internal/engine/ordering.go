package engine

import (
	"github.com/hailam/bitchess/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore = 1 << 20
	CaptureBase = 1 << 16
	PromoBase   = CaptureBase - 1000
)

// mvvLva[victim][attacker], indexed by board.PieceType. Higher is searched
// first: the most valuable victim, then the least valuable attacker.
var mvvLva [board.PieceTypeCount][board.PieceTypeCount]int

var orderValue = [board.PieceTypeCount]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 2000}

func init() {
	for victim := board.Pawn; victim <= board.Queen; victim++ {
		for attacker := board.Pawn; attacker <= board.King; attacker++ {
			mvvLva[victim][attacker] = orderValue[victim]*10 - orderValue[attacker]/10
		}
	}
}

// scoreMove ranks m for ordering: the table move, then captures by
// MVV-LVA, then quiet promotions, then quiet moves.
func scoreMove(pos *board.Position, m, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}
	if m.IsCapture() {
		attacker := pos.PieceAt(m.From()).Type()
		victim := board.Pawn
		if m.Kind() != board.EnPassant {
			victim = pos.PieceAt(m.To()).Type()
		}
		score := CaptureBase + mvvLva[victim][attacker]
		if m.IsPromotion() {
			score += orderValue[m.Promotion()]
		}
		return score
	}
	if m.IsPromotion() {
		return PromoBase + orderValue[m.Promotion()]
	}
	return 0
}

// ScoreMoves fills scores with the ordering key of every move in ml.
func ScoreMoves(pos *board.Position, ml *board.MoveList, ttMove board.Move, scores []int) []int {
	scores = scores[:0]
	for i := 0; i < ml.Len(); i++ {
		scores = append(scores, scoreMove(pos, ml.Get(i), ttMove))
	}
	return scores
}

// PickMove moves the best-scored move at or after index into index.
func PickMove(ml *board.MoveList, scores []int, index int) {
	best := index
	for i := index + 1; i < ml.Len(); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// SortMoves orders the whole list by descending score.
func SortMoves(ml *board.MoveList, scores []int) {
	for i := 0; i < ml.Len(); i++ {
		PickMove(ml, scores, i)
	}
}
