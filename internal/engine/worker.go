package engine

import (
	"context"

	"github.com/hailam/bitchess/internal/board"
)

// worker holds the state of one search: the board it mutates, counters and
// per-ply scratch space. It is not safe for concurrent use.
type worker struct {
	ctx       context.Context
	b         *board.Board
	tt        *TranspositionTable
	eval      Evaluator
	nodeLimit uint64

	nodes    uint64
	selDepth int
	stopped  bool
	rootBest board.Move

	scores [MaxPly + 1][board.MaxMoves]int
}

func newWorker(ctx context.Context, b *board.Board, tt *TranspositionTable, eval Evaluator, nodeLimit uint64) *worker {
	return &worker{
		ctx:       ctx,
		b:         b,
		tt:        tt,
		eval:      eval,
		nodeLimit: nodeLimit,
	}
}

func (w *worker) evaluate() int {
	return w.eval.Evaluate(&w.b.Position)
}

// visit counts a node and polls for cancellation every nodeCheckMask+1 nodes.
func (w *worker) visit(ply int) {
	w.nodes++
	if ply > w.selDepth {
		w.selDepth = ply
	}
	if w.nodes&nodeCheckMask != 0 {
		return
	}
	if w.ctx.Err() != nil || (w.nodeLimit > 0 && w.nodes >= w.nodeLimit) {
		w.stopped = true
	}
}

// searchRoot runs one iteration. The returned move is NoMove when no root
// move raised alpha.
func (w *worker) searchRoot(depth, alpha, beta int) (int, board.Move) {
	w.rootBest = board.NoMove
	score := w.negamax(depth, 0, alpha, beta, false)
	return score, w.rootBest
}

// negamax is a fail-hard alpha-beta search: the result is always within
// [alpha, beta], except for mate and stalemate scores at leaf nodes.
func (w *worker) negamax(depth, ply, alpha, beta int, nullAllowed bool) int {
	w.visit(ply)
	if w.stopped {
		return 0
	}

	b := w.b
	root := ply == 0
	if !root && (b.State.HalfMoveClock >= 100 || b.IsRepetition()) {
		return 0
	}
	if ply >= MaxPly {
		return w.evaluate()
	}

	key := b.Hash()
	ttScore, ttMove, ok := w.tt.Probe(key, depth, alpha, beta, ply)
	if ok && !root {
		return clamp(ttScore, alpha, beta)
	}

	if depth <= 0 {
		return w.quiescence(ply, 0, alpha, beta)
	}

	inCheck := b.InCheck()

	if nullAllowed && !inCheck && depth >= nullMoveMinDepth && !IsEndgame(&b.Position) {
		b.ApplyNullMove()
		score := -w.negamax(depth-1-nullMoveR, ply+1, -beta, -beta+1, false)
		b.UndoNullMove()
		if w.stopped {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	var ml board.MoveList
	b.GenerateMoves(&ml)
	if ml.Len() == 0 {
		if inCheck {
			return -CheckmateScore + ply
		}
		return 0
	}

	scores := ScoreMoves(&b.Position, &ml, ttMove, w.scores[ply][:0])

	bestMove := board.NoMove
	bound := BoundUpper
	for i := 0; i < ml.Len(); i++ {
		PickMove(&ml, scores, i)
		m := ml.Get(i)

		b.ApplyMove(m)
		givesCheck := b.InCheck()

		var score int
		full := true
		if i >= lmrMinMoveIndex && depth >= lmrMinDepth && !inCheck && !givesCheck &&
			!m.IsCapture() && !m.IsPromotion() {
			r := 1
			if i >= lmrLateMove {
				r = 2
			}
			score = -w.negamax(depth-1-r, ply+1, -alpha-1, -alpha, true)
			full = score > alpha
		}
		if full && bestMove != board.NoMove {
			score = -w.negamax(depth-1, ply+1, -alpha-1, -alpha, true)
			full = score > alpha && score < beta
		}
		if full {
			score = -w.negamax(depth-1, ply+1, -beta, -alpha, true)
		}

		b.UndoMove()
		if w.stopped {
			return 0
		}

		if score >= beta {
			w.tt.Save(key, depth, beta, BoundLower, m, ply)
			if root {
				w.rootBest = m
			}
			return beta
		}
		if score > alpha {
			alpha = score
			bestMove = m
			bound = BoundExact
			if root {
				w.rootBest = m
			}
		}
	}

	if bestMove == board.NoMove {
		bestMove = ttMove
	}
	w.tt.Save(key, depth, alpha, bound, bestMove, ply)
	return alpha
}

// quiescence resolves captures until the position is quiet or qply, the
// plies searched past the horizon, reaches qsearchMaxPly.
func (w *worker) quiescence(ply, qply, alpha, beta int) int {
	w.visit(ply)
	if w.stopped {
		return 0
	}

	b := w.b
	standPat := w.evaluate()
	if ply >= MaxPly {
		return standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if qply >= qsearchMaxPly {
		return alpha
	}

	var ml board.MoveList
	b.GenerateCaptures(&ml)
	if ml.Len() == 0 {
		return alpha
	}

	endgame := IsEndgame(&b.Position)
	scores := ScoreMoves(&b.Position, &ml, board.NoMove, w.scores[ply][:0])
	for i := 0; i < ml.Len(); i++ {
		PickMove(&ml, scores, i)
		m := ml.Get(i)

		if !endgame && !m.IsPromotion() && standPat+capturedValue(&b.Position, m)+deltaMargin < alpha {
			continue
		}
		if losingCapture(&b.Position, m) {
			continue
		}

		b.ApplyMove(m)
		score := -w.quiescence(ply+1, qply+1, -beta, -alpha)
		b.UndoMove()
		if w.stopped {
			return 0
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func capturedValue(pos *board.Position, m board.Move) int {
	if m.Kind() == board.EnPassant {
		return PawnValue
	}
	return board.PieceValue[pos.PieceAt(m.To()).Type()]
}

// losingCapture reports whether m trades a piece for a cheaper defended
// one. Pawn captures and promotions always pass.
func losingCapture(pos *board.Position, m board.Move) bool {
	attacker := pos.PieceAt(m.From()).Type()
	if attacker == board.Pawn || m.IsPromotion() {
		return false
	}
	excess := board.PieceValue[attacker] - capturedValue(pos, m) - losingCaptureSlack
	return excess > 0 && pos.IsAttackedBy(m.To(), pos.SideToMove.Other())
}
