// Package engine searches positions for the best move: iterative deepening
// over a fail-hard alpha-beta search with a transposition table.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/hailam/bitchess/internal/board"
)

// SearchInfo describes one completed iteration.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int
	Time     time.Duration
	Nodes    uint64
	NPS      uint64
	HashFull int // permille
	PV       []board.Move
}

// Result is the outcome of a search. Move, Score and Depth come from the
// deepest completed iteration.
type Result struct {
	Move    board.Move
	Score   int
	Depth   int
	Nodes   uint64
	PV      []board.Move
	Stopped bool // the last iteration was cut short
}

// Engine owns a transposition table and runs one search at a time.
type Engine struct {
	tt   *TranspositionTable
	eval Evaluator
	log  logr.Logger

	// OnInfo, when set, is called after every completed iteration.
	OnInfo func(SearchInfo)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEvaluator replaces the default evaluation.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// NewEngine creates an engine with a hashMB megabyte transposition table.
func NewEngine(hashMB int, opts ...Option) *Engine {
	e := &Engine{
		tt:   NewTranspositionTable(hashMB),
		eval: DefaultEvaluator,
		log:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log.V(1).Info("transposition table allocated",
		"size", humanize.IBytes(e.tt.Bytes()), "slots", humanize.Comma(int64(e.tt.Slots())))
	return e
}

// SetHashSize reallocates the transposition table. It must not be called
// during a search.
func (e *Engine) SetHashSize(mb int) {
	e.tt.Resize(mb)
	e.log.V(1).Info("transposition table resized", "size", humanize.IBytes(e.tt.Bytes()))
}

// Clear empties the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Stop cancels the running search, if any. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) setCancel(cancel context.CancelFunc) {
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
}

// Evaluate returns the static evaluation of pos for the side to move.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}

// Search finds the best move for the side to move in b within limits. The
// search runs on a clone, so b is left untouched. It returns when a limit
// is reached, ctx is done or Stop is called.
func (e *Engine) Search(ctx context.Context, b *board.Board, limits Limits) Result {
	var tm TimeManager
	tm.Init(limits, b.SideToMove, 2*(b.FullMoveNumber-1)+int(b.SideToMove))

	var cancel context.CancelFunc
	if tm.Enabled() {
		ctx, cancel = context.WithTimeout(ctx, tm.Maximum())
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	e.setCancel(cancel)
	defer func() {
		e.setCancel(nil)
		cancel()
	}()

	e.tt.NewSearch()
	w := newWorker(ctx, b.Clone(), e.tt, e.eval, limits.Nodes)

	var res Result
	legal := b.LegalMoves()
	if legal.Len() == 0 {
		if b.InCheck() {
			res.Score = -CheckmateScore
		}
		return res
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}

	prev := 0
	for depth := 1; depth <= maxDepth; depth++ {
		w.selDepth = 0
		alpha, beta := -Infinity, Infinity
		if depth > 1 {
			alpha, beta = prev-aspirationWindow, prev+aspirationWindow
		}
		score, move := w.searchRoot(depth, alpha, beta)
		if !w.stopped && (score <= alpha || score >= beta) {
			e.log.V(2).Info("aspiration window failed", "depth", depth, "score", score, "alpha", alpha, "beta", beta)
			score, move = w.searchRoot(depth, -Infinity, Infinity)
		}
		if w.stopped {
			res.Stopped = true
			break
		}

		prev = score
		res.Move, res.Score, res.Depth = move, score, depth
		res.PV = e.principalVariation(b, move)
		e.report(&tm, w, res)

		if tm.PastOptimum() {
			break
		}
		if !limits.Infinite && IsMateScore(score) && CheckmateScore-abs(score) <= depth {
			break
		}
	}

	if res.Move == board.NoMove {
		res.Move = legal.Get(0)
		res.PV = []board.Move{res.Move}
	}
	res.Nodes = w.nodes

	e.log.V(1).Info("search finished",
		"bestmove", res.Move.String(),
		"score", FormatScore(res.Score),
		"depth", res.Depth,
		"nodes", humanize.Comma(int64(res.Nodes)),
		"elapsed", tm.Elapsed().Round(time.Millisecond),
		"stopped", res.Stopped,
		"ttHitRate", fmt.Sprintf("%.1f%%", e.tt.HitRate()))
	return res
}

func (e *Engine) report(tm *TimeManager, w *worker, res Result) {
	if e.OnInfo == nil {
		return
	}
	elapsed := tm.Elapsed()
	var nps uint64
	if elapsed > 0 {
		nps = uint64(float64(w.nodes) / elapsed.Seconds())
	}
	e.OnInfo(SearchInfo{
		Depth:    res.Depth,
		SelDepth: w.selDepth,
		Score:    res.Score,
		Time:     elapsed,
		Nodes:    w.nodes,
		NPS:      nps,
		HashFull: e.tt.HashFull(),
		PV:       res.PV,
	})
}

// principalVariation follows table moves from the root after first. Every
// move is checked for legality and the walk stops on a repeated position.
func (e *Engine) principalVariation(root *board.Board, first board.Move) []board.Move {
	if first == board.NoMove {
		return nil
	}
	b := root.Clone()
	pv := []board.Move{first}
	seen := map[uint64]bool{b.Hash(): true}
	b.ApplyMove(first)

	for len(pv) < MaxPly {
		if seen[b.Hash()] {
			break
		}
		seen[b.Hash()] = true
		entry, ok := e.tt.Lookup(b.Hash())
		if !ok || !b.IsLegal(entry.Move) {
			break
		}
		pv = append(pv, entry.Move)
		b.ApplyMove(entry.Move)
	}
	return pv
}

// ScoreToString renders a score for people: "+1.25", "Mate in 3".
func ScoreToString(score int) string {
	if IsMateScore(score) {
		n := MateIn(score)
		if n > 0 {
			return fmt.Sprintf("Mate in %d", n)
		}
		return fmt.Sprintf("Mated in %d", -n)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}
