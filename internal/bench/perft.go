// Package bench runs perft over a position: node counts per root move and
// move statistics at the leaves.
package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hailam/bitchess/internal/board"
)

// Stats classifies the moves made on the last ply.
type Stats struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	Checkmates uint64
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Captures += o.Captures
	s.EnPassant += o.EnPassant
	s.Castles += o.Castles
	s.Promotions += o.Promotions
	s.Checks += o.Checks
	s.Checkmates += o.Checkmates
}

// DivideEntry is the leaf count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Report is the result of Run.
type Report struct {
	Depth   int
	Divide  []DivideEntry
	Stats   Stats
	Elapsed time.Duration
}

// Options configure Run.
type Options struct {
	// Parallel searches every root move on its own board clone.
	Parallel bool
	// Workers bounds the goroutines of a parallel run; 0 means GOMAXPROCS.
	Workers int
}

// Run counts the leaves depth plies below b. The board is not modified.
func Run(ctx context.Context, b *board.Board, depth int, opts Options) (Report, error) {
	if depth < 1 {
		return Report{}, fmt.Errorf("perft depth %d: must be at least 1", depth)
	}

	start := time.Now()
	root := b.LegalMoves()
	moves := slices.Clone(root.Slice())
	slices.SortFunc(moves, func(a, c board.Move) int {
		return strings.Compare(a.String(), c.String())
	})

	stats := make([]Stats, len(moves))
	searchMove := func(ctx context.Context, i int) error {
		clone := b.Clone()
		var st Stats
		if err := countMove(ctx, clone, moves[i], depth, &st); err != nil {
			return err
		}
		stats[i] = st
		return nil
	}

	if opts.Parallel {
		g, ctx := errgroup.WithContext(ctx)
		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(workers)
		for i := range moves {
			i := i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return searchMove(ctx, i)
			})
		}
		if err := g.Wait(); err != nil {
			return Report{}, err
		}
	} else {
		for i := range moves {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			if err := searchMove(ctx, i); err != nil {
				return Report{}, err
			}
		}
	}

	r := Report{Depth: depth, Divide: make([]DivideEntry, len(moves))}
	for i, m := range moves {
		r.Divide[i] = DivideEntry{Move: m, Nodes: stats[i].Nodes}
		r.Stats.add(stats[i])
	}
	r.Elapsed = time.Since(start)
	return r, nil
}

// pollMask sets how often countMove checks for cancellation, in leaves.
const pollMask = 4095

// countMove plays m and counts the leaves below it. It returns the
// context's error once ctx is done.
func countMove(ctx context.Context, b *board.Board, m board.Move, depth int, st *Stats) error {
	b.ApplyMove(m)
	defer b.UndoMove()

	if depth == 1 {
		st.Nodes++
		if m.IsCapture() {
			st.Captures++
		}
		if m.Kind() == board.EnPassant {
			st.EnPassant++
		}
		if m.IsCastle() {
			st.Castles++
		}
		if m.IsPromotion() {
			st.Promotions++
		}
		if b.InCheck() {
			st.Checks++
			if b.IsCheckmate() {
				st.Checkmates++
			}
		}
		if st.Nodes&pollMask == 0 {
			return ctx.Err()
		}
		return nil
	}

	ml := b.LegalMoves()
	for _, child := range ml.Slice() {
		if err := countMove(ctx, b, child, depth-1, st); err != nil {
			return err
		}
	}
	return nil
}

// NPS returns the leaf rate of the run.
func (r Report) NPS() uint64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return uint64(float64(r.Stats.Nodes) / r.Elapsed.Seconds())
}

// WriteDivide prints one "move: nodes" line per root move, the format
// perft comparison tools expect.
func (r Report) WriteDivide(w io.Writer) error {
	for _, e := range r.Divide {
		if _, err := fmt.Fprintf(w, "%s: %d\n", e.Move, e.Nodes); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders the totals with digit grouping.
func (r Report) Summary() string {
	s := r.Stats
	return message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s cap=%d enp=%d cas=%d pro=%d chk=%d mate=%d (%.3fs elapsed)",
			r.Depth, s.Nodes, r.NPS(), s.Captures, s.EnPassant, s.Castles, s.Promotions, s.Checks, s.Checkmates,
			r.Elapsed.Seconds())
}
