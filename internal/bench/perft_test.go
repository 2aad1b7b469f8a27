package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hailam/bitchess/internal/board"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestRunStats(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  Stats
	}{
		{"start d3", board.StartFEN, 3, Stats{Nodes: 8902, Captures: 34, Checks: 12}},
		{"start d4", board.StartFEN, 4, Stats{Nodes: 197281, Captures: 1576, Checks: 469, Checkmates: 8}},
		{"kiwipete d1", kiwipeteFEN, 1, Stats{Nodes: 48, Captures: 8, Castles: 2}},
		{"kiwipete d2", kiwipeteFEN, 2, Stats{Nodes: 2039, Captures: 351, EnPassant: 1, Castles: 91, Checks: 3}},
	}
	for _, tc := range tests {
		for _, parallel := range []bool{false, true} {
			name := tc.name
			if parallel {
				name += " parallel"
			}
			t.Run(name, func(t *testing.T) {
				b := board.MustParseFEN(tc.fen)
				r, err := Run(context.Background(), b, tc.depth, Options{Parallel: parallel})
				if err != nil {
					t.Fatalf("Run: %v", err)
				}
				if r.Stats != tc.want {
					t.Errorf("stats = %+v, want %+v", r.Stats, tc.want)
				}
				if b.FEN() != board.MustParseFEN(tc.fen).FEN() || b.Ply() != 0 {
					t.Errorf("board modified: %s", b.FEN())
				}
			})
		}
	}
}

func TestDivide(t *testing.T) {
	r, err := Run(context.Background(), board.NewBoard(), 2, Options{Parallel: true, Workers: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.Divide) != 20 {
		t.Fatalf("%d root moves, want 20", len(r.Divide))
	}
	var sum uint64
	for i, e := range r.Divide {
		sum += e.Nodes
		if e.Nodes != 20 {
			t.Errorf("%v: %d replies, want 20", e.Move, e.Nodes)
		}
		if i > 0 && r.Divide[i-1].Move.String() > e.Move.String() {
			t.Errorf("divide not sorted at %v", e.Move)
		}
	}
	if sum != r.Stats.Nodes {
		t.Errorf("divide sums to %d, total %d", sum, r.Stats.Nodes)
	}

	var buf bytes.Buffer
	if err := r.WriteDivide(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "e2e4: 20\n") {
		t.Errorf("divide output:\n%s", buf.String())
	}
	if s := r.Summary(); !strings.Contains(s, "d=2 nodes=400 ") {
		t.Errorf("summary %q", s)
	}
}

func TestSummaryGroupsDigits(t *testing.T) {
	r := Report{Depth: 5, Stats: Stats{Nodes: 4865609}}
	if s := r.Summary(); !strings.Contains(s, "nodes=4,865,609") {
		t.Errorf("summary %q lacks digit grouping", s)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), board.NewBoard(), 0, Options{}); err == nil {
		t.Error("depth 0 accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, parallel := range []bool{false, true} {
		if _, err := Run(ctx, board.NewBoard(), 3, Options{Parallel: parallel}); err == nil {
			t.Errorf("parallel=%v: cancelled context not reported", parallel)
		}
	}
}

func TestRunStopsInsideDeepTree(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		start := time.Now()
		_, err := Run(ctx, board.NewBoard(), 8, Options{Parallel: parallel})
		cancel()
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("parallel=%v: err = %v, want deadline exceeded", parallel, err)
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("parallel=%v: run took %v after the deadline", parallel, elapsed)
		}
	}
}
