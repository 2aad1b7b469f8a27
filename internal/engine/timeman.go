package engine

import (
	"time"

	"github.com/hailam/bitchess/internal/board"
)

// Limits bounds a search. Zero values mean "no limit" for every field.
type Limits struct {
	Depth     int              // maximum iteration depth
	Nodes     uint64           // node budget, checked every few thousand nodes
	MoveTime  time.Duration    // fixed time for this move
	Time      [2]time.Duration // remaining clock per color
	Inc       [2]time.Duration // increment per color
	MovesToGo int              // moves to the next time control, 0 for sudden death
	Infinite  bool             // run until stopped
}

// timed reports whether the limits put the search on a clock.
func (l Limits) timed(us board.Color) bool {
	return !l.Infinite && (l.MoveTime > 0 || l.Time[us] > 0)
}

// TimeManager splits the clock into a soft and a hard budget. The soft
// (optimum) budget is checked between iterations, the hard (maximum)
// budget becomes the search context's deadline.
type TimeManager struct {
	optimum time.Duration
	maximum time.Duration
	start   time.Time
	enabled bool
}

// Init sets the budget for a search by us at the given game ply.
func (tm *TimeManager) Init(limits Limits, us board.Color, ply int) {
	tm.start = time.Now()
	tm.enabled = limits.timed(us)
	if !tm.enabled {
		tm.optimum, tm.maximum = 0, 0
		return
	}

	if limits.MoveTime > 0 {
		tm.optimum = limits.MoveTime
		tm.maximum = limits.MoveTime
		return
	}

	left := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = clamp(50-ply/4, 10, 50)
	}

	tm.optimum = left/time.Duration(mtg) + inc*9/10
	if ply < 8 {
		tm.optimum = tm.optimum * 85 / 100
	}

	tm.maximum = min(tm.optimum*5, left*8/10)

	tm.optimum = max(tm.optimum, 10*time.Millisecond)
	tm.maximum = max(tm.maximum, 50*time.Millisecond)
	// The floors must not outlast the clock itself.
	tm.maximum = min(tm.maximum, left*95/100)
	tm.optimum = min(tm.optimum, tm.maximum)
}

// Enabled reports whether the search runs on a clock.
func (tm *TimeManager) Enabled() bool { return tm.enabled }

func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

func (tm *TimeManager) Optimum() time.Duration { return tm.optimum }

func (tm *TimeManager) Maximum() time.Duration { return tm.maximum }

// PastOptimum reports whether a new iteration should not be started.
func (tm *TimeManager) PastOptimum() bool {
	return tm.enabled && tm.Elapsed() >= tm.optimum
}
