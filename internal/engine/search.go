package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Search constants
const (
	Infinity       = 32000
	CheckmateScore = 30000
	MaxPly         = 128

	// Scores beyond mateThreshold encode a forced mate.
	mateThreshold = CheckmateScore - MaxPly
)

// Pruning constants
const (
	aspirationWindow = 50
	nullMoveR        = 2
	nullMoveMinDepth = 3
	deltaMargin      = 200

	// Captures by a piece worth more than this over its defended victim
	// are skipped in quiescence.
	losingCaptureSlack = 20
	qsearchMaxPly      = 6

	lmrMinDepth     = 3
	lmrMinMoveIndex = 3
	lmrLateMove     = 6 // from this move index on, reduce by two plies

	// Context and node budget are polled when nodes&nodeCheckMask == 0.
	nodeCheckMask = 2047
)

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool {
	return abs(score) >= mateThreshold
}

// MateIn converts a mate score to UCI moves: positive when the side to
// move mates, negative when it is mated.
func MateIn(score int) int {
	if score > 0 {
		return (CheckmateScore - score + 1) / 2
	}
	return -(CheckmateScore + score + 1) / 2
}

// FormatScore renders a score as the UCI "cp N" or "mate N".
func FormatScore(score int) string {
	if IsMateScore(score) {
		return fmt.Sprintf("mate %d", MateIn(score))
	}
	return fmt.Sprintf("cp %d", score)
}

type number interface {
	constraints.Integer | constraints.Float
}

func abs[T number](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func clamp[T constraints.Ordered](x, lo, hi T) T {
	return max(lo, min(x, hi))
}
