package engine

import (
	"github.com/hailam/bitchess/internal/board"
)

// Bound classifies the score stored with a table entry.
type Bound uint8

const (
	BoundExact Bound = iota // score inside the window
	BoundLower              // beta cutoff, true score >= stored score
	BoundUpper              // failed low, true score <= stored score
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	default:
		return "upper"
	}
}

// TTEntry is one slot of the transposition table.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int16
	Depth int8
	Bound Bound
	gen   uint8 // 0 marks an empty slot
}

// ttEntrySize is the in-memory size of TTEntry with padding.
const ttEntrySize = 16

// TranspositionTable caches search results by position hash. Each hash maps
// to a single slot, key mod slot count. It is owned by one search at a
// time and has no locking.
type TranspositionTable struct {
	entries []TTEntry
	slots   uint64
	gen     uint8

	probes uint64
	hits   uint64
}

// NewTranspositionTable allocates a table of sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	return newTableBytes(uint64(max(sizeMB, 1)) << 20)
}

func newTableBytes(bytes uint64) *TranspositionTable {
	slots := max(bytes/ttEntrySize, 1)
	return &TranspositionTable{
		entries: make([]TTEntry, slots),
		slots:   slots,
		gen:     1,
	}
}

// Resize reallocates the table to sizeMB megabytes, dropping every entry.
func (tt *TranspositionTable) Resize(sizeMB int) {
	*tt = *NewTranspositionTable(sizeMB)
}

// Slots returns the number of entries the table holds.
func (tt *TranspositionTable) Slots() uint64 { return tt.slots }

// Bytes returns the memory held by the entries.
func (tt *TranspositionTable) Bytes() uint64 { return tt.slots * ttEntrySize }

func (tt *TranspositionTable) slot(key uint64) *TTEntry {
	return &tt.entries[key%tt.slots]
}

// Probe looks key up for a node searched to depth with window (alpha, beta)
// at distance ply from the root. ok is true when the stored score can be
// returned as the node's value. On a key match the stored move comes back
// even when ok is false, for move ordering.
func (tt *TranspositionTable) Probe(key uint64, depth, alpha, beta, ply int) (score int, move board.Move, ok bool) {
	tt.probes++
	e := tt.slot(key)
	if e.gen == 0 || e.Key != key {
		return 0, board.NoMove, false
	}
	tt.hits++

	score = scoreFromTT(int(e.Score), ply)
	if int(e.Depth) < depth {
		return score, e.Move, false
	}
	switch e.Bound {
	case BoundExact:
		ok = true
	case BoundLower:
		ok = score >= beta
	case BoundUpper:
		ok = score <= alpha
	}
	return score, e.Move, ok
}

// Lookup returns the raw entry stored for key.
func (tt *TranspositionTable) Lookup(key uint64) (TTEntry, bool) {
	e := tt.slot(key)
	if e.gen == 0 || e.Key != key {
		return TTEntry{}, false
	}
	return *e, true
}

// Save stores a search result. The slot is overwritten unless it holds an
// entry from the current search with a strictly greater depth.
func (tt *TranspositionTable) Save(key uint64, depth, score int, bound Bound, move board.Move, ply int) {
	e := tt.slot(key)
	if e.gen == tt.gen && int(e.Depth) > depth {
		return
	}
	*e = TTEntry{
		Key:   key,
		Move:  move,
		Score: int16(scoreToTT(score, ply)),
		Depth: int8(depth),
		Bound: bound,
		gen:   tt.gen,
	}
}

// NewSearch ages every stored entry so the next search may replace them
// freely. Their moves stay available for ordering.
func (tt *TranspositionTable) NewSearch() {
	tt.gen++
	if tt.gen == 0 {
		tt.gen = 1
	}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.gen = 1
	tt.probes, tt.hits = 0, 0
}

// HashFull returns the permille of sampled slots written by the current search.
func (tt *TranspositionTable) HashFull() int {
	sample := min(tt.slots, 1000)
	used := 0
	for _, e := range tt.entries[:sample] {
		if e.gen == tt.gen {
			used++
		}
	}
	return used * 1000 / int(sample)
}

// HitRate returns the share of probes that found their key, in percent.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Mate scores are stored relative to the node, not the root, so they stay
// correct when the position is reached at another ply.
func scoreToTT(score, ply int) int {
	switch {
	case score >= mateThreshold:
		return score + ply
	case score <= -mateThreshold:
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	switch {
	case score >= mateThreshold:
		return score - ply
	case score <= -mateThreshold:
		return score + ply
	}
	return score
}
