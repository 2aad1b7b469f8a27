package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	b.GenerateMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for _, m := range ml.Slice() {
		b.ApplyMove(m)
		nodes += b.Perft(depth - 1)
		b.UndoMove()
	}
	return nodes
}
