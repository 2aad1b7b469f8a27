package board

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Render draws the board for a terminal, with the FEN and the hash key
// underneath. The key is flagged INVALID when it disagrees with a hash
// recomputed from scratch. ANSI colours are used only when colored is set.
func (p *Position) Render(colored bool) string {
	white := color.New(color.FgHiYellow, color.Bold)
	black := color.New(color.FgHiBlue, color.Bold)
	light := color.New(color.BgWhite)
	dark := color.New(color.BgHiBlack)
	for _, c := range []*color.Color{white, black, light, dark} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var sb strings.Builder
	sb.WriteString("   +------------------------+\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, " %d |", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			pc := p.pieceAt[sq]

			cell := " . "
			if !pc.IsEmpty() {
				ink := white
				if pc.Color() == Black {
					ink = black
				}
				cell = " " + ink.Sprint(pc.String()) + " "
			}
			if colored {
				bg := dark
				if (file+rank)%2 == 1 {
					bg = light
				}
				cell = bg.Sprint(cell)
			}
			sb.WriteString(cell)
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   +------------------------+\n")
	sb.WriteString("     a  b  c  d  e  f  g  h\n\n")

	fmt.Fprintf(&sb, "Fen: %s\n", p.FEN())
	fmt.Fprintf(&sb, "Key: %016X", p.State.Hash)
	if p.ComputeHash() != p.State.Hash {
		sb.WriteString(" INVALID")
	}
	sb.WriteByte('\n')
	if checkers := p.Checkers(); checkers != 0 {
		sb.WriteString("Checkers:")
		for checkers != 0 {
			sb.WriteString(" " + checkers.PopLSB().String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
