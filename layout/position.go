package layout

// PositionLines assigns a baseline origin to every line so that the block's
// vertical midpoint sits at p.TargetCenterY() and each line is centered
// under the page's horizontal midpoint.
//
// Each line's height is approximated by the font size; the distance between
// consecutive baselines is fontSize * lineHeight. Lines proceed downward as
// the index grows, matching reading order. No clipping against the page
// edges is performed: an unbreakable over-wide line or a tall block simply
// overflows the visible page area.
func PositionLines(lines []Line, p Params) []PlacedLine {
	lineHeight := p.FontSize * p.LineHeight
	totalTextHeight := float64(len(lines)-1)*lineHeight + p.FontSize
	startY := p.TargetCenterY() + totalTextHeight/2 - p.FontSize

	placed := make([]PlacedLine, len(lines))
	for i, ln := range lines {
		placed[i] = PlacedLine{
			Line: ln,
			X:    (p.PageWidth - ln.Width) / 2,
			Y:    startY - float64(i)*lineHeight,
		}
	}
	return placed
}
