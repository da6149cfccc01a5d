package layout

import "fmt"

// BreakLines splits text into lines no wider than maxWidth, measuring with m
// at fontSize. Accumulation is greedy and character by character: each
// character is tentatively appended to the current line, and the line is
// committed when the tentative width strictly exceeds maxWidth while the
// line already holds at least one character. A width exactly equal to
// maxWidth is accepted onto the current line.
//
// Characters are never split or dropped: concatenating the returned lines in
// order reproduces text exactly. A single character wider than maxWidth is
// placed alone on its own line, so individual lines may exceed maxWidth.
//
// Measure failures propagate unchanged and abort the whole call.
func BreakLines(text string, m Metrics, fontSize, maxWidth float64) ([]Line, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if fontSize <= 0 {
		return nil, fmt.Errorf("%w: font size %g", ErrInvalidParam, fontSize)
	}
	if maxWidth <= 0 {
		return nil, fmt.Errorf("%w: max width %g", ErrInvalidParam, maxWidth)
	}

	var lines []Line
	var cur string
	var curWidth float64

	for _, r := range text {
		tentative := cur + string(r)
		w, err := m.WidthOfTextAtSize(tentative, fontSize)
		if err != nil {
			return nil, fmt.Errorf("layout: measuring %q: %w", tentative, err)
		}
		if w > maxWidth && cur != "" {
			lines = append(lines, Line{Text: cur, Width: curWidth})
			cur = string(r)
			curWidth, err = m.WidthOfTextAtSize(cur, fontSize)
			if err != nil {
				return nil, fmt.Errorf("layout: measuring %q: %w", cur, err)
			}
		} else {
			cur = tentative
			curWidth = w
		}
	}

	// The loop always leaves the trailing characters uncommitted.
	lines = append(lines, Line{Text: cur, Width: curWidth})
	return lines, nil
}
