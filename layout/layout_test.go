package layout_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/nameplate/layout"
)

// fixedMetrics reports the same width for every character, ignoring the font
// size. Deterministic and monotonic, which is all the line breaker needs.
type fixedMetrics struct {
	perChar float64
}

func (m fixedMetrics) WidthOfTextAtSize(text string, size float64) (float64, error) {
	return float64(len([]rune(text))) * m.perChar, nil
}

// tableMetrics reports per-rune widths from a table, falling back to def.
type tableMetrics struct {
	widths map[rune]float64
	def    float64
}

func (m tableMetrics) WidthOfTextAtSize(text string, size float64) (float64, error) {
	var total float64
	for _, r := range text {
		if w, ok := m.widths[r]; ok {
			total += w
		} else {
			total += m.def
		}
	}
	return total, nil
}

// failingMetrics fails every measurement with a fixed error.
type failingMetrics struct {
	err error
}

func (m failingMetrics) WidthOfTextAtSize(text string, size float64) (float64, error) {
	return 0, m.err
}

func lineTexts(lines []layout.Line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.Text
	}
	return out
}

func TestBreakLinesSingleLine(t *testing.T) {
	// Two characters at width 10 each fit comfortably into 100pt.
	lines, err := layout.BreakLines("小明", fixedMetrics{perChar: 10}, 120, 100)
	if err != nil {
		t.Fatalf("BreakLines: %v", err)
	}
	want := []string{"小明"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if lines[0].Width != 20 {
		t.Errorf("line width = %g, want 20", lines[0].Width)
	}
}

func TestBreakLinesEveryTwoChars(t *testing.T) {
	// Ten characters of width 10 against maxWidth 25: the third tentative
	// character measures 30 > 25, so lines commit every two characters.
	lines, err := layout.BreakLines("abcdefghij", fixedMetrics{perChar: 10}, 12, 25)
	if err != nil {
		t.Fatalf("BreakLines: %v", err)
	}
	want := []string{"ab", "cd", "ef", "gh", "ij"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestBreakLinesOverwideCharAlone(t *testing.T) {
	m := tableMetrics{widths: map[rune]float64{'W': 80}, def: 10}
	lines, err := layout.BreakLines("aWa", m, 12, 30)
	if err != nil {
		t.Fatalf("BreakLines: %v", err)
	}
	// 'W' alone exceeds maxWidth but is never split; it gets its own line.
	want := []string{"a", "W", "a"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if lines[1].Width <= 30 {
		t.Errorf("overwide line width = %g, want > 30", lines[1].Width)
	}
}

func TestBreakLinesExactWidthAccepted(t *testing.T) {
	// The overflow comparison is strict: a tentative width equal to
	// maxWidth stays on the current line.
	lines, err := layout.BreakLines("abc", fixedMetrics{perChar: 10}, 12, 30)
	if err != nil {
		t.Fatalf("BreakLines: %v", err)
	}
	if len(lines) != 1 || lines[0].Text != "abc" {
		t.Errorf("got %v, want single line \"abc\"", lineTexts(lines))
	}
}

func TestBreakLinesConcatenationInvariant(t *testing.T) {
	inputs := []string{
		"a",
		"小明",
		"张伟强",
		"a very long western name with spaces",
		"ÀÁÂÃÄÅÆÇÈÉÊ",
		"日本語のテキストを改行する",
		strings.Repeat("x", 97),
	}
	for _, maxWidth := range []float64{10, 25, 35, 1000} {
		for _, in := range inputs {
			lines, err := layout.BreakLines(in, fixedMetrics{perChar: 10}, 12, maxWidth)
			if err != nil {
				t.Fatalf("BreakLines(%q, maxWidth=%g): %v", in, maxWidth, err)
			}
			var sb strings.Builder
			for _, ln := range lines {
				if ln.Text == "" {
					t.Errorf("BreakLines(%q, maxWidth=%g): empty output line", in, maxWidth)
				}
				sb.WriteString(ln.Text)
			}
			if sb.String() != in {
				t.Errorf("BreakLines(%q, maxWidth=%g): concatenation = %q", in, maxWidth, sb.String())
			}
		}
	}
}

func TestBreakLinesWidthMonotonic(t *testing.T) {
	// Widening maxWidth never increases the line count.
	const input = "一二三四五六七八九十"
	prev := math.MaxInt
	for maxWidth := 10.0; maxWidth <= 120; maxWidth += 5 {
		lines, err := layout.BreakLines(input, fixedMetrics{perChar: 10}, 12, maxWidth)
		if err != nil {
			t.Fatalf("BreakLines(maxWidth=%g): %v", maxWidth, err)
		}
		if len(lines) > prev {
			t.Errorf("maxWidth %g: line count %d increased from %d", maxWidth, len(lines), prev)
		}
		prev = len(lines)
	}
}

func TestBreakLinesErrors(t *testing.T) {
	measureErr := fmt.Errorf("glyph table corrupt")

	tests := []struct {
		name     string
		text     string
		metrics  layout.Metrics
		fontSize float64
		maxWidth float64
		want     error
	}{
		{"empty text", "", fixedMetrics{perChar: 10}, 12, 100, layout.ErrEmptyText},
		{"zero font size", "ab", fixedMetrics{perChar: 10}, 0, 100, layout.ErrInvalidParam},
		{"negative max width", "ab", fixedMetrics{perChar: 10}, 12, -1, layout.ErrInvalidParam},
		{"measure failure", "ab", failingMetrics{err: measureErr}, 12, 100, measureErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layout.BreakLines(tt.text, tt.metrics, tt.fontSize, tt.maxWidth)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPositionLinesHorizontalCentering(t *testing.T) {
	p := layout.Params{
		FontSize:         120,
		LineHeight:       1.4,
		PageWidth:        595,
		PageHeight:       800,
		TopMargin:        180,
		HorizontalMargin: 30,
	}
	lines := []layout.Line{
		{Text: "short", Width: 100},
		{Text: "a much longer line", Width: 430},
		{Text: "mid", Width: 250},
	}
	placed := layout.PositionLines(lines, p)
	if len(placed) != len(lines) {
		t.Fatalf("placed %d lines, want %d", len(placed), len(lines))
	}
	for i, pl := range placed {
		center := pl.X + pl.Width/2
		if math.Abs(center-p.PageWidth/2) > 1e-9 {
			t.Errorf("line %d: center = %g, want %g", i, center, p.PageWidth/2)
		}
	}
}

func TestPositionLinesTwoLineGolden(t *testing.T) {
	// Reference configuration: targetCenterY = 800-180-60 = 560 and the
	// baselines of consecutive lines differ by exactly 120*1.4 = 168.
	p := layout.Params{
		FontSize:         120,
		LineHeight:       1.4,
		PageWidth:        595,
		PageHeight:       800,
		TopMargin:        180,
		HorizontalMargin: 30,
	}
	if got := p.TargetCenterY(); got != 560 {
		t.Fatalf("TargetCenterY = %g, want 560", got)
	}
	placed := layout.PositionLines([]layout.Line{
		{Text: "张伟", Width: 240},
		{Text: "强", Width: 120},
	}, p)
	if got := placed[0].Y; got != 584 {
		t.Errorf("first line y = %g, want 584", got)
	}
	if got := placed[0].Y - placed[1].Y; got != 168 {
		t.Errorf("baseline step = %g, want 168", got)
	}
}

func TestPositionLinesAnchorStability(t *testing.T) {
	p := layout.Params{
		FontSize:         120,
		LineHeight:       1.4,
		PageWidth:        595,
		PageHeight:       800,
		TopMargin:        180,
		HorizontalMargin: 30,
	}
	target := p.TargetCenterY()

	for n := 1; n <= 5; n++ {
		lines := make([]layout.Line, n)
		for i := range lines {
			lines[i] = layout.Line{Text: "口", Width: 120}
		}
		placed := layout.PositionLines(lines, p)

		// The block midpoint, from the top of the first line to the
		// baseline of the last, must sit at the anchor for any count.
		top := placed[0].Y + p.FontSize
		bottom := placed[n-1].Y
		mid := (top + bottom) / 2
		if math.Abs(mid-target) > 1e-9 {
			t.Errorf("%d lines: block midpoint = %g, want %g", n, mid, target)
		}
	}
}

func TestLayoutEndToEnd(t *testing.T) {
	p := layout.Params{
		FontSize:         120,
		LineHeight:       1.4,
		PageWidth:        595,
		PageHeight:       800,
		TopMargin:        180,
		HorizontalMargin: 30,
	}
	// Width 180 per character against 595 - 60 = 535pt: every third
	// tentative character measures 540 > 535, so lines hold two
	// characters each.
	placed, err := layout.Layout("王小明珠峰", fixedMetrics{perChar: 180}, p)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	want := []string{"王小", "明珠", "峰"}
	got := make([]string, len(placed))
	for i, pl := range placed {
		got[i] = pl.Text
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(placed); i++ {
		if step := placed[i-1].Y - placed[i].Y; step != 168 {
			t.Errorf("step %d = %g, want 168", i, step)
		}
	}
}

func TestLayoutInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    layout.Params
	}{
		{"zero font size", layout.Params{LineHeight: 1.4, PageWidth: 595, PageHeight: 800}},
		{"zero line height", layout.Params{FontSize: 120, PageWidth: 595, PageHeight: 800}},
		{"zero page", layout.Params{FontSize: 120, LineHeight: 1.4}},
		{"margin eats page", layout.Params{FontSize: 120, LineHeight: 1.4, PageWidth: 100, PageHeight: 800, HorizontalMargin: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := layout.Layout("ab", fixedMetrics{perChar: 10}, tt.p); !errors.Is(err, layout.ErrInvalidParam) {
				t.Errorf("error = %v, want ErrInvalidParam", err)
			}
		})
	}
}
