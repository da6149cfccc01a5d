// Package metrics measures rendered text using a TrueType or OpenType font
// program's advance-width tables.
//
// It implements the layout.Metrics interface: widths are the sum of the
// per-glyph advances scaled from font units to points. No kerning or shaping
// is applied, matching what the document emitter does when it draws the text.
package metrics

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face wraps a parsed font program and reports text widths.
//
// A Face reuses an internal glyph buffer and is therefore not safe for
// concurrent use; create one Face per goroutine, or guard calls externally.
type Face struct {
	font       *sfnt.Font
	buf        sfnt.Buffer
	unitsPerEm float64
	name       string
}

// Parse parses raw TrueType/OpenType font bytes into a Face.
func Parse(data []byte) (*Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("metrics: parsing font: %w", err)
	}
	upm := f.UnitsPerEm()
	if upm == 0 {
		return nil, fmt.Errorf("metrics: font reports zero units per em")
	}

	face := &Face{font: f, unitsPerEm: float64(upm)}
	if name, err := f.Name(&face.buf, sfnt.NameIDFull); err == nil {
		face.name = name
	}
	return face, nil
}

// Name returns the font's full name, or empty if the name table lacks one.
func (f *Face) Name() string { return f.name }

// UnitsPerEm returns the font's design grid resolution.
func (f *Face) UnitsPerEm() float64 { return f.unitsPerEm }

// WidthOfTextAtSize returns the rendered width of text in points at the
// given font size. Runes without a glyph fall back to the font's notdef
// glyph advance, so the result is always defined for valid font data.
func (f *Face) WidthOfTextAtSize(text string, size float64) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("metrics: invalid font size %g", size)
	}

	// Measuring at ppem == unitsPerEm keeps advances on the design grid,
	// so the only rounding left is the final scale to points.
	ppem := fixed.Int26_6(int32(f.unitsPerEm)) << 6

	var total fixed.Int26_6
	for _, r := range text {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			return 0, fmt.Errorf("metrics: glyph index for %q: %w", r, err)
		}
		adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
		if err != nil {
			return 0, fmt.Errorf("metrics: advance for %q: %w", r, err)
		}
		total += adv
	}

	units := float64(total) / 64
	return units / f.unitsPerEm * size, nil
}
