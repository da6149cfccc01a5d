// Package layout converts an arbitrary string into width-measured lines and
// positions them on a page so the block is centered around a fixed vertical
// anchor, with each line horizontally centered.
//
// The package is pure computation: it never touches fonts or documents
// directly. Text widths come from a Metrics provider, and the resulting
// placements are handed to an emitter (see the overlay package) that writes
// the actual page content.
//
// All coordinates are in points with a bottom-left origin and y increasing
// upward, the convention of the underlying document format. Emitters
// targeting a different surface must convert explicitly.
package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the layout engine.
var (
	ErrEmptyText    = errors.New("layout: text is empty")
	ErrInvalidParam = errors.New("layout: invalid parameter")
)

// Metrics reports the rendered width of a text run at a given font size,
// using a loaded font program's advance-width tables.
//
// Implementations must be deterministic, and monotonic non-decreasing in
// string length for any fixed prefix extension; the line breaker relies on
// both properties.
type Metrics interface {
	WidthOfTextAtSize(text string, size float64) (float64, error)
}

// Line is a measured run of text produced by BreakLines. It is immutable
// after creation.
type Line struct {
	Text  string
	Width float64 // rendered width in points at the layout font size
}

// PlacedLine pairs a Line with its baseline origin on the page.
type PlacedLine struct {
	Line
	X, Y float64
}

// Params is the immutable configuration for one layout request.
// All lengths are in points.
type Params struct {
	FontSize         float64
	LineHeight       float64 // multiplier applied to FontSize per line step
	PageWidth        float64
	PageHeight       float64
	TopMargin        float64
	HorizontalMargin float64 // applied to both sides
}

// MaxWidth returns the width available to a single line.
func (p Params) MaxWidth() float64 {
	return p.PageWidth - 2*p.HorizontalMargin
}

// TargetCenterY returns the fixed vertical anchor: the point where the
// vertical center of a single-line block sits. The anchor does not move as
// the line count grows; the whole block shifts around it instead.
func (p Params) TargetCenterY() float64 {
	return p.PageHeight - p.TopMargin - p.FontSize/2
}

// Validate reports whether the parameters describe a usable geometry.
func (p Params) Validate() error {
	if p.FontSize <= 0 {
		return fmt.Errorf("%w: font size %g", ErrInvalidParam, p.FontSize)
	}
	if p.LineHeight <= 0 {
		return fmt.Errorf("%w: line height multiplier %g", ErrInvalidParam, p.LineHeight)
	}
	if p.PageWidth <= 0 || p.PageHeight <= 0 {
		return fmt.Errorf("%w: page size %gx%g", ErrInvalidParam, p.PageWidth, p.PageHeight)
	}
	if p.MaxWidth() <= 0 {
		return fmt.Errorf("%w: horizontal margin %g leaves no line width", ErrInvalidParam, p.HorizontalMargin)
	}
	return nil
}

// Layout is the engine's single entry point: it breaks text into lines and
// places them on the page. The returned slice has one element per broken
// line, in reading order.
//
// Empty text must be rejected by the caller before layout; Layout treats it
// as an error rather than producing an empty placement.
func Layout(text string, m Metrics, p Params) ([]PlacedLine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	lines, err := BreakLines(text, m, p.FontSize, p.MaxWidth())
	if err != nil {
		return nil, err
	}
	return PositionLines(lines, p), nil
}
