// Package nameplate stamps a person's name onto a fixed PDF template at a
// precomputed visual slot, using a custom TrueType font.
//
// The heart of the pipeline is the layout package: it breaks the name into
// width-measured lines and centers the block around a fixed anchor point.
// This package wires the surrounding machinery together: the font byte
// cache, the sfnt-backed glyph metrics, the template reader, and the
// overlay emitter that produces the final document bytes.
//
//	stamper := nameplate.New(
//		nameplate.WithFontFile("fonts/MaShanZheng-Regular.ttf"),
//		nameplate.WithFontSize(120),
//	)
//	err := stamper.StampFile("out.pdf", "certificate.pdf", "小明")
package nameplate

import (
	"fmt"
	"io"
	"strings"

	"github.com/lvillar/nameplate/fontcache"
	"github.com/lvillar/nameplate/layout"
	"github.com/lvillar/nameplate/metrics"
	"github.com/lvillar/nameplate/overlay"
	"github.com/lvillar/nameplate/reader"
)

// Stamper generates stamped PDFs from a fixed slot configuration. It is
// safe for reuse across many names; the font bytes are loaded once and
// shared through the cache.
type Stamper struct {
	cfg *config
}

// New creates a Stamper. Without options it uses the reference slot
// configuration (120pt font, 1.4 line height, 180pt top margin, 30pt
// horizontal margin, warm off-white text) but no font: configure one with
// WithFontFile or WithFontBytes before stamping.
func New(opts ...Option) *Stamper {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cache == nil {
		cfg.cache = fontcache.New()
	}
	return &Stamper{cfg: cfg}
}

// Stamp lays out name, overlays it on the template at templatePath, and
// writes the final PDF to w.
func (s *Stamper) Stamp(w io.Writer, templatePath, name string) error {
	stamp, err := s.buildStamp(templatePath, name)
	if err != nil {
		return err
	}
	if err := overlay.Draw(w, stamp); err != nil {
		return newStampError("Draw", err)
	}
	return nil
}

// StampFile is Stamp writing to a file.
func (s *Stamper) StampFile(outputPath, templatePath, name string) error {
	stamp, err := s.buildStamp(templatePath, name)
	if err != nil {
		return err
	}
	if err := overlay.DrawToFile(outputPath, stamp); err != nil {
		return newStampError("Draw", err)
	}
	return nil
}

// Preview returns the placement the stamp would use, without producing a
// document: one (line, x, y) triple per broken line, in reading order.
func (s *Stamper) Preview(templatePath, name string) ([]layout.PlacedLine, error) {
	return s.layoutOnTemplate(templatePath, name)
}

func (s *Stamper) buildStamp(templatePath, name string) (overlay.Stamp, error) {
	placed, err := s.layoutOnTemplate(templatePath, name)
	if err != nil {
		return overlay.Stamp{}, err
	}
	data, err := s.fontBytes()
	if err != nil {
		return overlay.Stamp{}, err
	}
	return overlay.Stamp{
		TemplatePath: templatePath,
		Page:         s.cfg.page,
		Font:         overlay.Font{Family: s.cfg.fontFamily, Data: data},
		FontSize:     s.cfg.fontSize,
		Color:        s.cfg.color,
		Lines:        placed,
		Barcode:      s.cfg.barcode,
	}, nil
}

// layoutOnTemplate validates the inputs, loads font and template geometry,
// and runs the layout engine.
func (s *Stamper) layoutOnTemplate(templatePath, name string) ([]layout.PlacedLine, error) {
	// Empty names are rejected at the boundary, before the layout engine
	// is ever invoked.
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if s.cfg.fontSize <= 0 || s.cfg.lineHeight <= 0 {
		return nil, fmt.Errorf("%w: font size %g, line height %g",
			ErrInvalidParam, s.cfg.fontSize, s.cfg.lineHeight)
	}

	data, err := s.fontBytes()
	if err != nil {
		return nil, err
	}
	face, err := metrics.Parse(data)
	if err != nil {
		return nil, newStampError("LoadFont", err)
	}

	doc, err := reader.Open(templatePath)
	if err != nil {
		return nil, newStampError("OpenTemplate", fmt.Errorf("%w: %v", ErrBadTemplate, err))
	}
	page, err := doc.Page(s.cfg.page)
	if err != nil {
		return nil, newStampError("OpenTemplate", err)
	}

	params := layout.Params{
		FontSize:         s.cfg.fontSize,
		LineHeight:       s.cfg.lineHeight,
		PageWidth:        page.MediaBox.Width(),
		PageHeight:       page.MediaBox.Height(),
		TopMargin:        s.cfg.topMargin,
		HorizontalMargin: s.cfg.horizontalMargin,
	}
	placed, err := layout.Layout(name, face, params)
	if err != nil {
		return nil, newStampError("Layout", err)
	}
	return placed, nil
}

// fontBytes returns the configured font program, loading through the cache
// when a file path is configured.
func (s *Stamper) fontBytes() ([]byte, error) {
	if len(s.cfg.fontData) > 0 {
		return s.cfg.fontData, nil
	}
	if s.cfg.fontPath == "" {
		return nil, ErrNoFont
	}
	data, err := s.cfg.cache.GetOrLoad(s.cfg.fontPath, fontcache.FileLoader(s.cfg.fontPath))
	if err != nil {
		return nil, newStampError("LoadFont", err)
	}
	return data, nil
}
