// Package preset defines a JSON stamp-configuration schema so slot
// geometry, fonts and colors can ship alongside their template PDFs.
//
// A preset captures everything about a stamp except the name being stamped.
// The zero fields of a loaded preset are filled from the built-in reference
// configuration: 120pt font, 1.4 line height, 180pt top margin, 30pt
// horizontal margin, warm off-white text.
//
// Example JSON:
//
//	{
//	  "name": "graduation-certificate",
//	  "template": "templates/certificate.pdf",
//	  "font": "fonts/MaShanZheng-Regular.ttf",
//	  "fontSize": 120,
//	  "lineHeight": 1.4,
//	  "topMargin": 180,
//	  "horizontalMargin": 30,
//	  "color": {"r": 1, "g": 0.98, "b": 0.94},
//	  "barcode": {"kind": "qr", "content": "https://example.com/verify/1234"}
//	}
package preset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lvillar/nameplate/layout"
	"github.com/lvillar/nameplate/overlay"
)

// Color is an RGB color with components in the unit interval.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Barcode configures the optional machine-readable stamp.
type Barcode struct {
	Kind    string  `json:"kind"` // qr, pdf417, code128
	Content string  `json:"content"`
	Size    float64 `json:"size,omitempty"`   // width in points
	Margin  float64 `json:"margin,omitempty"` // inset from page edges in points
}

// Preset is a named stamp configuration.
type Preset struct {
	Name             string   `json:"name,omitempty"`
	Template         string   `json:"template,omitempty"` // path to the template PDF
	Font             string   `json:"font,omitempty"`     // path to the TrueType font
	FontFamily       string   `json:"fontFamily,omitempty"`
	Page             int      `json:"page,omitempty"` // 1-based target page
	FontSize         float64  `json:"fontSize,omitempty"`
	LineHeight       float64  `json:"lineHeight,omitempty"`
	TopMargin        float64  `json:"topMargin,omitempty"`
	HorizontalMargin float64  `json:"horizontalMargin,omitempty"`
	Color            *Color   `json:"color,omitempty"`
	Barcode          *Barcode `json:"barcode,omitempty"`
}

// Default returns the reference configuration.
func Default() Preset {
	return Preset{
		Page:             1,
		FontSize:         120,
		LineHeight:       1.4,
		TopMargin:        180,
		HorizontalMargin: 30,
		Color:            &Color{R: 1, G: 0.98, B: 0.94},
	}
}

// Load parses a preset from JSON and fills unset fields with defaults.
func Load(r io.Reader) (*Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("preset: reading input: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("preset: parsing JSON: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile parses the preset file at path.
func LoadFile(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preset: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func (p *Preset) applyDefaults() {
	def := Default()
	if p.Page == 0 {
		p.Page = def.Page
	}
	if p.FontSize == 0 {
		p.FontSize = def.FontSize
	}
	if p.LineHeight == 0 {
		p.LineHeight = def.LineHeight
	}
	if p.TopMargin == 0 {
		p.TopMargin = def.TopMargin
	}
	if p.HorizontalMargin == 0 {
		p.HorizontalMargin = def.HorizontalMargin
	}
	if p.Color == nil {
		p.Color = def.Color
	}
}

// Validate checks the preset for values the pipeline would reject later.
func (p *Preset) Validate() error {
	if p.FontSize <= 0 {
		return fmt.Errorf("preset: font size %g", p.FontSize)
	}
	if p.LineHeight <= 0 {
		return fmt.Errorf("preset: line height %g", p.LineHeight)
	}
	if p.Page < 1 {
		return fmt.Errorf("preset: page %d", p.Page)
	}
	for _, c := range []float64{p.Color.R, p.Color.G, p.Color.B} {
		if c < 0 || c > 1 {
			return fmt.Errorf("preset: color component %g outside [0, 1]", c)
		}
	}
	if p.Barcode != nil {
		if _, err := p.Barcode.kind(); err != nil {
			return err
		}
		if p.Barcode.Content == "" {
			return fmt.Errorf("preset: barcode without content")
		}
	}
	return nil
}

// LayoutParams builds the layout geometry for a page of the given size.
func (p *Preset) LayoutParams(pageWidth, pageHeight float64) layout.Params {
	return layout.Params{
		FontSize:         p.FontSize,
		LineHeight:       p.LineHeight,
		PageWidth:        pageWidth,
		PageHeight:       pageHeight,
		TopMargin:        p.TopMargin,
		HorizontalMargin: p.HorizontalMargin,
	}
}

// TextColor converts the preset color for the emitter.
func (p *Preset) TextColor() overlay.Color {
	return overlay.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B}
}

// BarcodeSpec converts the optional barcode for the emitter; nil when the
// preset has none.
func (p *Preset) BarcodeSpec() (*overlay.Barcode, error) {
	if p.Barcode == nil {
		return nil, nil
	}
	kind, err := p.Barcode.kind()
	if err != nil {
		return nil, err
	}
	return &overlay.Barcode{
		Kind:    kind,
		Content: p.Barcode.Content,
		Size:    p.Barcode.Size,
		Margin:  p.Barcode.Margin,
	}, nil
}

func (b *Barcode) kind() (overlay.BarcodeKind, error) {
	switch b.Kind {
	case "", "qr":
		return overlay.BarcodeQR, nil
	case "pdf417":
		return overlay.BarcodePDF417, nil
	case "code128":
		return overlay.BarcodeCode128, nil
	default:
		return 0, fmt.Errorf("preset: unknown barcode kind %q", b.Kind)
	}
}
