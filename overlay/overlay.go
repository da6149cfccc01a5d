// Package overlay stamps laid-out text onto a page imported from an existing
// PDF template.
//
// It is the document emitter of the stamping pipeline: the layout package
// decides where each line goes, and this package imports the template pages
// as form XObjects, draws the placed lines in an embedded TrueType font on
// the target page, and serializes the whole document. Placement coordinates
// arrive in the layout convention (bottom-left origin, y up) and are
// converted to fpdf's top-left, y-down convention here.
package overlay

import (
	"fmt"
	"io"
	"math"
	"os"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/nameplate/layout"
	"github.com/lvillar/nameplate/reader"
)

// Color is an RGB color with components in the unit interval [0, 1].
type Color struct {
	R, G, B float64
}

// Font is a TrueType font program to embed, identified by a family name.
type Font struct {
	Family string
	Data   []byte
}

// Stamp describes one text overlay pass over a template document.
type Stamp struct {
	TemplatePath string
	Page         int // 1-based page that receives the text (default: 1)
	Font         Font
	FontSize     float64
	Color        Color
	Lines        []layout.PlacedLine
	Barcode      *Barcode // optional, drawn near the bottom-right corner
}

// Draw stamps the template and writes the resulting PDF to w.
func Draw(w io.Writer, s Stamp) error {
	pdf, err := buildStampedPDF(s)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// DrawToFile stamps the template and writes the resulting PDF to a file.
func DrawToFile(outputPath string, s Stamp) error {
	pdf, err := buildStampedPDF(s)
	if err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("overlay: creating %s: %w", outputPath, err)
	}
	defer f.Close()
	return pdf.Output(f)
}

func buildStampedPDF(s Stamp) (pdf *fpdf.Fpdf, err error) {
	if s.Page == 0 {
		s.Page = 1
	}
	if s.Font.Family == "" {
		s.Font.Family = "Stamp"
	}
	if err := validateStamp(s); err != nil {
		return nil, err
	}

	// The template is validated up front; gofpdi itself panics on
	// malformed input, so the importer runs behind a recover guard.
	doc, err := reader.Open(s.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("overlay: template: %w", err)
	}
	if s.Page < 1 || s.Page > doc.NumPages() {
		return nil, fmt.Errorf("overlay: page %d out of range 1..%d", s.Page, doc.NumPages())
	}

	defer func() {
		if r := recover(); r != nil {
			pdf = nil
			err = fmt.Errorf("overlay: importing %s: %v", s.TemplatePath, r)
		}
	}()

	pdf = fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(s.Font.Family, "", s.Font.Data)

	imp := newImporter()

	// Every template page is carried over; only the selected page gets
	// the text overlay.
	for i := 1; i <= doc.NumPages(); i++ {
		tplID, pw, ph := imp.importPage(pdf, s.TemplatePath, i)
		if pw == 0 || ph == 0 {
			if page, pageErr := doc.Page(i); pageErr == nil && page.MediaBox.Width() > 0 {
				pw = page.MediaBox.Width()
				ph = page.MediaBox.Height()
			} else {
				pw, ph = 595.28, 841.89
			}
		}

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: pw, Ht: ph})
		imp.useImportedTemplate(pdf, tplID, 0, 0, pw, ph)

		if i != s.Page {
			continue
		}

		drawLines(pdf, s, ph)
		if s.Barcode != nil {
			if err := drawBarcode(pdf, s.Barcode, pw, ph); err != nil {
				return nil, err
			}
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("overlay: %w", pdf.Error())
	}
	return pdf, nil
}

func validateStamp(s Stamp) error {
	if s.TemplatePath == "" {
		return fmt.Errorf("overlay: template path is empty")
	}
	if len(s.Font.Data) == 0 {
		return fmt.Errorf("overlay: font data is empty")
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("overlay: font size %g", s.FontSize)
	}
	if len(s.Lines) == 0 {
		return fmt.Errorf("overlay: no lines to draw")
	}
	return nil
}

// drawLines writes the placed lines onto the current page, converting the
// layout's bottom-left-origin y coordinates to fpdf's top-down convention.
func drawLines(pdf *fpdf.Fpdf, s Stamp, pageHeight float64) {
	pdf.SetFont(s.Font.Family, "", s.FontSize)
	pdf.SetTextColor(unitToByte(s.Color.R), unitToByte(s.Color.G), unitToByte(s.Color.B))

	for _, line := range s.Lines {
		pdf.Text(line.X, pageHeight-line.Y, line.Text)
	}
}

// unitToByte maps a unit-interval component to fpdf's 0-255 convention.
func unitToByte(c float64) int {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return int(math.Round(c * 255))
}
