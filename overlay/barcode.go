package overlay

import (
	"bytes"
	"fmt"
	"image/png"

	"codeberg.org/go-pdf/fpdf"
	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"
)

// BarcodeKind selects the symbology of an optional verification stamp.
type BarcodeKind int

const (
	BarcodeQR BarcodeKind = iota
	BarcodePDF417
	BarcodeCode128
)

// Barcode describes an optional machine-readable stamp, typically a
// verification URL or serial, placed near the bottom-right page corner.
type Barcode struct {
	Kind    BarcodeKind
	Content string
	Size    float64 // rendered width in points (default: 72)
	Margin  float64 // inset from the page edges in points (default: 18)
}

// drawBarcode encodes, rasterizes and places the barcode on the current
// page. The raster is scaled up before embedding so modules stay crisp.
func drawBarcode(pdf *fpdf.Fpdf, b *Barcode, pageW, pageH float64) error {
	if b.Content == "" {
		return fmt.Errorf("overlay: barcode content is empty")
	}
	size := b.Size
	if size <= 0 {
		size = 72
	}
	margin := b.Margin
	if margin <= 0 {
		margin = 18
	}

	var (
		img bc.Barcode
		err error
	)
	switch b.Kind {
	case BarcodeQR:
		img, err = qr.Encode(b.Content, qr.M, qr.Auto)
	case BarcodePDF417:
		img, err = pdf417.Encode(b.Content, 4)
	case BarcodeCode128:
		img, err = code128.Encode(b.Content)
	default:
		return fmt.Errorf("overlay: unknown barcode kind %d", b.Kind)
	}
	if err != nil {
		return fmt.Errorf("overlay: encoding barcode: %w", err)
	}

	bounds := img.Bounds()
	scaled, err := bc.Scale(img, bounds.Dx()*4, bounds.Dy()*4)
	if err != nil {
		return fmt.Errorf("overlay: scaling barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("overlay: rasterizing barcode: %w", err)
	}

	// Keep the symbology's aspect ratio; Size fixes the width.
	w := size
	h := size * float64(bounds.Dy()) / float64(bounds.Dx())

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	imgName := fmt.Sprintf("stamp-barcode-%d", b.Kind)
	pdf.RegisterImageOptionsReader(imgName, opts, &buf)
	pdf.ImageOptions(imgName, pageW-margin-w, pageH-margin-h, w, h, false, opts, 0, "")
	return nil
}
