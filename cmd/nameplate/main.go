// Command nameplate stamps a name onto a PDF template from the command line.
//
//	nameplate -template certificate.pdf -font MaShanZheng.ttf -name 小明 -o out.pdf
//
// Slot geometry defaults to the reference configuration (120pt font, 1.4
// line height, 180pt top margin, 30pt horizontal margins) and can be
// overridden per flag or loaded from a JSON preset.
//
// With -info, the command only inspects the template and prints its page
// geometry.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lvillar/nameplate"
	"github.com/lvillar/nameplate/overlay"
	"github.com/lvillar/nameplate/preset"
	"github.com/lvillar/nameplate/reader"
)

func main() {
	var (
		templatePath = flag.String("template", "", "path to the template PDF (required)")
		fontPath     = flag.String("font", "", "path to the TrueType font file")
		name         = flag.String("name", "", "name to stamp onto the template")
		output       = flag.String("o", "out.pdf", "output file path")
		presetPath   = flag.String("preset", "", "JSON preset with slot geometry and colors")
		fontSize     = flag.Float64("size", 0, "font size in points (overrides preset)")
		page         = flag.Int("page", 0, "page to stamp, 1-based (overrides preset)")
		qrContent    = flag.String("qr", "", "content for a QR code in the bottom-right corner")
		info         = flag.Bool("info", false, "print template page geometry and exit")
	)
	flag.Parse()

	if err := run(*templatePath, *fontPath, *name, *output, *presetPath, *qrContent, *fontSize, *page, *info); err != nil {
		fmt.Fprintf(os.Stderr, "nameplate: %v\n", err)
		os.Exit(1)
	}
}

func run(templatePath, fontPath, name, output, presetPath, qrContent string, fontSize float64, page int, info bool) error {
	if templatePath == "" {
		return fmt.Errorf("missing -template")
	}

	if info {
		return printInfo(templatePath)
	}
	if fontPath == "" {
		return fmt.Errorf("missing -font")
	}
	if name == "" {
		return fmt.Errorf("missing -name")
	}

	opts, err := buildOptions(fontPath, presetPath, qrContent, fontSize, page)
	if err != nil {
		return err
	}
	if err := nameplate.New(opts...).StampFile(output, templatePath, name); err != nil {
		return err
	}
	fmt.Printf("stamped %q onto %s: %s\n", name, templatePath, output)
	return nil
}

func buildOptions(fontPath, presetPath, qrContent string, fontSize float64, page int) ([]nameplate.Option, error) {
	opts := []nameplate.Option{nameplate.WithFontFile(fontPath)}

	if presetPath != "" {
		p, err := preset.LoadFile(presetPath)
		if err != nil {
			return nil, err
		}
		barcode, err := p.BarcodeSpec()
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			nameplate.WithFontSize(p.FontSize),
			nameplate.WithLineHeight(p.LineHeight),
			nameplate.WithTopMargin(p.TopMargin),
			nameplate.WithHorizontalMargin(p.HorizontalMargin),
			nameplate.WithTextColor(p.Color.R, p.Color.G, p.Color.B),
			nameplate.WithPage(p.Page),
			nameplate.WithFontFamily(p.FontFamily),
		)
		if barcode != nil {
			opts = append(opts, nameplate.WithBarcode(*barcode))
		}
	}

	if fontSize > 0 {
		opts = append(opts, nameplate.WithFontSize(fontSize))
	}
	if page > 0 {
		opts = append(opts, nameplate.WithPage(page))
	}
	if qrContent != "" {
		opts = append(opts, nameplate.WithBarcode(overlay.Barcode{
			Kind:    overlay.BarcodeQR,
			Content: qrContent,
		}))
	}
	return opts, nil
}

func printInfo(templatePath string) error {
	doc, err := reader.Open(templatePath)
	if err != nil {
		return err
	}
	fmt.Printf("PDF version: %s\n", doc.Version)
	fmt.Printf("Pages: %d\n", doc.NumPages())
	for _, page := range doc.Pages() {
		fmt.Printf("  page %d: %.2f x %.2f pt", page.Number, page.MediaBox.Width(), page.MediaBox.Height())
		if page.Rotate != 0 {
			fmt.Printf(" (rotated %d)", page.Rotate)
		}
		fmt.Println()
	}
	return nil
}
