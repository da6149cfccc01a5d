package reader_test

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/nameplate/reader"
)

// createTestPDF writes a pt-unit A4 PDF with the given number of pages.
func createTestPDF(t *testing.T, filename string, numPages int) {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for i := 1; i <= numPages; i++ {
		pdf.AddPage()
		pdf.Text(40, 60, fmt.Sprintf("Page %d of %d", i, numPages))
	}
	if err := pdf.OutputFileAndClose(filename); err != nil {
		t.Fatalf("creating test PDF: %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	createTestPDF(t, path, 3)

	doc, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.NumPages() != 3 {
		t.Errorf("NumPages = %d, want 3", doc.NumPages())
	}
	if !strings.HasPrefix(doc.Version, "1.") {
		t.Errorf("Version = %q, want 1.x", doc.Version)
	}

	page, err := doc.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	// A4 in points.
	if math.Abs(page.MediaBox.Width()-595.28) > 0.5 {
		t.Errorf("page width = %g, want ~595.28", page.MediaBox.Width())
	}
	if math.Abs(page.MediaBox.Height()-841.89) > 0.5 {
		t.Errorf("page height = %g, want ~841.89", page.MediaBox.Height())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := reader.Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadFrom(t *testing.T) {
	pdf := fpdf.New("L", "pt", "Letter", "")
	pdf.AddPage()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building fixture: %v", err)
	}

	doc, err := reader.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if doc.NumPages() != 1 {
		t.Errorf("NumPages = %d, want 1", doc.NumPages())
	}
	page, err := doc.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	// Landscape letter: 792 x 612 pt.
	if math.Abs(page.MediaBox.Width()-792) > 0.5 {
		t.Errorf("page width = %g, want ~792", page.MediaBox.Width())
	}
}

func TestPageOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	createTestPDF(t, path, 2)

	doc, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, n := range []int{0, 3, -1} {
		if _, err := doc.Page(n); err == nil {
			t.Errorf("Page(%d): expected out-of-range error", n)
		}
	}
}

func TestPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	createTestPDF(t, path, 4)

	doc, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pages := doc.Pages()
	if len(pages) != 4 {
		t.Fatalf("Pages returned %d entries, want 4", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d numbered %d", i, p.Number)
		}
	}
}

func TestReadFromGarbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no header", "hello world"},
		{"no startxref", "%PDF-1.4\nsome content"},
		{"bad offset", "%PDF-1.4\nstartxref\n999999\n%%EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := reader.ReadFrom(strings.NewReader(tt.input)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestRectangle(t *testing.T) {
	r := reader.Rectangle{LLX: 10, LLY: 20, URX: 110, URY: 220}
	if r.Width() != 100 {
		t.Errorf("Width = %g, want 100", r.Width())
	}
	if r.Height() != 200 {
		t.Errorf("Height = %g, want 200", r.Height())
	}
}
