package preset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/nameplate/overlay"
	"github.com/lvillar/nameplate/preset"
)

func TestDefault(t *testing.T) {
	p := preset.Default()
	if p.FontSize != 120 || p.LineHeight != 1.4 || p.TopMargin != 180 || p.HorizontalMargin != 30 {
		t.Errorf("unexpected reference geometry: %+v", p)
	}
	want := &preset.Color{R: 1, G: 0.98, B: 0.94}
	if diff := cmp.Diff(want, p.Color); diff != "" {
		t.Errorf("color mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	p, err := preset.Load(strings.NewReader(`{
		"name": "certificate",
		"template": "tpl.pdf",
		"font": "font.ttf",
		"fontSize": 96
	}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.FontSize != 96 {
		t.Errorf("FontSize = %g, want 96 (explicit value kept)", p.FontSize)
	}
	if p.LineHeight != 1.4 || p.TopMargin != 180 || p.HorizontalMargin != 30 || p.Page != 1 {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.Color == nil {
		t.Error("default color not applied")
	}
}

func TestLoadRejectsBadPresets(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{{`},
		{"negative font size", `{"fontSize": -5}`},
		{"negative line height", `{"lineHeight": -1}`},
		{"color out of range", `{"color": {"r": 2, "g": 0, "b": 0}}`},
		{"unknown barcode kind", `{"barcode": {"kind": "aztec", "content": "x"}}`},
		{"barcode without content", `{"barcode": {"kind": "qr"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := preset.Load(strings.NewReader(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(`{"template": "a.pdf", "font": "b.ttf"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := preset.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Template != "a.pdf" || p.Font != "b.ttf" {
		t.Errorf("unexpected preset: %+v", p)
	}

	if _, err := preset.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLayoutParams(t *testing.T) {
	p := preset.Default()
	lp := p.LayoutParams(595.28, 841.89)
	if lp.PageWidth != 595.28 || lp.PageHeight != 841.89 {
		t.Errorf("page size not carried: %+v", lp)
	}
	if lp.FontSize != 120 || lp.TopMargin != 180 {
		t.Errorf("geometry not carried: %+v", lp)
	}
}

func TestBarcodeSpec(t *testing.T) {
	p := preset.Default()
	spec, err := p.BarcodeSpec()
	if err != nil {
		t.Fatalf("BarcodeSpec: %v", err)
	}
	if spec != nil {
		t.Errorf("spec = %+v, want nil without barcode", spec)
	}

	p.Barcode = &preset.Barcode{Kind: "pdf417", Content: "serial-1234", Size: 90}
	spec, err = p.BarcodeSpec()
	if err != nil {
		t.Fatalf("BarcodeSpec: %v", err)
	}
	if spec.Kind != overlay.BarcodePDF417 || spec.Content != "serial-1234" || spec.Size != 90 {
		t.Errorf("spec = %+v", spec)
	}
}
