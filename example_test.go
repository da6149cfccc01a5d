package nameplate_test

import (
	"bytes"
	"fmt"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/lvillar/nameplate"
)

func ExampleStamper_Stamp() {
	stamper := nameplate.New(
		nameplate.WithFontBytes(goregular.TTF),
		nameplate.WithFontSize(120),
		nameplate.WithLineHeight(1.4),
		nameplate.WithTextColor(1, 0.98, 0.94),
	)

	var buf bytes.Buffer
	if err := stamper.Stamp(&buf, "certificate.pdf", "小明"); err != nil {
		fmt.Printf("stamping failed: %v\n", err)
		return
	}
	fmt.Printf("stamped PDF: %d bytes\n", buf.Len())
	// Output pattern: stamped PDF: NNNN bytes
}

func ExampleStamper_Preview() {
	stamper := nameplate.New(nameplate.WithFontBytes(goregular.TTF))

	placed, err := stamper.Preview("certificate.pdf", "Avery Quinn")
	if err != nil {
		fmt.Printf("layout failed: %v\n", err)
		return
	}
	for _, line := range placed {
		fmt.Printf("%q at (%.1f, %.1f)\n", line.Text, line.X, line.Y)
	}
	// Output pattern: one line per placement
}
