package nameplate

import (
	"github.com/lvillar/nameplate/fontcache"
	"github.com/lvillar/nameplate/overlay"
)

// Option is a functional option for configuring a Stamper via New.
type Option func(*config)

type config struct {
	fontSize         float64
	lineHeight       float64
	topMargin        float64
	horizontalMargin float64
	color            overlay.Color
	page             int
	fontFamily       string
	fontPath         string
	fontData         []byte
	barcode          *overlay.Barcode
	cache            *fontcache.Cache
}

// defaultConfig is the reference slot configuration.
func defaultConfig() *config {
	return &config{
		fontSize:         120,
		lineHeight:       1.4,
		topMargin:        180,
		horizontalMargin: 30,
		color:            overlay.Color{R: 1, G: 0.98, B: 0.94},
		page:             1,
		fontFamily:       "Stamp",
	}
}

// WithFontSize sets the stamp font size in points.
func WithFontSize(size float64) Option {
	return func(c *config) {
		c.fontSize = size
	}
}

// WithLineHeight sets the line-height multiplier applied between baselines.
func WithLineHeight(multiplier float64) Option {
	return func(c *config) {
		c.lineHeight = multiplier
	}
}

// WithTopMargin sets the distance in points from the page top to the slot
// anchor region.
func WithTopMargin(margin float64) Option {
	return func(c *config) {
		c.topMargin = margin
	}
}

// WithHorizontalMargin sets the per-side horizontal margin in points,
// bounding the maximum line width.
func WithHorizontalMargin(margin float64) Option {
	return func(c *config) {
		c.horizontalMargin = margin
	}
}

// WithTextColor sets the text color; components are in the unit interval.
func WithTextColor(r, g, b float64) Option {
	return func(c *config) {
		c.color = overlay.Color{R: r, G: g, B: b}
	}
}

// WithPage selects the 1-based template page that receives the stamp.
func WithPage(page int) Option {
	return func(c *config) {
		c.page = page
	}
}

// WithFontFile configures the TrueType font by file path. The bytes are
// loaded lazily on first use and memoized in the stamper's font cache.
func WithFontFile(path string) Option {
	return func(c *config) {
		c.fontPath = path
	}
}

// WithFontBytes configures the TrueType font from an in-memory buffer,
// bypassing the font cache. The caller must not modify data afterwards.
func WithFontBytes(data []byte) Option {
	return func(c *config) {
		c.fontData = data
	}
}

// WithFontFamily overrides the family name used when embedding the font.
func WithFontFamily(family string) Option {
	return func(c *config) {
		if family != "" {
			c.fontFamily = family
		}
	}
}

// WithBarcode adds a machine-readable stamp, typically a verification URL
// or serial, to the target page.
func WithBarcode(b overlay.Barcode) Option {
	return func(c *config) {
		c.barcode = &b
	}
}

// WithFontCache shares a font byte cache between stampers so concurrent
// requests load each font file at most once per process.
func WithFontCache(cache *fontcache.Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}
