package canvas

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the label font size in canvas units.
const DefaultFontSize = 13.0

// NewFace returns a Go Regular face at the given size in points (72 DPI,
// so one point is one pixel). Hinting is off because the raster backend
// supersamples instead.
func NewFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// FaceMetrics measures text with a font face whose size was multiplied by
// Factor, reporting results back in canvas units.
type FaceMetrics struct {
	Face   font.Face
	Factor float64
}

func (m FaceMetrics) factor() float64 {
	if m.Factor <= 0 {
		return 1
	}
	return m.Factor
}

// TextWidth returns the advance width of s.
func (m FaceMetrics) TextWidth(s string) float64 {
	if m.Face == nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(m.Face, s)) / m.factor()
}

// LineHeight returns the recommended line spacing.
func (m FaceMetrics) LineHeight() float64 {
	if m.Face == nil {
		return 0
	}
	return fixedToFloat(m.Face.Metrics().Height) / m.factor()
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
