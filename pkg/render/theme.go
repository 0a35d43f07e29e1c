package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colours and sizes a plan is built with.
type Theme struct {
	Background color.Color
	NodeFill   color.Color
	NodeBorder color.Color
	Text       color.Color
	Edge       color.Color
	Selected   color.Color
	Hover      color.Color // blended into hovered elements
	Ghost      color.Color
	Band       color.Color
	Anchor     color.Color
	Shadow     color.Color

	ShadowBlur float64
	ArrowLen   float64
	ArrowWidth float64
	AnchorSize float64
	// HoverMix is how far hovered colours move towards Hover, 0 to 1.
	HoverMix float64
}

// DefaultTheme is a light theme.
func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{255, 255, 255, 255},
		NodeFill:   color.RGBA{227, 242, 253, 255}, // #e3f2fd
		NodeBorder: color.RGBA{21, 101, 192, 255},  // #1565c0
		Text:       color.RGBA{51, 51, 51, 255},    // #333
		Edge:       color.RGBA{102, 102, 102, 255}, // #666
		Selected:   color.RGBA{230, 81, 0, 255},    // #e65100
		Hover:      color.RGBA{46, 125, 50, 255},   // #2e7d32
		Ghost:      color.RGBA{200, 162, 200, 255}, // lilac
		Band:       color.RGBA{21, 101, 192, 255},
		Anchor:     color.RGBA{46, 125, 50, 255},
		Shadow:     color.RGBA{0, 0, 0, 96},
		ShadowBlur: 6,
		ArrowLen:   8,
		ArrowWidth: 4,
		AnchorSize: 3,
		HoverMix:   0.35,
	}
}

// Blend mixes a towards b by t in CIE-L*a*b* space. A nil colour yields
// the other one.
func Blend(a, b color.Color, t float64) color.Color {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	return ca.BlendLab(cb, t).Clamped()
}

// opaque drops alpha; MakeColor refuses fully transparent colours.
func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}

// hovered returns c tinted for a hovered element.
func (th Theme) hovered(c color.Color) color.Color {
	return Blend(c, th.Hover, th.HoverMix)
}
