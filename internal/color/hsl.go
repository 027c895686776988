// Package color maps positions around the viewer to marker colours.
package color

import (
	"fmt"
	"image/color"
	"math"

	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/pkg/core"
)

const (
	saturation = 0.70
	lightness  = 0.50
)

// axisHues maps a position, each component clamped to [-1, 1], onto one hue per axis:
// x spans red to green, y spans yellow to blue, z spans magenta through red to green.
func axisHues(x, y, z float64) [3]float64 {
	x = mathutil.Clamp(x, -1, 1)
	y = mathutil.Clamp(y, -1, 1)
	z = mathutil.Clamp(z, -1, 1)

	return [3]float64{
		(x + 1) / 2 * 120,
		(y+1)/2*180 + 60,
		math.Mod((z+1)/2*120+300, 360),
	}
}

// MeanHue returns the circular mean of the three axis hues in degrees, in [0, 360).
func MeanHue(x, y, z float64) float64 {
	var sumSin, sumCos float64
	for _, h := range axisHues(x, y, z) {
		r := mathutil.Deg2Rad(h)
		sumSin += math.Sin(r)
		sumCos += math.Cos(r)
	}

	hue := mathutil.Rad2Deg(math.Atan2(sumSin/3, sumCos/3))
	if hue < 0 {
		hue += 360
	}
	return hue
}

// PositionToHSL returns a CSS colour string such as "hsl(93.00, 70%, 50%)".
func PositionToHSL(x, y, z float64) string {
	return fmt.Sprintf("hsl(%.2f, 70%%, 50%%)", MeanHue(x, y, z))
}

// ForPoint colours a marker by its direction from the centre, normalising the
// position by the sphere radius first.
func ForPoint(p core.Point, radius float64) string {
	if radius <= 0 {
		radius = 1
	}
	return PositionToHSL(p.X/radius, p.Y/radius, p.Z/radius)
}

// HSLToRGBA converts a hue in degrees with the marker saturation and lightness
// to an opaque RGBA value.
func HSLToRGBA(hue float64) color.RGBA {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}

	c := (1 - math.Abs(2*lightness-1)) * saturation
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := lightness - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 0xff,
	}
}

// ParseHue extracts the hue from a string produced by PositionToHSL.
func ParseHue(s string) (float64, error) {
	var h float64
	if _, err := fmt.Sscanf(s, "hsl(%f, 70%%, 50%%)", &h); err != nil {
		return 0, fmt.Errorf("parse hsl %q: %w", s, err)
	}
	return h, nil
}
