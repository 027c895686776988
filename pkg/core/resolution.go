// pkg/core/resolution.go
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// AspectRatio labels a camera resolution.
type AspectRatio string

const (
	Aspect16x9 AspectRatio = "16:9"
	Aspect18x9 AspectRatio = "18:9"
	Aspect19x9 AspectRatio = "19:9"
	Aspect4x3  AspectRatio = "4:3"
)

// Resolution is an ideal camera stream size.
type Resolution struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	AspectRatio AspectRatio `json:"aspectRatio"`
}

// String renders the resolution the way the on-screen indicator does.
func (r Resolution) String() string {
	return fmt.Sprintf("%d×%d %s", r.Width, r.Height, r.AspectRatio)
}

// Resolutions is the fixed list offered before a session starts.
var Resolutions = []Resolution{
	{Width: 320, Height: 240, AspectRatio: Aspect4x3},
	{Width: 640, Height: 480, AspectRatio: Aspect4x3},
	{Width: 640, Height: 360, AspectRatio: Aspect16x9},
	{Width: 720, Height: 1440, AspectRatio: Aspect18x9},
	{Width: 720, Height: 1520, AspectRatio: Aspect19x9},
	{Width: 800, Height: 600, AspectRatio: Aspect4x3},
	{Width: 1024, Height: 768, AspectRatio: Aspect4x3},
	{Width: 1080, Height: 2160, AspectRatio: Aspect18x9},
	{Width: 1080, Height: 2280, AspectRatio: Aspect19x9},
	{Width: 1280, Height: 720, AspectRatio: Aspect16x9},
	{Width: 1440, Height: 2880, AspectRatio: Aspect18x9},
	{Width: 1440, Height: 3040, AspectRatio: Aspect19x9},
	{Width: 1600, Height: 1200, AspectRatio: Aspect4x3},
	{Width: 1920, Height: 1080, AspectRatio: Aspect16x9},
	{Width: 2560, Height: 1440, AspectRatio: Aspect16x9},
	{Width: 3840, Height: 2160, AspectRatio: Aspect16x9},
}

// DefaultResolutionIndex selects 640×360.
const DefaultResolutionIndex = 2

// DefaultResolution returns the resolution preselected in a new session.
func DefaultResolution() Resolution {
	return Resolutions[DefaultResolutionIndex]
}

// LookupResolution resolves "WxH" (or "W×H") or a list index to one of Resolutions.
func LookupResolution(s string) (Resolution, error) {
	s = strings.TrimSpace(s)
	if idx, err := strconv.Atoi(s); err == nil {
		if idx < 0 || idx >= len(Resolutions) {
			return Resolution{}, fmt.Errorf("resolution index %d out of range [0,%d)", idx, len(Resolutions))
		}
		return Resolutions[idx], nil
	}

	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == 'x' || r == '×' })
	if len(parts) != 2 {
		return Resolution{}, fmt.Errorf("invalid resolution %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution height %q: %w", parts[1], err)
	}
	for _, r := range Resolutions {
		if r.Width == w && r.Height == h {
			return r, nil
		}
	}
	return Resolution{}, fmt.Errorf("unsupported resolution %dx%d", w, h)
}
