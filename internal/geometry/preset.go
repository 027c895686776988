package geometry

import (
	"fmt"
	"strings"

	"github.com/spherecam/spherecam/pkg/core"
)

// Preset names a marker distribution strategy.
type Preset string

const (
	PresetDefault          Preset = "default"
	PresetCube             Preset = "cube"
	PresetVerticalSegments Preset = "vertical-segments"
)

// Presets lists the selectable presets in display order.
var Presets = []Preset{PresetDefault, PresetCube, PresetVerticalSegments}

// ParsePreset accepts a preset name, case-insensitively. An empty string
// selects the default preset.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PresetDefault), "variable":
		return PresetDefault, nil
	case string(PresetCube):
		return PresetCube, nil
	case string(PresetVerticalSegments), "vertical":
		return PresetVerticalSegments, nil
	}
	return "", fmt.Errorf("unknown sphere point preset: %q", s)
}

// Layout carries the parameters of every preset.
type Layout struct {
	Radius float64 `json:"radius" mapstructure:"radius"`

	EquatorialCount int `json:"equatorialCount" mapstructure:"equatorialCount"`
	PolarCount      int `json:"polarCount" mapstructure:"polarCount"`
	CircleCount     int `json:"circleCount" mapstructure:"circleCount"`

	VerticalRings    int `json:"verticalRings" mapstructure:"verticalRings"`
	VerticalSegments int `json:"verticalSegments" mapstructure:"verticalSegments"`
}

// DefaultLayout returns the stock layout: markers 5 units away, 24 on the
// equator, 1 at the poles, 5 rings.
func DefaultLayout() Layout {
	return Layout{
		Radius:           5,
		EquatorialCount:  24,
		PolarCount:       1,
		CircleCount:      5,
		VerticalRings:    3,
		VerticalSegments: 8,
	}
}

// Points generates the layout for the preset.
func (p Preset) Points(l Layout) ([]core.Point, error) {
	switch p {
	case PresetDefault:
		return VariableDensity(VariableParams{
			MaxPoints:    l.EquatorialCount,
			MinPoints:    l.PolarCount,
			CirclesCount: l.CircleCount,
			Radius:       l.Radius,
		})
	case PresetCube:
		return Cube(l.Radius)
	case PresetVerticalSegments:
		return VerticalSegments(VerticalParams{
			PointCount:   l.VerticalRings,
			SegmentCount: l.VerticalSegments,
			Radius:       l.Radius,
		})
	}
	return nil, fmt.Errorf("unknown sphere point preset: %q", string(p))
}
