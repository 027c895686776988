package session

import (
	"fmt"

	"github.com/spherecam/spherecam/internal/config"
	"github.com/spherecam/spherecam/internal/geometry"
	"github.com/spherecam/spherecam/pkg/core"
)

// ConfigFromSettings resolves the configured preset, resolution and layout.
func ConfigFromSettings(sc config.SessionConfig, lc config.LayoutConfig) (Config, error) {
	preset, err := geometry.ParsePreset(sc.Preset)
	if err != nil {
		return Config{}, err
	}

	res := core.DefaultResolution()
	if sc.Resolution != "" {
		res, err = core.LookupResolution(sc.Resolution)
		if err != nil {
			return Config{}, fmt.Errorf("session.resolution: %w", err)
		}
	}

	return Config{
		Preset:     preset,
		Resolution: res,
		Layout: geometry.Layout{
			Radius:           lc.Radius,
			EquatorialCount:  lc.EquatorialCount,
			PolarCount:       lc.PolarCount,
			CircleCount:      lc.CircleCount,
			VerticalRings:    lc.VerticalRings,
			VerticalSegments: lc.VerticalSegments,
		},
	}, nil
}
