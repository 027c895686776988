package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutions_FixedList(t *testing.T) {
	require.Len(t, Resolutions, 16)
	assert.Equal(t, Resolution{Width: 640, Height: 360, AspectRatio: Aspect16x9}, DefaultResolution())
}

func TestLookupResolution(t *testing.T) {
	tests := []struct {
		input    string
		expected Resolution
	}{
		{"0", Resolutions[0]},
		{"15", Resolutions[15]},
		{"1280x720", Resolution{Width: 1280, Height: 720, AspectRatio: Aspect16x9}},
		{"720×1520", Resolution{Width: 720, Height: 1520, AspectRatio: Aspect19x9}},
		{" 1024X768 ", Resolution{Width: 1024, Height: 768, AspectRatio: Aspect4x3}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := LookupResolution(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestLookupResolution_Invalid(t *testing.T) {
	for _, input := range []string{"16", "-1", "1280", "100x100", "axb", ""} {
		_, err := LookupResolution(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestResolution_String(t *testing.T) {
	assert.Equal(t, "1280×720 16:9", Resolution{Width: 1280, Height: 720, AspectRatio: Aspect16x9}.String())
}
