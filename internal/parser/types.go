package parser

import (
	"time"

	"github.com/spherecam/spherecam/internal/orientation"
)

// TraceSample is one recorded orientation event. Missing axes are null.
type TraceSample struct {
	TMs   float64  `json:"t_ms"`
	Alpha *float64 `json:"alpha"`
	Beta  *float64 `json:"beta"`
	Gamma *float64 `json:"gamma"`
}

// Sample converts the trace entry into a sensor sample.
func (t TraceSample) Sample() orientation.Sample {
	return orientation.Sample{Alpha: t.Alpha, Beta: t.Beta, Gamma: t.Gamma}
}

// Offset is the sample's time since the start of the trace.
func (t TraceSample) Offset() time.Duration {
	return time.Duration(t.TMs * float64(time.Millisecond))
}

// NearQuery asks for captures within Tolerance degrees of Direction.
type NearQuery struct {
	Direction [3]float64
	Tolerance float64
}
