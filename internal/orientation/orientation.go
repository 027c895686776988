// Package orientation turns device orientation readings into a camera rotation.
package orientation

import (
	"fmt"
	"math"

	"github.com/spherecam/spherecam/internal/mathutil"
)

// Reading is a device orientation sample in degrees.
// Alpha is the heading, Beta the front-back tilt and Gamma the left-right tilt.
type Reading struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

func (r Reading) String() string {
	return fmt.Sprintf("α: %.2f° β: %.2f° γ: %.2f°", r.Alpha, r.Beta, r.Gamma)
}

// Sample is a raw sensor event. Platforms report null components while the
// sensor is warming up or unavailable.
type Sample struct {
	Alpha *float64 `json:"alpha"`
	Beta  *float64 `json:"beta"`
	Gamma *float64 `json:"gamma"`
}

// NewSample builds a Sample with all components present.
func NewSample(alpha, beta, gamma float64) Sample {
	return Sample{Alpha: &alpha, Beta: &beta, Gamma: &gamma}
}

// ToReading returns the reading and true when every component is present.
func (s Sample) ToReading() (Reading, bool) {
	if s.Alpha == nil || s.Beta == nil || s.Gamma == nil {
		return Reading{}, false
	}
	return Reading{Alpha: *s.Alpha, Beta: *s.Beta, Gamma: *s.Gamma}, true
}

var (
	// baseRotation turns the device's flat reference frame (screen up) into
	// the camera frame looking out of the back of the device.
	baseRotation = mathutil.QuatFromAxisAngle(mathutil.Vec3{1, 0, 0}, -math.Pi/2)

	forwardAxis = mathutil.Vec3{0, 0, -1}
)

// ViewQuaternion converts a reading into the camera rotation: an intrinsic
// Y (alpha), X (beta), Z (-gamma) rotation followed by the base rotation.
func ViewQuaternion(r Reading) mathutil.Quat {
	device := mathutil.QuatFromEulerYXZ(
		mathutil.Deg2Rad(r.Beta),
		mathutil.Deg2Rad(r.Alpha),
		-mathutil.Deg2Rad(r.Gamma),
	)
	return device.Mul(baseRotation)
}

// Forward returns the unit aim vector for a camera rotation.
func Forward(q mathutil.Quat) mathutil.Vec3 {
	return q.Rotate(forwardAxis).Normalize()
}

// AimAngles returns the aim direction as (theta, phi) in degrees:
// theta = atan2(z, x) and phi = asin(y).
func AimAngles(forward mathutil.Vec3) (theta, phi float64) {
	f := forward.Normalize()
	theta = mathutil.Rad2Deg(math.Atan2(f.Z(), f.X()))
	phi = mathutil.Rad2Deg(math.Asin(mathutil.Clamp(f.Y(), -1, 1)))
	return theta, phi
}
