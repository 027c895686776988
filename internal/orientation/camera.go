package orientation

import "github.com/spherecam/spherecam/internal/mathutil"

// Camera is the virtual camera at the centre of the marker sphere.
// The zero value has no reading yet and looks along the base rotation.
type Camera struct {
	reading  Reading
	rotation mathutil.Quat
	ready    bool
}

// NewCamera returns a camera oriented for a zero reading.
func NewCamera() *Camera {
	return &Camera{rotation: ViewQuaternion(Reading{})}
}

// Apply replaces the camera rotation with the one derived from r.
func (c *Camera) Apply(r Reading) {
	c.reading = r
	c.rotation = ViewQuaternion(r)
	c.ready = true
}

// ApplySample applies the sample if it is complete and reports whether it was used.
func (c *Camera) ApplySample(s Sample) bool {
	r, ok := s.ToReading()
	if !ok {
		return false
	}
	c.Apply(r)
	return true
}

// Reading returns the last applied reading.
func (c *Camera) Reading() Reading { return c.reading }

// Ready reports whether at least one reading has been applied.
func (c *Camera) Ready() bool { return c.ready }

func (c *Camera) Quaternion() mathutil.Quat {
	if c.rotation == (mathutil.Quat{}) {
		return ViewQuaternion(Reading{})
	}
	return c.rotation
}

func (c *Camera) Forward() mathutil.Vec3 { return Forward(c.Quaternion()) }

// Origin is always the sphere centre.
func (c *Camera) Origin() mathutil.Vec3 { return mathutil.Vec3{} }
