// pkg/core/point.go
package core

// Point is a position on a sphere's surface plus its spherical angles in degrees.
// All fields are rounded to two decimals by the generators that produce them.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
}

// Coords returns the cartesian components as an array.
func (p Point) Coords() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}
