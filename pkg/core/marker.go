// pkg/core/marker.go
package core

// Marker is a capture target placed on the sphere around the user.
// A marker is consumed (removed) exactly once, when its photo is taken.
type Marker struct {
	ID    string `json:"id"`
	Point Point  `json:"point"`
	Color string `json:"color"`
}
