package session

import "go.jetify.com/typeid/v2"

// IDPrefix is the typeid prefix of every session ID.
const IDPrefix = "session"

// NewID returns a fresh, time-sortable session ID.
func NewID() string {
	id := typeid.MustGenerate(IDPrefix)
	return id.String()
}
