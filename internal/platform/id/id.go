package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Fixed returns the same identifier every time.
type Fixed string

func (f Fixed) New() string {
	return string(f)
}
