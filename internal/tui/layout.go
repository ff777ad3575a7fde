package tui

// Layout constants
const (
	DefaultWidth  = 100
	DefaultHeight = 36
)
