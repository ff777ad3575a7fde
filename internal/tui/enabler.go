package tui

// Enabler is a control that can be switched off while no file is loaded.
type Enabler interface {
	SetEnabled(enabled bool)
	Enabled() bool
}

// container is an Enabler that owns other controls.
type container interface {
	Children() []Enabler
}

// SetEnabled switches e and everything below it.
func SetEnabled(e Enabler, enabled bool) {
	e.SetEnabled(enabled)
	c, ok := e.(container)
	if !ok {
		return
	}
	for _, child := range c.Children() {
		SetEnabled(child, enabled)
	}
}
