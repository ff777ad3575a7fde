package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/simulator"
)

// radioGroup is a row of mutually exclusive choices.
type radioGroup struct {
	label    string
	choices  []string
	selected int
	enabled  bool
}

func newRadioGroup(label string, choices ...string) *radioGroup {
	return &radioGroup{label: label, choices: choices, enabled: true}
}

func (r *radioGroup) SetEnabled(enabled bool) { r.enabled = enabled }
func (r *radioGroup) Enabled() bool           { return r.enabled }

func (r *radioGroup) move(delta int) bool {
	if !r.enabled || len(r.choices) == 0 {
		return false
	}
	next := (r.selected + delta + len(r.choices)) % len(r.choices)
	changed := next != r.selected
	r.selected = next
	return changed
}

func (r *radioGroup) view(s Styles, focused bool) string {
	var b strings.Builder
	b.WriteString(labelView(s, r.label, focused, r.enabled))
	for i, c := range r.choices {
		text := s.Base.Render(c)
		if !r.enabled {
			text = s.Disabled.Render(c)
		}
		b.WriteString(RadioIcon(i == r.selected, r.enabled, s) + " " + text + "  ")
	}
	return b.String()
}

// picker cycles through a list of host addresses or ports.
type picker struct {
	label    string
	options  []string
	selected int
	enabled  bool
}

func newPicker(label string) *picker {
	return &picker{label: label, enabled: true}
}

func (p *picker) SetEnabled(enabled bool) { p.enabled = enabled }
func (p *picker) Enabled() bool           { return p.enabled }

// setOptions replaces the list and keeps the current value when it is still
// offered.
func (p *picker) setOptions(options []string) {
	current, ok := p.value()
	p.options = options
	p.selected = 0
	if !ok {
		return
	}
	for i, o := range options {
		if o == current {
			p.selected = i
			return
		}
	}
}

func (p *picker) value() (string, bool) {
	if len(p.options) == 0 {
		return "", false
	}
	return p.options[p.selected], true
}

func (p *picker) move(delta int) bool {
	if !p.enabled || len(p.options) == 0 {
		return false
	}
	next := (p.selected + delta + len(p.options)) % len(p.options)
	changed := next != p.selected
	p.selected = next
	return changed
}

func (p *picker) view(s Styles, focused bool) string {
	value, ok := p.value()
	text := "(none)"
	if ok {
		text = "‹ " + value + " ›"
	}
	style := s.Base
	switch {
	case !p.enabled:
		style = s.Disabled
	case !ok:
		style = s.Dim
	case focused:
		style = s.Selected
	}
	return labelView(s, p.label, focused, p.enabled) + style.Render(text)
}

func labelView(s Styles, label string, focused, enabled bool) string {
	marker := "  "
	if focused && enabled {
		marker = s.Selected.Render("▸ ")
	}
	return marker + s.Label.Render(label)
}

// controlsPanel selects what the table shows.
type controlsPanel struct {
	mode    *radioGroup
	filter  *radioGroup
	side    *radioGroup
	value   *picker
	src     *picker
	dest    *picker
	focus   int
	enabled bool
}

func newControlsPanel() *controlsPanel {
	return &controlsPanel{
		mode:    newRadioGroup("View", "Browse", "Flow"),
		filter:  newRadioGroup("Filter by", "IP", "Port"),
		side:    newRadioGroup("Hosts", "Source", "Destination"),
		value:   newPicker("Host"),
		src:     newPicker("Source"),
		dest:    newPicker("Destination"),
		enabled: true,
	}
}

func (c *controlsPanel) SetEnabled(enabled bool) { c.enabled = enabled }
func (c *controlsPanel) Enabled() bool           { return c.enabled }

// Children lists every control, including the ones hidden in the current mode.
func (c *controlsPanel) Children() []Enabler {
	return []Enabler{c.mode, c.filter, c.side, c.value, c.src, c.dest}
}

// rows are the controls currently shown, top to bottom.
func (c *controlsPanel) rows() []Enabler {
	if c.mode.selected == int(app.Flow) {
		return []Enabler{c.mode, c.filter, c.src, c.dest}
	}
	return []Enabler{c.mode, c.filter, c.side, c.value}
}

func (c *controlsPanel) focusNext(delta int) {
	n := len(c.rows())
	c.focus = (c.focus + delta + n) % n
}

// change moves the focused control. It reports whether the choice lists
// must be reloaded and whether the query changed at all.
func (c *controlsPanel) change(delta int) (reload, changed bool) {
	if !c.enabled {
		return false, false
	}
	switch ctl := c.rows()[c.focus].(type) {
	case *radioGroup:
		changed = ctl.move(delta)
		if ctl == c.mode {
			c.focus = 0
		}
		return changed, changed
	case *picker:
		return false, ctl.move(delta)
	}
	return false, false
}

func (c *controlsPanel) query() app.Query {
	q := app.NewQuery()
	q.Mode = app.Mode(c.mode.selected)
	q.Filter = app.Filter(c.filter.selected)
	q.Side = simulator.Source
	if c.side.selected == 1 {
		q.Side = simulator.Destination
	}

	port := func(p *picker) int {
		v, ok := p.value()
		if !ok {
			return app.NoPort
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return app.NoPort
		}
		return n
	}

	switch {
	case q.Mode == app.Browse && q.Filter == app.ByIP:
		q.IP, _ = c.value.value()
	case q.Mode == app.Browse:
		q.Port = port(c.value)
	case q.Filter == app.ByIP:
		q.SrcIP, _ = c.src.value()
		q.DestIP, _ = c.dest.value()
	default:
		q.SrcPort = port(c.src)
		q.DestPort = port(c.dest)
	}
	return q
}

// setChoices loads the picker lists for the current mode.
func (c *controlsPanel) setChoices(ch app.Choices) {
	if c.mode.selected == int(app.Flow) {
		c.src.setOptions(ch.Source)
		c.dest.setOptions(ch.Destination)
		return
	}
	c.value.label = "Host"
	if c.filter.selected == int(app.ByPort) {
		c.value.label = "Port"
	}
	c.value.setOptions(ch.Values)
}

func (c *controlsPanel) view(s Styles, focused bool) string {
	var lines []string
	for i, row := range c.rows() {
		rowFocused := focused && i == c.focus
		switch ctl := row.(type) {
		case *radioGroup:
			lines = append(lines, ctl.view(s, rowFocused))
		case *picker:
			lines = append(lines, ctl.view(s, rowFocused))
		}
	}
	box := s.Box
	if focused && c.enabled {
		box = s.BoxFocused
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
