// Package progress draws load and import progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const barWidth = 40

// Bar reports how many lines of a trace file have been indexed. Report has
// the signature of simulator.ProgressFunc.
type Bar struct {
	output      io.Writer
	description string
	total       int
	current     int
	startTime   time.Time
	lastUpdate  time.Time
	interval    time.Duration
	enabled     bool
}

// NewBar creates a bar writing to w, normally os.Stderr.
func NewBar(w io.Writer, description string) *Bar {
	return &Bar{
		output:      w,
		description: description,
		startTime:   time.Now(),
		interval:    100 * time.Millisecond,
		enabled:     w != nil,
	}
}

// Disable stops all output.
func (b *Bar) Disable() {
	b.enabled = false
}

// Report records that done of total lines are finished.
func (b *Bar) Report(done, total int) {
	b.current = done
	b.total = total
	b.render(false)
}

func (b *Bar) render(force bool) {
	if !b.enabled {
		return
	}

	now := time.Now()
	if !force && now.Sub(b.lastUpdate) < b.interval && b.current < b.total {
		return
	}
	b.lastUpdate = now

	var percent float64
	if b.total > 0 {
		percent = float64(b.current) / float64(b.total) * 100
	}
	filled := min(int(float64(barWidth)*percent/100), barWidth)

	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat("-", barWidth-filled-1)
	}

	line := fmt.Sprintf("[%s] %d/%d lines (%.1f%%) | %s", bar, b.current, b.total, percent, formatDuration(time.Since(b.startTime)))
	if b.description != "" {
		line = b.description + " " + line
	}
	fmt.Fprint(b.output, "\r"+line)
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}
	b.current = b.total
	b.render(true)
	fmt.Fprint(b.output, "\n")
}

// Counter reports a running count when the total is unknown, such as frames
// read from a pcap stream.
type Counter struct {
	output     io.Writer
	unit       string
	count      int
	lastUpdate time.Time
	interval   time.Duration
	enabled    bool
}

// NewCounter creates a counter writing to w. unit names what is counted.
func NewCounter(w io.Writer, unit string, interval time.Duration) *Counter {
	return &Counter{
		output:   w,
		unit:     unit,
		interval: interval,
		enabled:  w != nil,
	}
}

// Add increments the count and redraws at most once per interval.
func (c *Counter) Add(n int) {
	c.count += n
	if !c.enabled {
		return
	}
	now := time.Now()
	if now.Sub(c.lastUpdate) < c.interval {
		return
	}
	c.lastUpdate = now
	fmt.Fprintf(c.output, "\r%d %s", c.count, c.unit)
}

// Count returns the total added so far.
func (c *Counter) Count() int { return c.count }

// Finish prints the final count.
func (c *Counter) Finish() {
	if !c.enabled {
		return
	}
	fmt.Fprintf(c.output, "\r%d %s\n", c.count, c.unit)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}
