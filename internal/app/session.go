// Package app ties an open trace file to its packet index and to the tables
// built from it. Every table a Session hands out writes accepted size edits
// back to the file.
package app

import (
	stderrors "errors"
	"fmt"

	"github.com/NeedsSoySauce/Packet-Browser/internal/config"
	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/logging"
	"github.com/NeedsSoySauce/Packet-Browser/internal/simulator"
	"github.com/NeedsSoySauce/Packet-Browser/internal/table"
	"github.com/NeedsSoySauce/Packet-Browser/internal/trace"
	"github.com/NeedsSoySauce/Packet-Browser/internal/tracefile"
)

// Session is one open trace file. It is not safe for concurrent use; the
// HTTP server and the TUI serialize access themselves.
type Session struct {
	doc    *tracefile.Document
	sim    *simulator.Simulator
	opts   table.Options
	logger *logging.Logger
}

// OpenResult is delivered once by OpenAsync.
type OpenResult struct {
	Session *Session
	Err     error
}

// Open reads path, indexes it and logs a load summary. A nil cfg means
// defaults and a nil logger discards output.
func Open(path string, cfg *config.Config, logger *logging.Logger, opts ...simulator.Option) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	doc, err := tracefile.Open(path)
	if err != nil {
		return nil, err
	}
	sim := simulator.New(doc.Lines(), opts...)

	st := sim.Stats()
	logger.LogLoad(path, logging.LoadSummary{
		Lines:          st.Lines,
		InvalidRecords: st.InvalidRecords,
		InvalidIP:      st.InvalidIP,
		ValidIP:        st.ValidIP,
		ValidPort:      st.ValidPort,
	})

	return &Session{
		doc:    doc,
		sim:    sim,
		opts:   cfg.TableOptions(),
		logger: logger,
	}, nil
}

// OpenAsync runs Open in the background. The channel yields exactly one
// result and is then closed.
func OpenAsync(path string, cfg *config.Config, logger *logging.Logger, opts ...simulator.Option) <-chan OpenResult {
	ch := make(chan OpenResult, 1)
	go func() {
		defer close(ch)
		s, err := Open(path, cfg, logger, opts...)
		ch <- OpenResult{Session: s, Err: err}
	}()
	return ch
}

// Path is the trace file the session edits.
func (s *Session) Path() string { return s.doc.Path() }

// Simulator exposes the packet index for host and port listings.
func (s *Session) Simulator() *simulator.Simulator { return s.sim }

// Stats returns the load counters.
func (s *Session) Stats() simulator.Stats { return s.sim.Stats() }

// Saves counts successful rewrites of the trace file.
func (s *Session) Saves() int { return s.doc.Revision() }

// TableOptions returns the options new tables are built with.
func (s *Session) TableOptions() table.Options { return s.opts }

// Options lists the values a selector can offer for q.
func (s *Session) Options(q Query) Choices {
	return choices(s.sim, q)
}

// Table builds the table for q and wires it to the file.
func (s *Session) Table(q Query) *table.Model {
	return s.newModel(q.packets(s.sim), q.SourceFirst())
}

func (s *Session) newModel(packets []*trace.Packet, srcFirst bool) *table.Model {
	m := table.New(packets, srcFirst, s.opts)
	m.AddListener(s.persist)
	return m
}

// persist writes edited data rows back to their source lines. Aggregate row
// changes carry nothing to save.
func (s *Session) persist(m *table.Model, c table.Change) error {
	if c.Column == table.AllColumns || m.IsAggregateRow(c.FirstRow) {
		return nil
	}
	var errs []error
	for row := c.FirstRow; row <= c.LastRow; row++ {
		p, err := m.PacketAt(row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		err = s.doc.Rewrite(p.LineIndex(), p.TabDelimited())
		size, _ := p.IPPacketSize()
		s.logger.LogEdit(p.LineIndex(), size, err)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// EditSize sets the IP packet size of the packet read from lineIndex. The
// edit follows the same rules as a table edit; a rejected value is returned
// as an error matching errors.ErrInvalidEdit.
func (s *Session) EditSize(lineIndex int, raw string) (table.EditResult, error) {
	p, err := s.sim.PacketByLine(lineIndex)
	if err != nil {
		return table.EditRejected, err
	}
	m := s.newModel([]*trace.Packet{p}, true)
	result, err := m.SetCellValue(0, m.SizeColumn(), raw)
	if err != nil {
		return result, err
	}
	if result == table.EditRejected {
		return result, fmt.Errorf("%w: %q is not an accepted size for line %d", apperrors.ErrInvalidEdit, raw, lineIndex)
	}
	return result, nil
}
