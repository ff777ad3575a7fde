package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NeedsSoySauce/Packet-Browser/internal/simulator"
	"github.com/NeedsSoySauce/Packet-Browser/internal/trace"
)

// NoPort marks a port field of a Query as unset.
const NoPort = -1

// Mode selects between browsing one host and following a flow.
type Mode int

const (
	Browse Mode = iota
	Flow
)

func (m Mode) String() string {
	if m == Flow {
		return "flow"
	}
	return "browse"
}

// Filter selects whether hosts are matched by address or by port.
type Filter int

const (
	ByIP Filter = iota
	ByPort
)

func (f Filter) String() string {
	if f == ByPort {
		return "port"
	}
	return "ip"
}

// Query describes one table view. Browse queries use Side with IP or Port;
// flow queries use the Src and Dest fields. A query whose values are unset
// selects nothing.
type Query struct {
	Mode   Mode
	Filter Filter
	Side   simulator.Side

	IP   string
	Port int

	SrcIP    string
	DestIP   string
	SrcPort  int
	DestPort int
}

// NewQuery returns a browse-by-IP query on the source side with nothing selected.
func NewQuery() Query {
	return Query{Port: NoPort, SrcPort: NoPort, DestPort: NoPort}
}

// SourceFirst reports the column orientation for the query's table. Flow
// views always lead with the source.
func (q Query) SourceFirst() bool {
	return q.Mode == Flow || q.Side == simulator.Source
}

// Complete reports whether every value the query needs is set.
func (q Query) Complete() bool {
	switch {
	case q.Mode == Browse && q.Filter == ByIP:
		return q.IP != ""
	case q.Mode == Browse:
		return q.Port != NoPort
	case q.Filter == ByIP:
		return q.SrcIP != "" && q.DestIP != ""
	default:
		return q.SrcPort != NoPort && q.DestPort != NoPort
	}
}

func (q Query) String() string {
	switch {
	case !q.Complete():
		return fmt.Sprintf("%s by %s (nothing selected)", q.Mode, q.Filter)
	case q.Mode == Browse && q.Filter == ByIP:
		return fmt.Sprintf("%s %s", q.Side, q.IP)
	case q.Mode == Browse:
		return fmt.Sprintf("%s port %d", q.Side, q.Port)
	case q.Filter == ByIP:
		return fmt.Sprintf("flow %s -> %s", q.SrcIP, q.DestIP)
	default:
		return fmt.Sprintf("flow port %d -> %d", q.SrcPort, q.DestPort)
	}
}

// Choices are the values a selector can offer for a query. Browse queries
// fill Values; flow queries fill Source and Destination.
type Choices struct {
	Values      []string
	Source      []string
	Destination []string
}

// packets resolves q against sim. Incomplete queries yield an empty slice.
func (q Query) packets(sim *simulator.Simulator) []*trace.Packet {
	if !q.Complete() {
		return []*trace.Packet{}
	}
	switch {
	case q.Mode == Browse && q.Filter == ByIP:
		return sim.FilterByHost(q.IP, q.Side)
	case q.Mode == Browse:
		return sim.FilterByPort(q.Port, q.Side)
	case q.Filter == ByIP:
		return sim.FilterByFlow(q.SrcIP, q.DestIP)
	default:
		return sim.FilterByPortFlow(q.SrcPort, q.DestPort)
	}
}

func choices(sim *simulator.Simulator, q Query) Choices {
	list := func(side simulator.Side) []string {
		if q.Filter == ByIP {
			return sim.UniqueSortedHostIPs(side)
		}
		ports := sim.UniqueSortedHostPorts(side)
		out := make([]string, len(ports))
		for i, p := range ports {
			out[i] = strconv.Itoa(p)
		}
		return out
	}
	if q.Mode == Flow {
		return Choices{Source: list(simulator.Source), Destination: list(simulator.Destination)}
	}
	return Choices{Values: list(q.Side)}
}

// ParseMode accepts "browse" or "flow".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "browse":
		return Browse, nil
	case "flow":
		return Flow, nil
	}
	return Browse, fmt.Errorf("invalid mode %q (want browse or flow)", s)
}

// ParseFilter accepts "ip" or "port".
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ip":
		return ByIP, nil
	case "port":
		return ByPort, nil
	}
	return ByIP, fmt.Errorf("invalid filter %q (want ip or port)", s)
}

// ParseSide accepts "source"/"src" or "destination"/"dest".
func ParseSide(s string) (simulator.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "source", "src":
		return simulator.Source, nil
	case "destination", "dest", "dst":
		return simulator.Destination, nil
	}
	return simulator.Source, fmt.Errorf("invalid side %q (want source or destination)", s)
}

// ParsePort accepts an empty string as NoPort.
func ParsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoPort, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 0 {
		return NoPort, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}

// QueryParams is a query as text, the way command-line flags and URL
// parameters carry it. Src and Dest are addresses or ports depending on
// Filter.
type QueryParams struct {
	Mode   string
	Filter string
	Side   string
	IP     string
	Port   string
	Src    string
	Dest   string
}

// Query parses the parameters.
func (p QueryParams) Query() (Query, error) {
	q := NewQuery()

	var err error
	if q.Mode, err = ParseMode(p.Mode); err != nil {
		return q, err
	}
	if q.Filter, err = ParseFilter(p.Filter); err != nil {
		return q, err
	}
	if q.Side, err = ParseSide(p.Side); err != nil {
		return q, err
	}

	q.IP = strings.TrimSpace(p.IP)
	if q.Port, err = ParsePort(p.Port); err != nil {
		return q, err
	}
	if q.Filter == ByIP {
		q.SrcIP, q.DestIP = strings.TrimSpace(p.Src), strings.TrimSpace(p.Dest)
		return q, nil
	}
	if q.SrcPort, err = ParsePort(p.Src); err != nil {
		return q, err
	}
	if q.DestPort, err = ParsePort(p.Dest); err != nil {
		return q, err
	}
	return q, nil
}
