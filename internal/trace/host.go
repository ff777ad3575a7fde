package trace

import (
	"strconv"
	"strings"
)

// Host is one end of a packet: an IPv4 address and an optional port.
type Host struct {
	ip      string
	port    int
	hasPort bool
}

// NewHost returns a host with no port.
func NewHost(ip string) Host {
	return Host{ip: ip}
}

// NewHostWithPort returns a host with a port.
func NewHostWithPort(ip string, port int) Host {
	return Host{ip: ip, port: port, hasPort: true}
}

// IP returns the dotted-quad address.
func (h Host) IP() string { return h.ip }

// Port returns the port and whether one is present.
func (h Host) Port() (int, bool) { return h.port, h.hasPort }

// SetIP replaces the address.
func (h *Host) SetIP(ip string) { h.ip = ip }

// SetPort replaces the port.
func (h *Host) SetPort(port int) {
	h.port = port
	h.hasPort = true
}

// ClearPort marks the port as absent.
func (h *Host) ClearPort() {
	h.port = 0
	h.hasPort = false
}

// String returns the address only. The port is not part of a host's display identity.
func (h Host) String() string { return h.ip }

// Compare orders hosts by address, see CompareIP.
func Compare(a, b Host) int {
	return CompareIP(a.ip, b.ip)
}

// CompareIP orders two dotted-quad addresses component by component as
// integers, so "9.0.0.1" sorts before "10.0.0.1". It returns -1, 0 or +1.
// Addresses are expected to have passed IsValidIPv4; a component that does
// not parse compares as 0.
func CompareIP(a, b string) int {
	as := octets(a)
	bs := octets(b)
	for i := 0; i < 4; i++ {
		switch {
		case as[i] < bs[i]:
			return -1
		case as[i] > bs[i]:
			return 1
		}
	}
	return 0
}

func octets(ip string) [4]int {
	var out [4]int
	for i, part := range strings.SplitN(ip, ".", 4) {
		out[i], _ = strconv.Atoi(part)
	}
	return out
}
