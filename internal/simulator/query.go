package simulator

import (
	"slices"

	"github.com/NeedsSoySauce/Packet-Browser/internal/trace"
)

// UniqueSortedHostIPs returns the distinct addresses seen on side, ordered by
// trace.CompareIP.
func (s *Simulator) UniqueSortedHostIPs(side Side) []string {
	seen := make(map[string]struct{})
	ips := make([]string, 0)
	for _, p := range s.validIPPackets {
		ip := side.host(p).IP()
		if _, ok := seen[ip]; ok {
			continue
		}
		seen[ip] = struct{}{}
		ips = append(ips, ip)
	}
	slices.SortFunc(ips, trace.CompareIP)
	return ips
}

// UniqueSortedHostPorts returns the distinct ports seen on side in ascending order.
func (s *Simulator) UniqueSortedHostPorts(side Side) []int {
	seen := make(map[int]struct{})
	ports := make([]int, 0)
	for _, p := range s.validPortPackets {
		port, _ := side.host(p).Port()
		if _, ok := seen[port]; ok {
			continue
		}
		seen[port] = struct{}{}
		ports = append(ports, port)
	}
	slices.Sort(ports)
	return ports
}

// FilterByHost returns the packets whose address on side equals ip, in file order.
func (s *Simulator) FilterByHost(ip string, side Side) []*trace.Packet {
	return filter(s.validIPPackets, func(p *trace.Packet) bool {
		return side.host(p).IP() == ip
	})
}

// FilterByPort returns the packets whose port on side equals port, in file order.
func (s *Simulator) FilterByPort(port int, side Side) []*trace.Packet {
	return filter(s.validPortPackets, func(p *trace.Packet) bool {
		got, _ := side.host(p).Port()
		return got == port
	})
}

// FilterByFlow returns the packets sent from srcIP to destIP.
func (s *Simulator) FilterByFlow(srcIP, destIP string) []*trace.Packet {
	return filter(s.validIPPackets, func(p *trace.Packet) bool {
		return p.Source().IP() == srcIP && p.Destination().IP() == destIP
	})
}

// FilterByPortFlow returns the packets sent from srcPort to destPort.
func (s *Simulator) FilterByPortFlow(srcPort, destPort int) []*trace.Packet {
	return filter(s.validPortPackets, func(p *trace.Packet) bool {
		sp, _ := p.Source().Port()
		dp, _ := p.Destination().Port()
		return sp == srcPort && dp == destPort
	})
}

func filter(packets []*trace.Packet, keep func(*trace.Packet) bool) []*trace.Packet {
	out := make([]*trace.Packet, 0)
	for _, p := range packets {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
