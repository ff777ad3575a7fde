// Package pcapimport turns an offline capture into a trace file that the
// browser can open.
package pcapimport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// Summary counts what Convert wrote.
type Summary struct {
	Frames int
	IPv4   int
	TCP    int
	UDP    int
}

// Option configures Convert.
type Option func(*options)

type options struct {
	onFrame func(n int)
}

// WithFrameCallback calls fn once per converted frame.
func WithFrameCallback(fn func(n int)) Option {
	return func(o *options) { o.onFrame = fn }
}

type packetSource interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Convert reads a pcap or pcapng stream from r and writes one trace line per
// frame to w. Timestamps are seconds since the first frame. Frames that are
// not IPv4 keep empty address and IP size columns; ports are only filled for
// TCP and UDP.
func Convert(r io.Reader, w io.Writer, opts ...Option) (Summary, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	src, err := openSource(r)
	if err != nil {
		return Summary{}, err
	}

	out := bufio.NewWriter(w)
	var (
		summary Summary
		first   time.Time
	)
	for {
		data, ci, err := src.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read frame %d: %w", summary.Frames+1, err)
		}
		if summary.Frames == 0 {
			first = ci.Timestamp
		}
		summary.Frames++

		packet := gopacket.NewPacket(data, src.LinkType(), gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		line := formatLine(summary.Frames, ci.Timestamp.Sub(first), ci.Length, packet, &summary)
		if _, err := out.WriteString(line + "\n"); err != nil {
			return summary, fmt.Errorf("write line %d: %w", summary.Frames, err)
		}
		if o.onFrame != nil {
			o.onFrame(1)
		}
	}
	if err := out.Flush(); err != nil {
		return summary, fmt.Errorf("write trace: %w", err)
	}
	return summary, nil
}

func openSource(r io.Reader) (packetSource, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read pcap header: %w", err)
	}
	if bytes.Equal(magic, ngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		return ng, nil
	}
	pr, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}
	return pr, nil
}

func formatLine(id int, offset time.Duration, frameLen int, packet gopacket.Packet, s *Summary) string {
	fields := make([]string, 8)
	fields[0] = strconv.Itoa(id)
	fields[1] = strconv.FormatFloat(offset.Seconds(), 'f', 6, 64)
	fields[6] = strconv.Itoa(frameLen)

	if ipLayer := packet.Layer(layers.LayerTypeIPv4); ipLayer != nil {
		ip := ipLayer.(*layers.IPv4)
		s.IPv4++
		fields[2] = ip.SrcIP.String()
		fields[4] = ip.DstIP.String()
		fields[7] = strconv.Itoa(int(ip.Length))
	}

	switch {
	case packet.Layer(layers.LayerTypeTCP) != nil:
		tcp := packet.Layer(layers.LayerTypeTCP).(*layers.TCP)
		s.TCP++
		fields[3] = strconv.Itoa(int(tcp.SrcPort))
		fields[5] = strconv.Itoa(int(tcp.DstPort))
	case packet.Layer(layers.LayerTypeUDP) != nil:
		udp := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		s.UDP++
		fields[3] = strconv.Itoa(int(udp.SrcPort))
		fields[5] = strconv.Itoa(int(udp.DstPort))
	}

	return strings.Join(fields, "\t")
}
