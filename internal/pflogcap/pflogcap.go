// Package pflogcap decodes binary pflog packet captures, the pcap
// format written by `tcpdump -w` on a pflog interface. It yields the
// same kind of per-packet summary the filterlog text parser produces,
// just sourced from the kernel's binary header instead of syslog text.
package pflogcap

import (
	"bytes"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Summary is the flattened view of one captured pflog packet.
type Summary struct {
	RuleNum   uint32     `json:"rule"`
	Subrule   uint32     `json:"subrule,omitempty"`
	Anchor    string     `json:"anchor,omitempty"`
	Interface string     `json:"interface"`
	Action    string     `json:"action"`
	Dir       string     `json:"dir"`
	Family    string     `json:"family"`
	Proto     string     `json:"protocol"`
	ProtoNum  uint8      `json:"protocol_num"`
	Length    uint16     `json:"length"`
	Src       netip.Addr `json:"src"`
	Dst       netip.Addr `json:"dst"`
	SrcPort   uint16     `json:"src_port,omitempty"`
	DstPort   uint16     `json:"dst_port,omitempty"`
}

// pf rule actions, per the pflog(4) header.
var actionNames = map[uint8]string{
	0:  "pass",
	1:  "block",
	2:  "scrub",
	3:  "no-scrub",
	4:  "nat",
	5:  "no-nat",
	6:  "binat",
	7:  "no-binat",
	8:  "rdr",
	9:  "no-rdr",
	10: "synproxy-drop",
}

func actionName(a uint8) string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", a)
}

func dirName(d layers.PFDirection) string {
	switch d {
	case layers.PFDirectionIn:
		return "in"
	case layers.PFDirectionOut:
		return "out"
	}
	return "inout"
}

// ReadFile decodes every packet of a pflog pcap file and feeds its
// summary to fn. Packets whose payload cannot be decoded as IP are
// skipped; a non-pflog capture is an error.
func ReadFile(path string, fn func(Summary) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Read(f, fn)
}

// Read decodes pflog packets from an already-open pcap stream.
func Read(r io.Reader, fn func(Summary) error) error {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to read pcap header: %w", err)
	}
	if pr.LinkType() != layers.LinkTypePFLog {
		return fmt.Errorf("not a pflog capture: link type %v", pr.LinkType())
	}

	for {
		data, _, err := pr.ReadPacketData()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read packet: %w", err)
		}

		pkt := gopacket.NewPacket(data, layers.LinkTypePFLog, gopacket.Default)
		s, ok := summarize(pkt)
		if !ok {
			continue
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}

func summarize(pkt gopacket.Packet) (Summary, bool) {
	pfl, ok := pkt.Layer(layers.LayerTypePFLog).(*layers.PFLog)
	if !ok {
		return Summary{}, false
	}

	s := Summary{
		RuleNum:   pfl.RuleNum,
		Subrule:   pfl.SubruleNum,
		Anchor:    cstring(pfl.Ruleset),
		Interface: cstring(pfl.IFName),
		Action:    actionName(pfl.Action),
		Dir:       dirName(pfl.Direction),
	}

	switch ip := pkt.NetworkLayer().(type) {
	case *layers.IPv4:
		s.Family = "inet"
		s.Length = ip.Length
		s.ProtoNum = uint8(ip.Protocol)
		s.Proto = strings.ToLower(ip.Protocol.String())
		s.Src, _ = netip.AddrFromSlice(ip.SrcIP)
		s.Dst, _ = netip.AddrFromSlice(ip.DstIP)
	case *layers.IPv6:
		s.Family = "inet6"
		s.Length = ip.Length + 40
		s.ProtoNum = uint8(ip.NextHeader)
		s.Proto = strings.ToLower(ip.NextHeader.String())
		s.Src, _ = netip.AddrFromSlice(ip.SrcIP)
		s.Dst, _ = netip.AddrFromSlice(ip.DstIP)
	default:
		return Summary{}, false
	}

	switch tr := pkt.TransportLayer().(type) {
	case *layers.TCP:
		s.SrcPort = uint16(tr.SrcPort)
		s.DstPort = uint16(tr.DstPort)
	case *layers.UDP:
		s.SrcPort = uint16(tr.SrcPort)
		s.DstPort = uint16(tr.DstPort)
	}

	return s, true
}

// cstring trims the NUL padding of the fixed-size name fields in the
// pflog header.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
