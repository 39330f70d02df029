package filterlog

import (
	"fmt"
	"strconv"
)

// ProtoName is the protocol name token from the IP header. TCP and UDP
// select dedicated trailer grammars; any other name is carried through
// literally and its trailer kept opaque.
type ProtoName string

const (
	ProtoTCP ProtoName = "tcp"
	ProtoUDP ProtoName = "udp"
)

// ProtoNameOf maps a protocol name token to its ProtoName. The mapping
// is total: unrecognized names map to themselves.
func ProtoNameOf(tok string) ProtoName {
	switch tok {
	case "tcp":
		return ProtoTCP
	case "udp":
		return ProtoUDP
	}
	return ProtoName(tok)
}

// Known reports whether the name selects a structured trailer grammar.
func (n ProtoName) Known() bool { return n == ProtoTCP || n == ProtoUDP }

// Protocol is the transport protocol identity of a line.
type Protocol struct {
	Num  uint8     `json:"num"`
	Name ProtoName `json:"name"`
}

// Ports is a source/destination port pair.
type Ports struct {
	Src uint16 `json:"src"`
	Dst uint16 `json:"dst"`
}

// ProtoInfo is the protocol-specific trailer of a line: TCPInfo,
// UDPInfo, or UnknownInfo.
type ProtoInfo interface {
	protoInfo()
}

// TCPInfo is the TCP trailer. Seq is kept as raw text because filterlog
// may write a range ("m:n") rather than a single number. Options is the
// verbatim rest of the line and may contain separators of its own.
type TCPInfo struct {
	Ports   Ports   `json:"ports"`
	DataLen uint32  `json:"data_len"`
	Flags   string  `json:"flags"`
	Seq     string  `json:"seq"`
	Ack     *uint32 `json:"ack,omitempty"`
	Window  uint32  `json:"window"`
	Urg     *uint32 `json:"urg,omitempty"`
	Options string  `json:"options"`
}

func (TCPInfo) protoInfo() {}

// UDPInfo is the UDP trailer. DataLen must be the final field of the
// line.
type UDPInfo struct {
	Ports   Ports  `json:"ports"`
	DataLen uint32 `json:"data_len"`
}

func (UDPInfo) protoInfo() {}

// UnknownInfo is the opaque trailer of a protocol without a structured
// grammar.
type UnknownInfo struct {
	Payload string `json:"payload"`
}

func (UnknownInfo) protoInfo() {}

func parsePorts(in string) (Ports, string, error) {
	src, rest, err := u16Field(in)
	if err != nil {
		return Ports{}, "", fmt.Errorf("source port: %w", err)
	}
	dst, rest, err := u16Field(rest)
	if err != nil {
		return Ports{}, "", fmt.Errorf("destination port: %w", err)
	}
	return Ports{Src: src, Dst: dst}, rest, nil
}

func parseTCPInfo(in string) (ProtoInfo, error) {
	ports, rest, err := parsePorts(in)
	if err != nil {
		return nil, err
	}
	dataLen, rest, err := u32Field(rest)
	if err != nil {
		return nil, fmt.Errorf("data length: %w", err)
	}
	flags, rest, err := textField(rest)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	seq, rest, err := textField(rest)
	if err != nil {
		return nil, fmt.Errorf("sequence number: %w", err)
	}
	ack, rest, err := optU32Field(rest)
	if err != nil {
		return nil, fmt.Errorf("ack number: %w", err)
	}
	window, rest, err := u32Field(rest)
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	urg, rest, err := optU32Field(rest)
	if err != nil {
		return nil, fmt.Errorf("urgency pointer: %w", err)
	}

	// Options is a rest-of-line field, taken verbatim without further
	// delimiter splitting.
	return TCPInfo{
		Ports:   ports,
		DataLen: dataLen,
		Flags:   flags,
		Seq:     seq,
		Ack:     ack,
		Window:  window,
		Urg:     urg,
		Options: rest,
	}, nil
}

func parseUDPInfo(in string) (ProtoInfo, error) {
	ports, rest, err := parsePorts(in)
	if err != nil {
		return nil, err
	}
	// The data length must end the line; trailing text is an error, not
	// something to silently drop.
	v, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("data length %q must be the final field", rest)
	}
	return UDPInfo{Ports: ports, DataLen: uint32(v)}, nil
}

// parseProtoInfo decodes the protocol-specific trailer selected by the
// protocol name decided in the IP header stage. This stage consumes the
// rest of the line.
func parseProtoInfo(in string, name ProtoName) (ProtoInfo, error) {
	switch name {
	case ProtoTCP:
		return parseTCPInfo(in)
	case ProtoUDP:
		return parseUDPInfo(in)
	}
	if in == "" {
		return nil, fmt.Errorf("missing %s trailer", name)
	}
	return UnknownInfo{Payload: in}, nil
}
