package filterlog

import (
	"fmt"
	"net/netip"
)

// Family is the IP address family decoded from the version marker.
type Family int

const (
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

func (f Family) String() string {
	if f == FamilyIPv6 {
		return "inet6"
	}
	return "inet"
}

// IPHeader is the version-specific header portion of a line, either an
// IPv4Header or an IPv6Header.
type IPHeader interface {
	Family() Family
}

// IPv4Header carries the IPv4-specific header fields. ECN is empty when
// the packet carried no ECN marker.
type IPv4Header struct {
	Version uint8  `json:"version"`
	TOS     uint8  `json:"tos"`
	ECN     string `json:"ecn,omitempty"`
	TTL     uint8  `json:"ttl"`
	ID      uint16 `json:"id"`
	Offset  uint16 `json:"offset"`
	Flags   string `json:"flags"`
}

func (IPv4Header) Family() Family { return FamilyIPv4 }

// IPv6Header carries the IPv6-specific header fields.
type IPv6Header struct {
	TrafficClass uint8  `json:"traffic_class"`
	FlowLabel    string `json:"flow_label"`
	HopLimit     uint8  `json:"hop_limit"`
}

func (IPv6Header) Family() Family { return FamilyIPv6 }

// parseIPHeader reads the IP version marker and dispatches to the
// version-specific grammar. Both branches also yield the transport
// protocol identity, which later stages use as a discriminant.
func parseIPHeader(in string) (Protocol, IPHeader, string, error) {
	version, rest, err := nextField(in)
	if err != nil {
		return Protocol{}, nil, "", err
	}
	switch version {
	case "4":
		return parseIPv4Header(rest)
	case "6":
		return parseIPv6Header(rest)
	}
	return Protocol{}, nil, "", fmt.Errorf("invalid IP version %q", version)
}

func parseIPv4Header(in string) (Protocol, IPHeader, string, error) {
	tos, rest, err := hexByteField(in)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("tos: %w", err)
	}
	ecn, rest, err := textField(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("ecn: %w", err)
	}
	ttl, rest, err := u8Field(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("ttl: %w", err)
	}
	id, rest, err := u16Field(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("id: %w", err)
	}
	offset, rest, err := u16Field(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("offset: %w", err)
	}
	flags, rest, err := tokenField(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("flags: %w", err)
	}
	protoNum, rest, err := u8Field(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("protocol number: %w", err)
	}
	protoName, rest, err := tokenField(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("protocol name: %w", err)
	}

	header := IPv4Header{
		Version: 4,
		TOS:     tos,
		ECN:     ecn,
		TTL:     ttl,
		ID:      id,
		Offset:  offset,
		Flags:   flags,
	}
	return Protocol{Num: protoNum, Name: ProtoNameOf(protoName)}, header, rest, nil
}

// parseIPv6Header decodes the IPv6 branch. filterlog writes the
// protocol name before the protocol number here, the reverse of the
// IPv4 branch; that asymmetric field order is the authoritative
// grammar, not a defect to unify. The protocol name is free text so
// that spellings like "ipv6-icmp" pass through.
func parseIPv6Header(in string) (Protocol, IPHeader, string, error) {
	trafficClass, rest, err := hexByteField(in)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("traffic class: %w", err)
	}
	flowLabel, rest, err := tokenField(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("flow label: %w", err)
	}
	hopLimit, rest, err := u8Field(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("hop limit: %w", err)
	}
	protoName, rest, err := textField(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("protocol name: %w", err)
	}
	protoNum, rest, err := u8Field(rest)
	if err != nil {
		return Protocol{}, nil, "", fmt.Errorf("protocol number: %w", err)
	}

	header := IPv6Header{
		TrafficClass: trafficClass,
		FlowLabel:    flowLabel,
		HopLimit:     hopLimit,
	}
	return Protocol{Num: protoNum, Name: ProtoNameOf(protoName)}, header, rest, nil
}

// IPData is the packet length and endpoint addresses. The address
// family of Src and Dst matches the record's IP header.
type IPData struct {
	Length uint16     `json:"length"`
	Src    netip.Addr `json:"src"`
	Dst    netip.Addr `json:"dst"`
}

// parseIPData reads the total length and the source and destination
// addresses. The textual address grammar is selected by the family
// decided in the IP header stage: a colon-hex token in an IPv4 line is
// an error even though it would be a valid IPv6 address, and vice
// versa.
func parseIPData(in string, family Family) (IPData, string, error) {
	length, rest, err := u16Field(in)
	if err != nil {
		return IPData{}, "", fmt.Errorf("length: %w", err)
	}
	src, rest, err := addrField(rest, family)
	if err != nil {
		return IPData{}, "", fmt.Errorf("source address: %w", err)
	}
	dst, rest, err := addrField(rest, family)
	if err != nil {
		return IPData{}, "", fmt.Errorf("destination address: %w", err)
	}
	return IPData{Length: length, Src: src, Dst: dst}, rest, nil
}

func addrField(s string, family Family) (netip.Addr, string, error) {
	tok, rest, err := nextField(s)
	if err != nil {
		return netip.Addr{}, "", err
	}
	addr, err := netip.ParseAddr(tok)
	if err != nil {
		return netip.Addr{}, "", fmt.Errorf("invalid address %q", tok)
	}
	switch family {
	case FamilyIPv4:
		if !addr.Is4() {
			return netip.Addr{}, "", fmt.Errorf("%q is not an IPv4 address", tok)
		}
	case FamilyIPv6:
		if !addr.Is6() {
			return netip.Addr{}, "", fmt.Errorf("%q is not an IPv6 address", tok)
		}
	}
	return addr, rest, nil
}
