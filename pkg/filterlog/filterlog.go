// Package filterlog parses pf packet-filter log lines (the filterlog
// text format emitted by pfSense/OPNsense) into typed records.
//
// A filterlog line is comma-separated, but its shape is context
// dependent: the IP version field selects the header grammar that
// follows it, and the protocol name selects the trailer grammar. The
// parser therefore runs as four staged sub-parsers, each consuming a
// prefix of the line and handing the unconsumed remainder to the next
// stage:
//
//	packet filter → IP header → IP data → protocol info
//
// The first stage to reject its input aborts the whole parse with a
// *ParseError identifying the stage; a partially populated record is
// never returned.
//
// Parse is a pure function over its input. It keeps no state between
// calls, so any number of goroutines may parse independent lines
// concurrently.
package filterlog

// Record is one fully decoded filterlog line. The concrete type behind
// Header matches the address family of Data.Src/Data.Dst, and the
// concrete type behind Info matches Proto.Name; both invariants hold by
// construction. Records are not mutated after Parse returns.
type Record struct {
	Filter PacketFilter `json:"filter"`
	Header IPHeader     `json:"ip"`
	Data   IPData       `json:"ip_data"`
	Proto  Protocol     `json:"protocol"`
	Info   ProtoInfo    `json:"protocol_info"`
}

// Parse decodes a single filterlog line. On failure it returns a
// *ParseError carrying the stage that rejected the input and the
// original line verbatim.
func Parse(line string) (*Record, error) {
	filter, rest, err := parsePacketFilter(line)
	if err != nil {
		return nil, &ParseError{Stage: StagePacketFilter, Line: line, Err: err}
	}

	proto, header, rest, err := parseIPHeader(rest)
	if err != nil {
		return nil, &ParseError{Stage: StageIPHeader, Line: line, Err: err}
	}

	data, rest, err := parseIPData(rest, header.Family())
	if err != nil {
		return nil, &ParseError{Stage: StageIPData, Line: line, Err: err}
	}

	info, err := parseProtoInfo(rest, proto.Name)
	if err != nil {
		return nil, &ParseError{Stage: StageProtoInfo, Line: line, Err: err}
	}

	return &Record{
		Filter: filter,
		Header: header,
		Data:   data,
		Proto:  proto,
		Info:   info,
	}, nil
}
