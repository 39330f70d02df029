package filterlog

import "fmt"

// Stage identifies the grammar phase that rejected a log line.
type Stage int

const (
	StagePacketFilter Stage = iota
	StageIPHeader
	StageIPData
	StageProtoInfo
)

func (s Stage) String() string {
	switch s {
	case StagePacketFilter:
		return "packet filter"
	case StageIPHeader:
		return "IP header"
	case StageIPData:
		return "IP data"
	case StageProtoInfo:
		return "protocol-specific information"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseError reports the first stage that failed while decoding a line.
// Line always holds the original input, unmodified, for diagnostics.
type ParseError struct {
	Stage Stage
	Line  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v: log %q", e.Stage, e.Err, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }
