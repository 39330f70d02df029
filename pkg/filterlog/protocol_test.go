package filterlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtoNameOf(t *testing.T) {
	assert.Equal(t, ProtoTCP, ProtoNameOf("tcp"))
	assert.Equal(t, ProtoUDP, ProtoNameOf("udp"))
	assert.Equal(t, ProtoName("carp"), ProtoNameOf("carp"))
	assert.Equal(t, ProtoName("ipv6-icmp"), ProtoNameOf("ipv6-icmp"))

	assert.True(t, ProtoTCP.Known())
	assert.False(t, ProtoNameOf("carp").Known())
}

func TestParseTCPInfo(t *testing.T) {
	info, err := parseProtoInfo("52461,9100,0,S,3442468761,,64240,,mss;nop;wscale", ProtoTCP)
	require.NoError(t, err)
	assert.Equal(t, TCPInfo{
		Ports:   Ports{Src: 52461, Dst: 9100},
		DataLen: 0,
		Flags:   "S",
		Seq:     "3442468761",
		Window:  64240,
		Options: "mss;nop;wscale",
	}, info)
}

func TestParseTCPInfoOptionalFields(t *testing.T) {
	ack := uint32(12345)
	urg := uint32(1)
	info, err := parseProtoInfo("443,50000,10,PA,100:110,12345,8192,1,", ProtoTCP)
	require.NoError(t, err)
	tcp := info.(TCPInfo)
	assert.Equal(t, &ack, tcp.Ack)
	assert.Equal(t, &urg, tcp.Urg)
	// Range notation survives verbatim; it is not coerced to a number.
	assert.Equal(t, "100:110", tcp.Seq)
	assert.Equal(t, "", tcp.Options)
}

func TestParseTCPInfoOptionsKeepCommas(t *testing.T) {
	info, err := parseProtoInfo("1,2,0,S,1,,512,,mss 1460,sackOK,eol", ProtoTCP)
	require.NoError(t, err)
	assert.Equal(t, "mss 1460,sackOK,eol", info.(TCPInfo).Options)
}

func TestParseTCPInfoErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"corrupt source port", "49678as,161,0,S,1,,512,,"},
		{"port overflows 16 bits", "70000,161,0,S,1,,512,,"},
		{"corrupt ack", "1,2,0,S,1,x,512,,"},
		{"corrupt window", "1,2,0,S,1,,51b2,,"},
		{"truncated before window", "1,2,0,S,1,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseProtoInfo(tt.in, ProtoTCP)
			assert.Error(t, err)
		})
	}
}

func TestParseUDPInfo(t *testing.T) {
	info, err := parseProtoInfo("49678,161,86", ProtoUDP)
	require.NoError(t, err)
	assert.Equal(t, UDPInfo{
		Ports:   Ports{Src: 49678, Dst: 161},
		DataLen: 86,
	}, info)
}

func TestParseUDPInfoRejectsTrailingText(t *testing.T) {
	// The data length must be the final field of the line.
	for _, in := range []string{
		"49678,161,86,",
		"49678,161,86,extra",
		"49678,161,86x",
	} {
		_, err := parseProtoInfo(in, ProtoUDP)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseUnknownInfo(t *testing.T) {
	info, err := parseProtoInfo("datalength=28", ProtoNameOf("icmp"))
	require.NoError(t, err)
	assert.Equal(t, UnknownInfo{Payload: "datalength=28"}, info)

	// Internal delimiters are not split further.
	info, err = parseProtoInfo("advbase=1,advskew=0", ProtoNameOf("carp"))
	require.NoError(t, err)
	assert.Equal(t, UnknownInfo{Payload: "advbase=1,advskew=0"}, info)

	_, err = parseProtoInfo("", ProtoNameOf("carp"))
	assert.Error(t, err)
}
