package filterlog

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tcpLine = "96,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,pass,out," +
		"4,0x0,,127,61633,0,DF,6,tcp," +
		"52,192.168.10.15,192.168.20.14," +
		"52461,9100,0,S,3442468761,,64240,,mss;nop;wscale;nop;nop;sackOK"

	udpLine = "96,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,pass,out," +
		"4,0x0,,127,58940,0,none,17,udp," +
		"106,192.168.10.15,192.168.20.11,49678,161,86"

	icmp6Line = "96,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,block,in," +
		"6,0x0,12345,64,ipv6-icmp,58," +
		"104,fe80::1,ff02::1,payload: echo request, id 7"
)

func TestParseTCP(t *testing.T) {
	rec, err := Parse(tcpLine)
	require.NoError(t, err)

	assert.Equal(t, PacketFilter{
		Rule: RuleInfo{
			Number: 96,
			Label:  "fae559338f65e11c53669fc3642c93c2",
		},
		Interface: "vlan0.20",
		Reason:    ReasonMatch,
		Action:    ActionPass,
		Dir:       DirOut,
	}, rec.Filter)

	assert.Equal(t, IPv4Header{
		Version: 4,
		TOS:     0,
		TTL:     127,
		ID:      61633,
		Offset:  0,
		Flags:   "DF",
	}, rec.Header)

	assert.Equal(t, IPData{
		Length: 52,
		Src:    netip.MustParseAddr("192.168.10.15"),
		Dst:    netip.MustParseAddr("192.168.20.14"),
	}, rec.Data)

	assert.Equal(t, Protocol{Num: 6, Name: ProtoTCP}, rec.Proto)

	assert.Equal(t, TCPInfo{
		Ports:   Ports{Src: 52461, Dst: 9100},
		DataLen: 0,
		Flags:   "S",
		Seq:     "3442468761",
		Window:  64240,
		Options: "mss;nop;wscale;nop;nop;sackOK",
	}, rec.Info)
}

func TestParseUDP(t *testing.T) {
	rec, err := Parse(udpLine)
	require.NoError(t, err)

	assert.Equal(t, Protocol{Num: 17, Name: ProtoUDP}, rec.Proto)
	assert.Equal(t, IPv4Header{
		Version: 4,
		TTL:     127,
		ID:      58940,
		Flags:   "none",
	}, rec.Header)
	assert.Equal(t, IPData{
		Length: 106,
		Src:    netip.MustParseAddr("192.168.10.15"),
		Dst:    netip.MustParseAddr("192.168.20.11"),
	}, rec.Data)
	assert.Equal(t, UDPInfo{
		Ports:   Ports{Src: 49678, Dst: 161},
		DataLen: 86,
	}, rec.Info)
}

func TestParseIPv6Unknown(t *testing.T) {
	rec, err := Parse(icmp6Line)
	require.NoError(t, err)

	assert.Equal(t, ActionBlock, rec.Filter.Action)
	assert.Equal(t, DirIn, rec.Filter.Dir)
	assert.Equal(t, IPv6Header{
		TrafficClass: 0,
		FlowLabel:    "12345",
		HopLimit:     64,
	}, rec.Header)
	assert.Equal(t, Protocol{Num: 58, Name: ProtoName("ipv6-icmp")}, rec.Proto)
	assert.Equal(t, IPData{
		Length: 104,
		Src:    netip.MustParseAddr("fe80::1"),
		Dst:    netip.MustParseAddr("ff02::1"),
	}, rec.Data)

	// The opaque trailer keeps its internal commas.
	assert.Equal(t, UnknownInfo{Payload: "payload: echo request, id 7"}, rec.Info)
}

func TestParseStageErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		stage Stage
	}{
		{
			name: "corrupt rule number",
			line: "ab,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,pass,out," +
				"4,0x0,,127,58940,0,none,17,udp," +
				"106,192.168.10.15,192.168.20.11,49678,161,86",
			stage: StagePacketFilter,
		},
		{
			name: "corrupt ttl",
			line: "96,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,pass,out," +
				"4,0x0,,127ab,58940,0,none,17,udp," +
				"106,192.168.10.15,192.168.20.11,49678,161,86",
			stage: StageIPHeader,
		},
		{
			name: "corrupt address octet",
			line: "96,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,pass,out," +
				"4,0x0,,127,58940,0,none,17,udp," +
				"106,192.168.a10.15,192.168.20.11,49678,161,86",
			stage: StageIPData,
		},
		{
			name: "corrupt port",
			line: "96,,,fae559338f65e11c53669fc3642c93c2,vlan0.20,match,pass,out," +
				"4,0x0,,127,58940,0,none,17,udp," +
				"106,192.168.10.15,192.168.20.11,49678as,161,86",
			stage: StageProtoInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.line)
			require.Error(t, err)
			require.Nil(t, rec)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.stage, perr.Stage)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParseConcurrent(t *testing.T) {
	lines := []string{tcpLine, udpLine, icmp6Line}
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if _, err := Parse(lines[(i+j)%len(lines)]); err != nil {
					t.Errorf("parse failed: %v", err)
					return
				}
			}
		}(i)
	}
	for i := 0; i < 16; i++ {
		<-done
	}
}
