package pflogcap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionName(t *testing.T) {
	assert.Equal(t, "pass", actionName(0))
	assert.Equal(t, "block", actionName(1))
	assert.Equal(t, "rdr", actionName(8))
	assert.Equal(t, "action(200)", actionName(200))
}

func TestDirName(t *testing.T) {
	assert.Equal(t, "in", dirName(layers.PFDirectionIn))
	assert.Equal(t, "out", dirName(layers.PFDirectionOut))
	assert.Equal(t, "inout", dirName(layers.PFDirectionInOut))
}

func TestCString(t *testing.T) {
	assert.Equal(t, "pflog0", cstring([]byte("pflog0\x00\x00\x00\x00")))
	assert.Equal(t, "em0", cstring([]byte("em0")))
	assert.Equal(t, "", cstring([]byte{0, 0, 0}))
}

func TestReadRejectsNonPcap(t *testing.T) {
	err := Read(bytes.NewReader([]byte("definitely not a pcap")), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "pcap header"))
}
