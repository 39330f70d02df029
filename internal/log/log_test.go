package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfwatch/pfwatch/internal/config"
)

func TestInit(t *testing.T) {
	err := Init(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, L().GetLevel())

	err = Init(config.LogConfig{Level: "warn", Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, L().GetLevel())
}

func TestInitInvalid(t *testing.T) {
	assert.Error(t, Init(config.LogConfig{Level: "loud", Format: "text"}))
	assert.Error(t, Init(config.LogConfig{Level: "info", Format: "xml"}))
}
