package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsUnsetFields(t *testing.T) {
	opts := &Options{}
	opts.ApplyDefaults()

	require.NotNil(t, opts.Logger)
	assert.Equal(t, DefaultCallTimeout, opts.CallTimeout)
	assert.Equal(t, DefaultConnectTimeout, opts.ConnectTimeout)
	assert.Equal(t, int64(DefaultMaxInFlight), opts.MaxInFlight)
	assert.Equal(t, DefaultServerName, opts.ServerName)
	assert.Equal(t, DefaultServerVersion, opts.ServerVersion)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	log := slog.Default()
	opts := &Options{
		Logger:         log,
		CallTimeout:    time.Second,
		ConnectTimeout: 2 * time.Second,
		MaxInFlight:    3,
		ServerName:     "custom",
		ServerVersion:  "9.9.9",
	}
	opts.ApplyDefaults()

	assert.Same(t, log, opts.Logger)
	assert.Equal(t, time.Second, opts.CallTimeout)
	assert.Equal(t, 2*time.Second, opts.ConnectTimeout)
	assert.Equal(t, int64(3), opts.MaxInFlight)
	assert.Equal(t, "custom", opts.ServerName)
	assert.Equal(t, "9.9.9", opts.ServerVersion)
}

func TestApplyDefaultsRejectsNonPositiveValues(t *testing.T) {
	opts := &Options{CallTimeout: -time.Second, MaxInFlight: -1}
	opts.ApplyDefaults()

	assert.Equal(t, DefaultCallTimeout, opts.CallTimeout)
	assert.Equal(t, int64(DefaultMaxInFlight), opts.MaxInFlight)
}
