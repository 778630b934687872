package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KEGFETCH_CONNECT_TIMEOUT", "250ms")
	t.Setenv("KEGFETCH_READ_TIMEOUT", "1m")
	t.Setenv("KEGFETCH_RETRY_INTERVAL", "0s")
	t.Setenv("KEGFETCH_USER_AGENT", "odk/1.6")
	t.Setenv("KEGFETCH_RETRIES", "0")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.ConnectTimeout)
	assert.Equal(t, time.Minute, c.ReadTimeout)
	assert.Zero(t, c.RetryInterval)
	assert.Equal(t, "odk/1.6", c.UserAgent)
	assert.Zero(t, c.DefaultRetries)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("KEGFETCH_CONNECT_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := DefaultConfig()
	c.ReadTimeout = 0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.DefaultRetries = -1
	assert.Error(t, c.Validate())

	assert.NoError(t, DefaultConfig().Validate())
}
