package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Timeouts(t *testing.T) {
	c := NewHTTPClient(2*time.Second, 7*time.Second)

	assert.Zero(t, c.Timeout, "body reads are bounded by the engine, not the client")

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, tr.TLSHandshakeTimeout)
	assert.Equal(t, 7*time.Second, tr.ResponseHeaderTimeout)
	assert.True(t, tr.DisableCompression)
}
