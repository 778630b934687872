package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
	"github.com/stretchr/testify/assert"
)

func TestError_Retriable(t *testing.T) {
	tests := []struct {
		err  *Error
		want bool
	}{
		{&Error{Kind: KindConnectTimeout}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusRequestTimeout}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusTooManyRequests}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusInternalServerError}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusBadGateway}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusServiceUnavailable}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusGatewayTimeout}, true},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusForbidden}, false},
		{&Error{Kind: KindProtocol, StatusCode: http.StatusNotImplemented}, false},
		{&Error{Kind: KindUnreachable}, false},
		{&Error{Kind: KindReadTimeout}, false},
		{&Error{Kind: KindDecode}, false},
		{&Error{Kind: KindWrite}, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.err.Kind, tt.err.StatusCode), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Retriable())
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &Error{Kind: KindWrite, Msg: "failed to write staging file for ro.owl", Err: cause}

	assert.Equal(t, "failed to write staging file for ro.owl: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(fmt.Errorf("sync: %w", err), KindWrite))
	assert.False(t, IsKind(err, KindDecode))
	assert.False(t, IsKind(cause, KindWrite))
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestClassifyTransportError(t *testing.T) {
	const raw = "https://purl.example.org/ro.owl"
	wrap := func(err error) error { return &url.Error{Op: "Get", URL: raw, Err: err} }

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "dial timeout",
			err:  wrap(&net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}),
			want: KindConnectTimeout,
		},
		{
			name: "connection refused",
			err:  wrap(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}),
			want: KindUnreachable,
		},
		{
			name: "tls handshake timeout",
			err:  wrap(errors.New("net/http: TLS handshake timeout")),
			want: KindConnectTimeout,
		},
		{
			name: "read timeout",
			err:  wrap(&net.OpError{Op: "read", Net: "tcp", Err: timeoutErr{}}),
			want: KindReadTimeout,
		},
		{
			name: "dns failure",
			err:  wrap(&net.DNSError{Err: "no such host", Name: "purl.example.org", IsNotFound: true}),
			want: KindUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransportError(raw, "purl.example.org", tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, raw, got.URL)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyBodyError(t *testing.T) {
	const raw = "https://purl.example.org/ro.owl.gz"

	malformed := fmt.Errorf("%w: gzip: invalid header", compression.ErrMalformed)
	got := classifyBodyError(context.Background(), raw, compression.Gzip, malformed)
	assert.Equal(t, KindDecode, got.Kind)
	assert.Contains(t, got.Error(), "not valid gzip")

	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(errIdleTimeout)
	got = classifyBodyError(ctx, raw, compression.Gzip, context.Canceled)
	assert.Equal(t, KindReadTimeout, got.Kind)

	got = classifyBodyError(context.Background(), raw, compression.None, errors.New("unexpected EOF"))
	assert.Equal(t, KindUnreachable, got.Kind)
	assert.Contains(t, got.Error(), "connection lost")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, Failed, Outcome(0))
	assert.True(t, Fetched.Changed())
	for _, o := range []Outcome{Failed, Unchanged, Missing} {
		assert.False(t, o.Changed(), o.String())
	}
	assert.Equal(t, "fetched", Fetched.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "failed", Failed.String())
}
