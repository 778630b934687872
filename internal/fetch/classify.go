package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
)

// errIdleTimeout is the cancellation cause set when the body stalls.
var errIdleTimeout = errors.New("response body idle timeout")

// classifyTransportError maps a failed client.Do to an engine error.
func classifyTransportError(rawURL, host string, err error) *Error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		if opErr.Timeout() {
			return &Error{Kind: KindConnectTimeout, URL: rawURL, Msg: fmt.Sprintf("timeout when connecting to %s", host), Err: err}
		}
		return &Error{Kind: KindUnreachable, URL: rawURL, Msg: fmt.Sprintf("cannot connect to %s", host), Err: err}
	}

	if strings.Contains(err.Error(), "TLS handshake timeout") {
		return &Error{Kind: KindConnectTimeout, URL: rawURL, Msg: fmt.Sprintf("timeout when connecting to %s", host), Err: err}
	}

	if isTimeout(err) {
		return &Error{Kind: KindReadTimeout, URL: rawURL, Msg: fmt.Sprintf("timeout when downloading %s", rawURL), Err: err}
	}

	return &Error{Kind: KindUnreachable, URL: rawURL, Msg: fmt.Sprintf("cannot connect to %s", host), Err: err}
}

// classifyBodyError maps a failure while reading or decoding the response body.
func classifyBodyError(reqCtx context.Context, rawURL string, kind compression.Kind, err error) *Error {
	switch {
	case errors.Is(err, compression.ErrMalformed):
		return &Error{Kind: KindDecode, URL: rawURL, Msg: fmt.Sprintf("data from %s is not valid %s", rawURL, kind), Err: err}
	case errors.Is(context.Cause(reqCtx), errIdleTimeout), isTimeout(err):
		return &Error{Kind: KindReadTimeout, URL: rawURL, Msg: fmt.Sprintf("timeout when downloading %s", rawURL), Err: err}
	default:
		return &Error{Kind: KindUnreachable, URL: rawURL, Msg: fmt.Sprintf("connection lost when downloading %s", rawURL), Err: err}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
