package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the terminal failures of a fetch.
type Kind int

const (
	// KindUnreachable: no connection could be established, or it was lost.
	KindUnreachable Kind = iota + 1
	// KindConnectTimeout: connecting timed out. Retried while budget remains.
	KindConnectTimeout
	// KindReadTimeout: the origin stalled while sending its response.
	KindReadTimeout
	// KindProtocol: an unexpected status, or a transient one with no budget left.
	KindProtocol
	// KindDecode: the payload does not match its declared compression.
	KindDecode
	// KindWrite: the destination could not be written locally.
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindConnectTimeout:
		return "connect-timeout"
	case KindReadTimeout:
		return "read-timeout"
	case KindProtocol:
		return "protocol-error"
	case KindDecode:
		return "decode-error"
	case KindWrite:
		return "write-error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the failure returned alongside the Failed outcome.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int // set for KindProtocol
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retriable reports whether another attempt may succeed.
func (e *Error) Retriable() bool {
	switch e.Kind {
	case KindConnectTimeout:
		return true
	case KindProtocol:
		return IsRetriableStatus(e.StatusCode)
	default:
		return false
	}
}

// IsKind reports whether err is, or wraps, an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == k
}

// Those are the statuses curl considers transient for --retry.
var retriableStatuses = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

func IsRetriableStatus(code int) bool {
	_, ok := retriableStatuses[code]
	return ok
}
