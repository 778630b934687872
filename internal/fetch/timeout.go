package fetch

import (
	"context"
	"io"
	"time"
)

// idleTimeoutReader cancels the request when no read completes within d.
type idleTimeoutReader struct {
	r     io.Reader
	d     time.Duration
	timer *time.Timer
}

// A non-positive d disables the timeout.
func newIdleTimeoutReader(r io.Reader, d time.Duration, cancel context.CancelCauseFunc) *idleTimeoutReader {
	ir := &idleTimeoutReader{r: r, d: d}
	if d > 0 {
		ir.timer = time.AfterFunc(d, func() { cancel(errIdleTimeout) })
	}
	return ir
}

func (i *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := i.r.Read(p)
	if n > 0 && i.timer != nil {
		i.timer.Reset(i.d)
	}
	return n, err
}

func (i *idleTimeoutReader) Stop() {
	if i.timer != nil {
		i.timer.Stop()
	}
}
