package compression

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Kind is the transport-level compression an origin applies to a resource.
type Kind int

const (
	None Kind = iota
	Gzip
	Bzip2
)

// ErrMalformed wraps every failure to decode a compressed payload.
var ErrMalformed = errors.New("malformed compressed data")

type codec struct {
	name      string
	extension string
	aliases   []string
	open      func(io.Reader) (io.ReadCloser, error)
}

var codecs = map[Kind]codec{
	None: {
		name: "none",
	},
	Gzip: {
		name:      "gzip",
		extension: ".gz",
		aliases:   []string{"gz"},
		open: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	},
	Bzip2: {
		name:      "bzip2",
		extension: ".bz2",
		aliases:   []string{"bz2"},
		open: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(bzip2.NewReader(r)), nil
		},
	},
}

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{None, Gzip, Bzip2}
}

func (k Kind) String() string {
	if c, ok := codecs[k]; ok {
		return c.name
	}
	return fmt.Sprintf("compression(%d)", int(k))
}

// Extension returns the file suffix associated with k ("" for None).
func (k Kind) Extension() string {
	return codecs[k].extension
}

// Parse maps a manifest or flag value to a Kind. The empty string means None.
func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return None, nil
	}
	for _, k := range Kinds() {
		c := codecs[k]
		if n == c.name {
			return k, nil
		}
		for _, a := range c.aliases {
			if n == a {
				return k, nil
			}
		}
	}
	return None, fmt.Errorf("unknown compression %q", name)
}

// FromPath infers the kind from the suffix of a file path.
func FromPath(p string) Kind {
	ext := path.Ext(p)
	if ext == "" {
		return None
	}
	for _, k := range Kinds() {
		if e := codecs[k].extension; e != "" && e == ext {
			return k
		}
	}
	return None
}

// FromURL infers the kind from the path component of a URL, ignoring any query.
func FromURL(raw string) Kind {
	u, err := url.Parse(raw)
	if err != nil {
		return FromPath(raw)
	}
	return FromPath(u.Path)
}

// readCloser ties a Reader to a Closer (composite).
type readCloser struct {
	io.Reader
	io.Closer
}

// malformedReader tags read errors coming out of a decompressor.
type malformedReader struct {
	r io.Reader
}

func (m malformedReader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return n, err
}

// Decode returns a stream of decoded content for body.
//
// For None the body is passed through untouched. For compressed kinds the
// whole body is buffered first and then handed to the decompressor; errors
// while buffering are returned as-is so the caller can tell a failing
// transfer from corrupt data, whereas anything the decompressor rejects is
// wrapped with ErrMalformed.
func Decode(k Kind, body io.Reader) (io.ReadCloser, error) {
	c, ok := codecs[k]
	if !ok {
		return nil, fmt.Errorf("unknown compression %d", int(k))
	}
	if c.open == nil {
		return io.NopCloser(body), nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	dec, err := c.open(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, c.name, err)
	}
	return readCloser{Reader: malformedReader{r: dec}, Closer: dec}, nil
}

// Encode compresses src with k. It is the inverse of Decode for gzip; bzip2
// has no encoder and returns an error.
func Encode(k Kind, src []byte) ([]byte, error) {
	switch k {
	case None:
		return src, nil
	case Gzip:
		var b bytes.Buffer
		zw := gzip.NewWriter(&b)
		if _, err := zw.Write(src); err != nil {
			_ = zw.Close()
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	default:
		return nil, fmt.Errorf("encoding with %s is not supported", k)
	}
}
