// Package record persists what kegfetch knows about the last download of a
// tracked file: its checksum, the origin's entity tag and when it was fetched.
//
// A record is stored as plain "key: value" lines:
//
//	sha256: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
//	etag: "5d8c72a5edda8"
//	time: Sat, 17 Oct 2026 08:12:44 GMT
//
// Unset fields are omitted on write. On read, comment lines, unknown keys and
// values that fail to parse are skipped, so a damaged file only ever costs a
// full re-download.
package record

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

// TimeFormat is the calendar format of the time key (RFC 1123, always GMT).
const TimeFormat = http.TimeFormat

const (
	keySHA256 = "sha256"
	keyETag   = "etag"
	keyTime   = "time"
)

// Record is the last known state of a tracked remote resource. The zero
// value means the resource has never been fetched.
type Record struct {
	SHA256 string
	ETag   string
	Time   time.Time
}

// IsZero reports whether no field is set.
func (r Record) IsZero() bool {
	return r.SHA256 == "" && r.ETag == "" && r.Time.IsZero()
}

// Reset clears every field.
func (r *Record) Reset() {
	*r = Record{}
}

// Parse reads a record from rd. Only I/O errors are returned; lines of any
// length are accepted and garbage is skipped.
func Parse(rd io.Reader) (Record, error) {
	var r Record

	br := bufio.NewReader(rd)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Record{}, fmt.Errorf("failed to read record: %w", err)
		}
		r.apply(strings.TrimSpace(line))
		if err != nil {
			return r, nil
		}
	}
}

func (r *Record) apply(line string) {
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	key, value, ok := strings.Cut(line, ": ")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)

	switch key {
	case keySHA256:
		r.SHA256 = value
	case keyETag:
		r.ETag = value
	case keyTime:
		t, err := time.Parse(TimeFormat, value)
		if err != nil {
			logger.Debug("ignoring unparseable record time %q: %v", value, err)
			return
		}
		r.Time = t.UTC()
	}
}

// Encode writes r in the cache file format.
func (r Record) Encode(w io.Writer) error {
	var b strings.Builder
	if r.SHA256 != "" {
		fmt.Fprintf(&b, "%s: %s\n", keySHA256, r.SHA256)
	}
	if r.ETag != "" {
		fmt.Fprintf(&b, "%s: %s\n", keyETag, r.ETag)
	}
	if !r.Time.IsZero() {
		fmt.Fprintf(&b, "%s: %s\n", keyTime, r.Time.UTC().Format(TimeFormat))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Load reads the record stored at path. A missing file yields an empty record.
func Load(path string) (Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to open record %s: %w", path, err)
	}
	defer utils.Close(f)

	return Parse(f)
}

// Save atomically replaces the record stored at path.
func (r Record) Save(path string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create record directory for %s: %w", path, err)
	}
	if err := utils.WriteFileAtomic(path+".tmp", path, &buf); err != nil {
		return fmt.Errorf("failed to save record %s: %w", path, err)
	}
	return nil
}

// FromFile builds a record describing an already present local file: its
// checksum and its modification time. A missing file yields an empty record.
func FromFile(path string) (Record, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Record{}, fmt.Errorf("expected a file, got a directory: %s", path)
	}

	sum, err := utils.SHA256File(path)
	if err != nil {
		return Record{}, err
	}
	return Record{SHA256: sum, Time: info.ModTime().UTC()}, nil
}
