package fetch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/record"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

// trackingWriter remembers the first write error so a failed copy can be
// attributed to the local disk rather than to the origin.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// reconcile streams body into the staging file, then either discards it
// (same checksum as rec) or renames it over the destination and refreshes
// rec. The destination is never left partially written.
//
// Errors reading or decoding body are returned unclassified; local write
// failures are returned as *Error of KindWrite.
func (f *Fetcher) reconcile(res Resource, rec *record.Record, etag string, body io.Reader) (Outcome, error) {
	name := filepath.Base(res.Dest)

	decoded, err := compression.Decode(res.Compression, body)
	if err != nil {
		return Failed, err
	}
	defer utils.Try(decoded.Close)

	if err := os.MkdirAll(filepath.Dir(res.Dest), 0o755); err != nil {
		return Failed, f.writeError(res, "failed to create destination directory", err)
	}

	staging := res.StagingPath()
	tmp, err := os.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Failed, f.writeError(res, "failed to create staging file", err)
	}

	tw := &trackingWriter{w: tmp}
	hw := utils.NewHashingWriter(tw)
	_, copyErr := io.Copy(hw, decoded)
	syncErr := tmp.Sync()
	closeErr := tmp.Close()

	switch {
	case copyErr != nil && tw.err != nil:
		_ = os.Remove(staging)
		return Failed, f.writeError(res, "failed to write staging file", tw.err)
	case copyErr != nil:
		_ = os.Remove(staging)
		return Failed, copyErr
	case syncErr != nil:
		_ = os.Remove(staging)
		return Failed, f.writeError(res, "failed to sync staging file", syncErr)
	case closeErr != nil:
		_ = os.Remove(staging)
		return Failed, f.writeError(res, "failed to close staging file", closeErr)
	}

	checksum := hw.Sum()
	if rec.SHA256 == checksum {
		logger.Info("%s: file newly downloaded is identical to previously downloaded file", name)
		if err := os.Remove(staging); err != nil {
			logger.Warn("%s: failed to remove %s: %v", name, staging, err)
		}
		return Unchanged, nil
	}

	if err := utils.CommitFile(staging, res.Dest); err != nil {
		return Failed, f.writeError(res, "failed to replace destination", err)
	}

	rec.SHA256 = checksum
	rec.ETag = etag
	rec.Time = f.now().UTC()

	logger.Success("%s: download OK, file is new (%s)", name, utils.HumanSize(hw.Written()))
	return Fetched, nil
}

func (f *Fetcher) writeError(res Resource, msg string, err error) *Error {
	return &Error{Kind: KindWrite, URL: res.URL, Msg: fmt.Sprintf("%s for %s", msg, res.Dest), Err: err}
}
