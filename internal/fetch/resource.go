package fetch

import (
	"fmt"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

// StagingSuffix is appended to the destination path to name the file the
// response is streamed into before it replaces the destination.
const StagingSuffix = ".tmp"

// Resource is a remote object tracked by a local file.
type Resource struct {
	URL         string
	Dest        string
	Compression compression.Kind
	Retries     int
}

func (r Resource) Validate() error {
	if _, err := utils.ParseFetchURL(r.URL); err != nil {
		return err
	}
	if r.Dest == "" {
		return fmt.Errorf("missing destination for %s", r.URL)
	}
	if r.Retries < 0 {
		return fmt.Errorf("retry budget must not be negative, got %d", r.Retries)
	}
	if r.Compression.Extension() == "" && r.Compression != compression.None {
		return fmt.Errorf("unsupported compression %s", r.Compression)
	}
	return nil
}

func (r Resource) StagingPath() string {
	return r.Dest + StagingSuffix
}
