package initiator

import (
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/kegfetch/internal/globalconfig"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

type Initiator struct {
	// Dir is where the manifest is created; the working directory when empty.
	Dir string
}

func New() *Initiator {
	return &Initiator{}
}

// Execute creates an empty manifest unless one already exists, and remembers
// its location in the global configuration. It returns the manifest path.
func (i *Initiator) Execute() (string, error) {
	dir := i.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = cwd
	}

	manifestFile := filepath.Join(dir, manifest.FileName)
	ok, err := utils.FileExists(manifestFile)
	if err != nil {
		return "", err
	}
	if !ok {
		if err := utils.CreateFile(manifestFile, manifest.Empty, utils.FileTypeBinary, 0o644); err != nil {
			return "", err
		}
		logger.Success("Created empty %s file", manifestFile)
	} else {
		logger.Debug("keeping existing %s", manifestFile)
	}

	cfg := &globalconfig.PersistentConfig{ManifestFile: manifestFile}
	if err := cfg.Save(); err != nil {
		return "", err
	}
	return manifestFile, nil
}
