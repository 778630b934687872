package globalconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/kegfetch/internal/utils"
	"github.com/MrSnakeDoc/kegfetch/internal/utils/pathutils"
)

type PersistentConfig struct {
	ManifestFile string `yaml:"manifest_file"`
}

const (
	configDir  = ".config/kegfetch"
	configFile = "config.yml"
)

// ErrNoConfig is returned when `kegfetch init` was never run.
var ErrNoConfig = errors.New("no configuration found. Please run 'kegfetch init' first")

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

func LoadPersistentConfig() (*PersistentConfig, error) {
	fullConfigDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(fullConfigDir, configFile)

	var cfg PersistentConfig
	if err := utils.FileReader(configPath, utils.FileTypeYAML, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	absPath, err := pathutils.ToAbsolutePath(cfg.ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("manifest not found at %s: %w", cfg.ManifestFile, err)
	}

	cfg.ManifestFile = absPath
	return &cfg, nil
}

func (c *PersistentConfig) Save() error {
	fullConfigDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	homePath, err := pathutils.ToHomePathFormat(c.ManifestFile)
	if err != nil {
		return fmt.Errorf("failed to convert to home path format: %w", err)
	}

	out := PersistentConfig{ManifestFile: homePath}
	if err := utils.CreateFile(filepath.Join(fullConfigDir, configFile), out, utils.FileTypeYAML, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolveManifest picks the manifest to use: the explicit path if given,
// then the remembered one, then kegfetch.yml in the working directory.
func ResolveManifest(explicit, fallbackName string) (string, error) {
	if explicit != "" {
		return pathutils.ToAbsolutePath(explicit)
	}

	cfg, err := LoadPersistentConfig()
	if err == nil {
		return cfg.ManifestFile, nil
	}
	if !errors.Is(err, ErrNoConfig) {
		return "", err
	}

	cwd, cerr := os.Getwd()
	if cerr != nil {
		return "", cerr
	}
	local := filepath.Join(cwd, fallbackName)
	if ok, _ := utils.FileExists(local); ok {
		return local, nil
	}
	return "", err
}
