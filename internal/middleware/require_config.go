package middleware

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/kegfetch/internal/config"
	"github.com/MrSnakeDoc/kegfetch/internal/globalconfig"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/spf13/cobra"
)

// ManifestFlag is the persistent flag overriding the remembered manifest.
const ManifestFlag = "manifest"

// LoadConfig parses the KEGFETCH_* environment into the command context.
func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}
	logger.Debug("config: connect=%s read=%s interval=%s retries=%d",
		conf.ConnectTimeout, conf.ReadTimeout, conf.RetryInterval, conf.DefaultRetries)

	cmd.SetContext(context.WithValue(cmd.Context(), CtxKeyConfig, &conf))
	return next(cmd, args)
}

// LoadManifest resolves, parses and validates the manifest, then stores it
// in the command context.
func LoadManifest(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	explicit, _ := cmd.Flags().GetString(ManifestFlag)

	path, err := globalconfig.ResolveManifest(explicit, manifest.FileName)
	if err != nil {
		return fmt.Errorf("missing manifest: %w", err)
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("manifest: %s (%d resources)", path, len(m.Resources))

	cmd.SetContext(context.WithValue(cmd.Context(), CtxKeyManifest, m))
	return next(cmd, args)
}
