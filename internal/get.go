package internal

import (
	"path/filepath"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
	"github.com/MrSnakeDoc/kegfetch/internal/config"
	"github.com/MrSnakeDoc/kegfetch/internal/errs"
	"github.com/MrSnakeDoc/kegfetch/internal/fetch"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"
	"github.com/MrSnakeDoc/kegfetch/internal/syncer"

	"github.com/spf13/cobra"
)

const compressionAuto = "auto"

func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get URL DEST",
		Short: "Download URL into DEST unless it is unchanged",
		Long: `Downloads a single remote file. The cache record kept next to DEST (or in
the file given with --cache) makes the request conditional, and DEST is only
replaced when the content differs from the last download.

Examples:
    kegfetch get https://purl.obolibrary.org/obo/ro.owl imports/ro.owl
    kegfetch get https://example.org/go.obo.gz go.obo --retries 2
    kegfetch get https://example.org/data.bz2 data.tsv --compression bzip2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			retries := conf.DefaultRetries
			if cmd.Flags().Changed("retries") {
				if retries, err = cmd.Flags().GetInt("retries"); err != nil {
					return err
				}
			}
			if retries < 0 {
				return middleware.FlagComboError(errs.NegativeRetries, retries)
			}

			compName, err := cmd.Flags().GetString("compression")
			if err != nil {
				return err
			}
			kind, err := parseCompression(compName, args[0])
			if err != nil {
				return middleware.FlagComboError(errs.UnknownCompression, compName)
			}

			cachePath, err := cmd.Flags().GetString("cache")
			if err != nil {
				return err
			}
			seed, err := cmd.Flags().GetBool("seed-from-dest")
			if err != nil {
				return err
			}
			allowMissing, err := cmd.Flags().GetBool("allow-missing")
			if err != nil {
				return err
			}

			res := fetch.Resource{URL: args[0], Dest: args[1], Compression: kind, Retries: retries}
			if err := res.Validate(); err != nil {
				return err
			}
			if cachePath == "" {
				cachePath = res.Dest + ".cache"
			}

			s := syncer.New(nil, fetch.New(conf, nil), conf)
			result := s.Sync(cmd.Context(), filepath.Base(res.Dest), res, cachePath, syncer.Options{SeedFromDest: seed})
			if result.Err != nil {
				return middleware.ErrLogged
			}
			return syncer.Summarize([]syncer.Result{result}).Err(allowMissing)
		},
	}

	cmd.Flags().String("cache", "", "Cache record file (default DEST.cache)")
	cmd.Flags().IntP("retries", "r", 0, "Retry budget for transient failures (default $KEGFETCH_RETRIES or 4)")
	cmd.Flags().StringP("compression", "c", compressionAuto, "Payload compression: auto, none, gzip or bzip2")
	cmd.Flags().Bool("seed-from-dest", false, "Build a missing cache record from an existing DEST")
	cmd.Flags().Bool("allow-missing", false, "Do not fail when the origin answers 404")

	return cmd
}

func parseCompression(name, rawURL string) (compression.Kind, error) {
	if name == compressionAuto {
		return compression.FromURL(rawURL), nil
	}
	return compression.Parse(name)
}
