package internal

import (
	"github.com/MrSnakeDoc/kegfetch/internal/config"
	"github.com/MrSnakeDoc/kegfetch/internal/errs"
	"github.com/MrSnakeDoc/kegfetch/internal/fetch"
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"
	"github.com/MrSnakeDoc/kegfetch/internal/syncer"

	"github.com/spf13/cobra"
)

func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [resources...]",
		Short: "Bring every manifest resource up to date",
		Long: `Fetches the resources listed in kegfetch.yml, one after the other, and
prints a summary. Only resources whose content changed are rewritten.

Examples:
    kegfetch sync                    # every resource
    kegfetch sync ro go              # only ro and go
    kegfetch sync --force            # ignore cache records, download everything
    kegfetch sync --seed-from-dest   # adopt files already on disk`,
		Args: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			seed, _ := cmd.Flags().GetBool("seed-from-dest")
			if force && seed {
				return middleware.FlagComboError(errs.ForceWithSeed, "sync")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			m, err := middleware.Get[*manifest.Manifest](cmd, middleware.CtxKeyManifest)
			if err != nil {
				return err
			}

			var opts syncer.Options
			if opts.Force, err = cmd.Flags().GetBool("force"); err != nil {
				return err
			}
			if opts.SeedFromDest, err = cmd.Flags().GetBool("seed-from-dest"); err != nil {
				return err
			}
			if opts.AllowMissing, err = cmd.Flags().GetBool("allow-missing"); err != nil {
				return err
			}

			s := syncer.New(m, fetch.New(conf, nil), conf)
			s.Printer = tablePrinter()

			_, err = s.Execute(cmd.Context(), args, opts)
			return err
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Ignore cache records and download everything again")
	cmd.Flags().Bool("seed-from-dest", false, "Build missing cache records from existing destinations")
	cmd.Flags().Bool("allow-missing", false, "Do not fail when an origin answers 404")

	return cmd
}
