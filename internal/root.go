package internal

import (
	"context"

	"github.com/MrSnakeDoc/kegfetch/internal/buildinfo"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kegfetch",
		Short: "Keep local copies of remote files up to date",
		Long: `Kegfetch keeps local copies of remote files in sync with their origin.
It sends conditional requests, retries transient failures and only replaces a
file when its content actually changed.`,
		Example: `kegfetch get https://purl.obolibrary.org/obo/ro.owl imports/ro.owl
kegfetch sync`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.ConfigureLoggerFromFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				buildinfo.Print(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (repeatable)")
	pf.BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	pf.BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	pf.BoolVar(&logger.FlagJSON, "json", false, "Log as JSON")
	pf.StringVar(&logger.FlagLogFile, "log-file", "", "Also write a rotated JSON log to this file")
	pf.String(middleware.ManifestFlag, "", "Manifest to use instead of the remembered one")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute(ctx context.Context) error {
	// Flag parsing errors are reported before PersistentPreRun.
	logger.ConfigureLoggerFromFlags()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
