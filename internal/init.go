package internal

import (
	"github.com/MrSnakeDoc/kegfetch/internal/initiator"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kegfetch in current directory",
		Long: `Initialize kegfetch configuration.
This command will:
- Create kegfetch.yml in the current directory, unless it exists
- Create the configuration directory in ~/.config/kegfetch
- Remember the manifest path in the global configuration`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := initiator.New().Execute()
			if err != nil {
				return err
			}

			logger.Success("Initialized kegfetch with %s", path)
			return nil
		},
	}
}
