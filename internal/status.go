package internal

import (
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"
	"github.com/MrSnakeDoc/kegfetch/internal/status"

	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local state of every manifest resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := middleware.Get[*manifest.Manifest](cmd, middleware.CtxKeyManifest)
			if err != nil {
				return err
			}

			r := status.New(m)
			r.Printer = tablePrinter()
			return r.Execute()
		},
	}
}
