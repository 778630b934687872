package internal

import (
	"github.com/MrSnakeDoc/kegfetch/internal/errs"
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"
	"github.com/MrSnakeDoc/kegfetch/internal/syncer"

	"github.com/spf13/cobra"
)

func NewForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget resources...",
		Short: "Delete cache records so the next sync downloads again",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return middleware.FlagComboError(errs.ProvideNames, "forget")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := middleware.Get[*manifest.Manifest](cmd, middleware.CtxKeyManifest)
			if err != nil {
				return err
			}

			_, err = syncer.New(m, nil, nil).Forget(args)
			return err
		},
	}
}
