package internal

import (
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"
	"github.com/MrSnakeDoc/kegfetch/internal/printer"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewGetCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.LoadManifest)(NewSyncCmd),
	middleware.UseMiddlewareChain(middleware.LoadManifest)(NewStatusCmd),
	middleware.UseMiddlewareChain(middleware.LoadManifest)(NewForgetCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}

// tablePrinter keeps ANSI colours out of JSON runs.
func tablePrinter() *printer.ColorPrinter {
	if logger.FlagJSON {
		return printer.NewPlainPrinter()
	}
	return printer.NewColorPrinter()
}
