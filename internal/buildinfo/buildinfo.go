package buildinfo

import (
	"fmt"
	"io"
	"runtime"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Kegfetch - keep local copies of remote files up to date")
	_, _ = fmt.Fprintf(w, "  %-12s %s\n", "Version:", Version)
	_, _ = fmt.Fprintf(w, "  %-12s %s\n", "Go Version:", GoVersion)
	_, _ = fmt.Fprintf(w, "  %-12s %s\n", "Git Commit:", Commit)
	_, _ = fmt.Fprintf(w, "  %-12s %s\n", "Built:", Date)
	_, _ = fmt.Fprintf(w, "  %-12s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}
