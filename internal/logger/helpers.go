package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int    // -V, -VV, -VVV
	FlagQuiet        bool   // --quiet/-q
	FlagSilent       bool   // --silent/-s
	FlagJSON         bool   // optional, for CI
	FlagLogFile      string // --log-file
)

func ConfigureLoggerFromFlags() {
	var out io.Writer = os.Stdout
	var level string
	switch {
	case FlagQuiet:
		level = "error"
		out = os.Stdout // errors only
	case FlagSilent:
		level = "error" // silent = no output at all, even errors
		out = io.Discard
	default:
		// map -V levels
		switch FlagVerboseCount {
		case 0:
			level = "info"
		default:
			level = "debug"
		}
	}

	Configure(Options{
		Level:   level,
		JSON:    FlagJSON,
		Color:   !FlagJSON,
		Out:     out,
		LogFile: FlagLogFile,
	})
}
