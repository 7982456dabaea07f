package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagSilent       bool // --silent
	FlagJSON         bool // structured output for CI
)

func ConfigureLoggerFromFlags() {
	var out io.Writer = os.Stderr
	var level string
	switch {
	case FlagQuiet:
		level = "error" // errors only
	case FlagSilent:
		level = "error"
		out = io.Discard // silent = no output at all, even errors
	default:
		switch FlagVerboseCount {
		case 0:
			level = "info"
		default:
			level = "debug"
		}
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   out,
	})
}
