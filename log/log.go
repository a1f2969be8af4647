// Package log is a thin wrapper around jwalterweatherman shared by all
// gorgon packages. Feedback is for user-facing CLI output, the leveled
// helpers are for diagnostics.
package log

import (
	"os"

	"github.com/mattn/go-isatty"
	jww "github.com/spf13/jwalterweatherman"
)

// Setup configures the stdout logging threshold. Verbose enables debug
// output; non-terminal stdout is kept quiet except for warnings.
func Setup(verbose bool) {
	switch {
	case verbose:
		jww.SetStdoutThreshold(jww.LevelDebug)
	case isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()):
		jww.SetStdoutThreshold(jww.LevelInfo)
	default:
		jww.SetStdoutThreshold(jww.LevelWarn)
	}
}

// Process logs a named processing step.
func Process(component string, step string) {
	jww.INFO.Printf("%s: %s", component, step)
}

func Debugf(format string, args ...any) {
	jww.DEBUG.Printf(format, args...)
}

func Infof(format string, args ...any) {
	jww.INFO.Printf(format, args...)
}

func Warnf(format string, args ...any) {
	jww.WARN.Printf(format, args...)
}

func Errorf(format string, args ...any) {
	jww.ERROR.Printf(format, args...)
}

// Feedback prints directly to the user regardless of log level.
func Feedback(format string, args ...any) {
	jww.FEEDBACK.Printf(format, args...)
}
