package main

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

// PtermLogger implements calculation.Logger with pterm prefix printers.
// Messages go to stderr so formatted reports on stdout stay machine readable.
type PtermLogger struct {
	debug, info, warn, err pterm.PrefixPrinter
	verbose                bool
}

// NewPtermLogger creates a logger writing to w (stderr when nil).
// Debug messages are printed only when verbose is set.
func NewPtermLogger(w io.Writer, verbose bool) *PtermLogger {
	if w == nil {
		w = os.Stderr
	}
	debug := *pterm.Debug.WithWriter(w)
	debug.Debugger = false
	return &PtermLogger{
		debug:   debug,
		info:    *pterm.Info.WithWriter(w),
		warn:    *pterm.Warning.WithWriter(w),
		err:     *pterm.Error.WithWriter(w),
		verbose: verbose,
	}
}

func (l *PtermLogger) Debugf(format string, args ...any) {
	if l.verbose {
		l.debug.Printfln(format, args...)
	}
}

func (l *PtermLogger) Infof(format string, args ...any)  { l.info.Printfln(format, args...) }
func (l *PtermLogger) Warnf(format string, args ...any)  { l.warn.Printfln(format, args...) }
func (l *PtermLogger) Errorf(format string, args ...any) { l.err.Printfln(format, args...) }
