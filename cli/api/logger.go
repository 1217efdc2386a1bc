package api

import "log"

// Logger is the logging interface used by the Client.
type Logger interface {
	Debugf(format string, v ...any)
	Errorf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, v ...any) {}
func (nopLogger) Errorf(format string, v ...any) {}

// StdLogger writes to a standard library logger. Debug lines are dropped
// unless Verbose is set.
type StdLogger struct {
	Log     *log.Logger
	Verbose bool
}

func (l *StdLogger) Debugf(format string, v ...any) {
	if l.Verbose {
		l.Log.Printf("debug: "+format, v...)
	}
}

func (l *StdLogger) Errorf(format string, v ...any) {
	l.Log.Printf("error: "+format, v...)
}
