package log

import (
	"io"
	"sync/atomic"

	"gopkg.in/Sirupsen/logrus.v0"
)

// Level mirrors logrus levels, lower is more severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func (l Level) logrus() logrus.Level {
	return logrus.Level(l)
}

var disabled atomic.Bool

func init() {
	// Module masks decide what gets logged, logrus must let everything
	// through.
	logrus.SetLevel(logrus.DebugLevel)
}

// Disable turns off all logging, whatever the level or module.
func Disable() {
	disabled.Store(true)
}

// SetOutput sets the destination of all log entries.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}
