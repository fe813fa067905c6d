// Package log wraps logrus with one shared base logger and a per-module entry.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a logrus entry tagged with the name of the module that owns it.
type Logger struct {
	*logrus.Entry
}

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: false,
	})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

func NewLogger(module string) *Logger {
	entry := base.WithFields(logrus.Fields{
		"name": module,
	})
	return &Logger{entry}
}

// SetLevel changes the level of every logger handed out by NewLogger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

func Base() *logrus.Logger {
	return base
}
