package log

import (
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

const traceTimestampFormat = "Jan _2 2006 15:04:05.000000"

// AddTracer mirrors trace and warn entries as JSON lines into path.trace and
// path.warn. Entries still have to pass the base level to reach the files.
func AddTracer(path string) {
	pathMap := lfshook.PathMap{
		logrus.TraceLevel: path + ".trace",
		logrus.WarnLevel:  path + ".warn",
	}
	hook := lfshook.NewHook(
		pathMap,
		&logrus.JSONFormatter{
			TimestampFormat: traceTimestampFormat,
		},
	)
	base.Hooks.Add(hook)
}

// ResetTracers drops every hook installed by AddTracer.
func ResetTracers() {
	base.ReplaceHooks(make(logrus.LevelHooks))
}
