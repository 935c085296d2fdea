package debug

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Tracef logs gated trace output for the matching pipeline.
func Tracef(enabled bool, format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}

// Timing measures and logs the duration of an operation if tracing is
// enabled. Use as: defer debug.Timing(enabled, "fit plants_steam")().
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	logrus.Debugf("starting: %s", operation)

	return func() {
		logrus.WithField("took", time.Since(start)).Debugf("completed: %s", operation)
	}
}
