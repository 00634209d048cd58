package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init configures the package logger. Production logs are JSON.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter switches to human readable output for development.
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Discard silences the logger. Used by tests.
func Discard() {
	Log.SetOutput(io.Discard)
}
