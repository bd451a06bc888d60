package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Components derive their own
// entries from it via Get().WithField("component", ...).
var Log = logrus.New()

// Init applies the configured level and picks a formatter for the
// environment: JSON for production and staging, colored text elsewhere.
// An unknown level falls back to info rather than failing startup.
func Init(level, environment string) {
	Log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		Log.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	switch strings.ToLower(environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	Log.Debugf("Logger ready: level=%s environment=%s", Log.GetLevel(), environment)
}

// Get returns the configured shared logger.
func Get() *logrus.Logger {
	return Log
}
