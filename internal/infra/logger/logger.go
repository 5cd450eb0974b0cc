package logger

import (
	"os"
	"strings"

	"donation_assistant_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components derive their own entries from
// it with WithField so every record carries a component tag.
var Log = logrus.New()

// Init applies the configured level and picks the output format: JSON for
// production and staging so collectors can ingest the records, colored text
// for development.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Unknown log level %q, falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	switch strings.ToLower(cfg.Environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	Log.WithField("level", Log.GetLevel().String()).Info("Logger initialized")
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}
