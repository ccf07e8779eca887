package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New — JSON-логгер logrus с уровнем из LOG_LEVEL
func New(level, env string) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, env)
}

func NewWithOutput(out io.Writer, level, env string) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
	}
	if env == "dev" {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	log.Out = out
	log.Level = parseLevel(level)
	return log
}

func parseLevel(lvl string) logrus.Level {
	l, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}
