package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// New builds the process logger. Unknown levels fall back to info;
// format "text" switches from JSON to the human-readable formatter.
func New(level, format string) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, format)
}

func NewWithOutput(out io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// GormLevel maps a logrus level onto GORM's coarser SQL log levels.
func GormLevel(l logrus.Level) logger.LogLevel {
	switch {
	case l >= logrus.DebugLevel:
		return logger.Info
	case l >= logrus.WarnLevel:
		return logger.Warn
	case l >= logrus.ErrorLevel:
		return logger.Error
	default:
		return logger.Silent
	}
}
