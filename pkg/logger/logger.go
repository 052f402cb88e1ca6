package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

func NewLogger() *Logger {
	return New(os.Stdout, logrus.InfoLevel)
}

// New builds a JSON logger writing to out. Tests pass io.Discard.
func New(out io.Writer, level logrus.Level) *Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(level)

	return &Logger{logger}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, logrus.PanicLevel)
}

// SetLevelName switches the level from a config string, keeping the current
// level when the name is not recognised.
func (l *Logger) SetLevelName(name string) {
	if level, err := logrus.ParseLevel(name); err == nil {
		l.Logger.SetLevel(level)
	}
}

func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}
