package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger is the sink errors and progress are reported through. Args are
// alternating key/value pairs.
type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type StdLogger struct {
	internalLogger *logrus.Logger
}

// New wraps l. A nil l uses the logrus standard logger.
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &StdLogger{internalLogger: l}
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.entry(args).Info(msg)
}

func (l *StdLogger) Debug(msg string, args ...interface{}) {
	l.entry(args).Debug(msg)
}

func (l *StdLogger) Warn(msg string, args ...interface{}) {
	l.entry(args).Warn(msg)
}

func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.entry(args).Error(msg)
}

func (l *StdLogger) entry(args []interface{}) *logrus.Entry {
	return l.internalLogger.WithFields(Fields(args...))
}

// Fields turns key/value pairs into logrus fields. A trailing key without a
// value is kept under "!BADKEY".
func Fields(args ...interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		fields[key] = args[i+1]
	}
	return fields
}
