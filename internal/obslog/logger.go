// Package obslog carries forward the teacher's narrow Logger interface
// (internal/converter/converter.go's Logger) but backs it with logrus
// instead of fmt.Printf, since the TAP domain has structured fields worth
// keeping (error codes, path-item ids, rap file ids) that the teacher's
// original file-conversion domain never needed.
package obslog

import "github.com/sirupsen/logrus"

// Logger is the narrow logging surface call sites depend on, unchanged in
// shape from the teacher's Logger interface.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

// logrusLogger adapts logrus.FieldLogger to Logger, turning the trailing
// key/value pairs into structured fields the way the teacher's
// defaultLogger turned them into a single formatted string.
type logrusLogger struct {
	entry *logrus.Entry
}

// New builds a Logger backed by logrus, configured with the given level.
func New(level logrus.Level) Logger {
	base := logrus.New()
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{entry: logrus.NewEntry(base)}
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}

func (l *logrusLogger) Debug(msg string, kv ...interface{}) { l.entry.WithFields(fields(kv)).Debug(msg) }
func (l *logrusLogger) Info(msg string, kv ...interface{})  { l.entry.WithFields(fields(kv)).Info(msg) }
func (l *logrusLogger) Warn(msg string, kv ...interface{})  { l.entry.WithFields(fields(kv)).Warn(msg) }
func (l *logrusLogger) Error(msg string, kv ...interface{}) { l.entry.WithFields(fields(kv)).Error(msg) }
