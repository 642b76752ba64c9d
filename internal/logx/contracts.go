// Package logx defines the logging facade the settlement service writes
// against. Code depends on the Logger interface and Field constructors here;
// the concrete backend is chosen once, at wiring time.
package logx

import "time"

// Logger emits leveled entries carrying structured fields. With binds fields
// that repeat on every entry, such as a request id.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field is one key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Any wraps a value of any type into a Field.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// String builds a string-valued Field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int builds an int-valued Field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 builds an int64-valued Field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Time builds a time.Time-valued Field.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Duration builds a time.Duration-valued Field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}
