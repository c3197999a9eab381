// Package yalogger is the structured logger used across the module. Components
// accept a Logger and default to NewNop, so logging never affects control flow.
//
// Example usage:
//
//	log := yalogger.NewBaseLogger(&yalogger.Config{Level: yalogger.DebugLevel}).NewLogger()
//	log.WithRandomRequestID().WithField("url", u).Debug("Sending request")
package yalogger

import (
	"github.com/google/uuid"
)

// Level mirrors the logrus levels so values can be passed through unchanged.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// BaseLoggerType selects the backend used by NewBaseLogger.
type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

const (
	KeyRequestID = "request_id"
	KeyComponent = "component"
)

// Config configures NewBaseLogger. It carries `default` tags so it can be
// loaded with the config package, e.g. LOGGER_LEVEL=debug.
type Config struct {
	BaseLoggerType   BaseLoggerType
	Level            Level  `default:"info"`
	FullTimestamp    bool   `default:"false"`
	DisableTimestamp bool   `default:"false"`
	TimestampFormat  string `default:"2006-01-02 15:04:05"`
}

// BaseLogger hands out Logger instances that share one output and level.
type BaseLogger interface {
	NewLogger() Logger
}

// Logger is a leveled logger with immutable context fields. The With* methods
// return a new Logger and never modify the receiver, so a per-request logger can
// be derived from a shared one without locking.
type Logger interface {
	Info(msg string)
	Infof(format string, args ...any)
	Trace(msg string)
	Tracef(format string, args ...any)
	Error(msg string)
	Errorf(format string, args ...any)
	Warn(msg string)
	Warnf(format string, args ...any)
	Debug(msg string)
	Debugf(format string, args ...any)

	// Fatal logs and exits the process, except on loggers built by NewNop.
	Fatal(msg string)
	Fatalf(format string, args ...any)

	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger

	// WithRequestStringID, WithRequestUUID and WithRandomRequestID set the
	// KeyRequestID field. The executor uses WithRandomRequestID to tie together
	// every send of one logical request.
	//
	// Example usage:
	//
	//	reqLog := log.WithRandomRequestID()
	//	id, _ := reqLog.GetField(yalogger.KeyRequestID).(string)
	WithRequestStringID(id string) Logger
	WithRequestUUID(id uuid.UUID) Logger
	WithRandomRequestID() Logger

	// GetFields returns a copy of the context fields.
	GetFields() map[string]any
	GetField(key string) any
}
