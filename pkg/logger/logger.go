package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options configures a Logger.
type Options struct {
	Level      string
	Format     string // text or json
	File       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	// Output replaces stdout. Used by tests.
	Output io.Writer
}

// Logger wraps logrus with additional functionality
type Logger struct {
	*logrus.Logger
	fields logrus.Fields
}

// New creates a logger from opts. When a file is configured, records are
// written to both the output and a rotated log file.
func New(opts Options) *Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	l := &Logger{
		Logger: log,
		fields: make(logrus.Fields),
	}
	l.SetFormatter(opts.Format)

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		} else {
			out = io.MultiWriter(out, &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    orDefault(opts.MaxSize, 100),
				MaxBackups: orDefault(opts.MaxBackups, 3),
				MaxAge:     orDefault(opts.MaxAge, 28),
				Compress:   opts.Compress,
			})
		}
	}
	log.SetOutput(out)

	return l
}

// NewLogger creates a text logger at the given level, optionally mirrored to logFile.
func NewLogger(level, logFile string) *Logger {
	return New(Options{Level: level, Format: "text", File: logFile})
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Options{Level: "panic", Output: io.Discard})
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields adds multiple fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newFields := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &Logger{
		Logger: l.Logger,
		fields: newFields,
	}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// entry builds a logrus entry for msg. When msg has no verbs, an even
// number of args is read as key/value pairs; otherwise args are printf
// arguments.
func (l *Logger) entry(msg string, args []interface{}) (*logrus.Entry, string) {
	e := l.Logger.WithFields(l.fields)
	if len(args) == 0 {
		return e, msg
	}
	if len(args)%2 == 0 && !strings.Contains(msg, "%") {
		fields := make(logrus.Fields, len(args)/2)
		keyed := true
		for i := 0; i < len(args); i += 2 {
			key, ok := args[i].(string)
			if !ok {
				keyed = false
				break
			}
			fields[key] = args[i+1]
		}
		if keyed {
			return e.WithFields(fields), msg
		}
	}
	return e, fmt.Sprintf(msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	e, m := l.entry(msg, args)
	e.Debug(m)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	e, m := l.entry(msg, args)
	e.Info(m)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, args ...interface{}) {
	e, m := l.entry(msg, args)
	e.Warning(m)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	e, m := l.entry(msg, args)
	e.Error(m)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, args ...interface{}) {
	e, m := l.entry(msg, args)
	e.Fatal(m)
}

// SecurityLogger logs security-related events such as rejected credentials
func (l *Logger) SecurityLogger(event, userID, details string) {
	l.WithFields(map[string]interface{}{
		"event_type": "security",
		"event":      event,
		"user_id":    userID,
		"details":    details,
		"timestamp":  time.Now().Unix(),
	}).Warning("Security event logged")
}

// AuditLogger logs audit events
func (l *Logger) AuditLogger(action, userID, resource, details string) {
	l.WithFields(map[string]interface{}{
		"event_type": "audit",
		"action":     action,
		"user_id":    userID,
		"resource":   resource,
		"details":    details,
		"timestamp":  time.Now().Unix(),
	}).Info("Audit event logged")
}

// SetLogLevel dynamically sets the log level
func (l *Logger) SetLogLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.Logger.SetLevel(logLevel)
	return nil
}

// SetFormatter sets the log formatter
func (l *Logger) SetFormatter(format string) {
	switch format {
	case "json":
		l.Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	default:
		l.Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}
}
