// Package logging provides structured logging with zerolog.
// Every record passes through a redacting writer that masks declared PII
// field values in the message before the record reaches any sink; the
// redaction step is unconditional and cannot be bypassed by callers.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thalib/privlog/cmd/privlog/internal/constants"
	"github.com/thalib/privlog/cmd/privlog/internal/redact"
)

// redactingWriter masks PII field values in the message of every record
// before handing it to the next writer in the chain. It sits directly
// behind zerolog, so no sink ever sees an unredacted message.
type redactingWriter struct {
	next      io.Writer
	formatter *redact.Formatter
}

func (rw *redactingWriter) Write(p []byte) (n int, err error) {
	var logEntry map[string]any
	if err := json.Unmarshal(p, &logEntry); err != nil {
		// Not a JSON record; redact the raw line rather than letting
		// it through unfiltered.
		masked := rw.formatter.Apply(strings.TrimSuffix(string(p), "\n"))
		if _, err := rw.next.Write(append([]byte(masked), '\n')); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	if msg, ok := logEntry[zerolog.MessageFieldName].(string); ok {
		logEntry[zerolog.MessageFieldName] = rw.formatter.Apply(msg)
	}

	out, err := json.Marshal(logEntry)
	if err != nil {
		return 0, err
	}
	if _, err := rw.next.Write(append(out, '\n')); err != nil {
		return 0, err
	}

	// Report p as fully consumed regardless of the rewritten length
	return len(p), nil
}

// simpleWriter is a custom writer that formats logs as: [LEVEL](TIMESTAMP): {MESSAGE}
type simpleWriter struct {
	out io.Writer
}

func (sw *simpleWriter) Write(p []byte) (n int, err error) {
	var logEntry map[string]any
	if err := json.Unmarshal(p, &logEntry); err != nil {
		// If not JSON, just write as-is
		return sw.out.Write(p)
	}

	// Extract fields
	level, _ := logEntry["level"].(string)
	timestamp, _ := logEntry["time"].(string)
	message, _ := logEntry["message"].(string)

	// Format as [LEVEL](TIMESTAMP): {MESSAGE}
	formatted := fmt.Sprintf("[%s](%s): %s\n",
		strings.ToUpper(level),
		timestamp,
		message,
	)

	return sw.out.Write([]byte(formatted))
}

// dualWriter writes JSON logs to two outputs with different formatting:
// - consoleWriter: uses zerolog.ConsoleWriter for colorized output
// - fileWriter: uses simpleWriter for file logging
type dualWriter struct {
	consoleWriter io.Writer
	fileWriter    io.Writer
}

func (dw *dualWriter) Write(p []byte) (n int, err error) {
	// Console writer (first, as it's the primary output for console mode)
	n1, err1 := dw.consoleWriter.Write(p)

	// File writer (always attempt, even if console fails)
	n2, err2 := dw.fileWriter.Write(p)

	if n1 > n2 {
		n = n1
	} else {
		n = n2
	}

	if err1 != nil {
		return n, err1
	}
	return n, err2
}

// Level represents logging levels
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level Level

	// Format is the output format (json, console or simple)
	Format string

	// Output is the writer for logs (default: os.Stdout)
	Output io.Writer

	// FilePath is the path to the log file (if specified, Output is ignored)
	FilePath string

	// DualOutput enables dual logging: stdout (console format) + file (simple format)
	// When true, logs are written to both stdout and FilePath
	DualOutput bool

	// ServiceName is the name of the service
	ServiceName string

	// Version is the version of the service
	Version string

	// SlowQueryThreshold is the duration after which a query is considered slow
	SlowQueryThreshold time.Duration

	// PIIFields are field names whose values are masked in every record's
	// message (default: constants.PIIFields)
	PIIFields []string

	// Mask is the replacement token for PII values (default: constants.Redaction)
	Mask string

	// Separator is the field=value token delimiter (default: constants.Separator)
	Separator string

	// SensitiveFields are additional field names masked in structured
	// log fields, on top of constants.SensitiveFields
	SensitiveFields []string
}

// Logger wraps zerolog for structured logging
type Logger struct {
	logger          zerolog.Logger
	config          LoggerConfig
	formatter       *redact.Formatter
	sensitiveFields map[string]bool
}

// NewLogger creates a new structured logger
func NewLogger(config LoggerConfig) *Logger {
	var output io.Writer

	// Handle dual output mode (console + file)
	if config.DualOutput && config.FilePath != "" {
		dir := filepath.Dir(config.FilePath)
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory %s: %v\n", dir, err)
			// Fall back to stdout only
			output = os.Stdout
		} else {
			file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissions)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", config.FilePath, err)
				output = os.Stdout
			} else {
				// Dual writer: stdout gets console format, file gets simple format
				consoleOut := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
				fileOut := &simpleWriter{out: file}
				output = &dualWriter{
					consoleWriter: consoleOut,
					fileWriter:    fileOut,
				}
			}
		}
	} else if config.FilePath != "" {
		// Single output to file only
		dir := filepath.Dir(config.FilePath)
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory %s: %v\n", dir, err)
			output = os.Stdout
		} else {
			file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissions)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", config.FilePath, err)
				output = os.Stdout
			} else {
				output = file
			}
		}
	} else if config.Output != nil {
		output = config.Output
	} else {
		output = os.Stdout
	}

	if config.Level == "" {
		config.Level = LevelInfo
	}

	if config.SlowQueryThreshold == 0 {
		config.SlowQueryThreshold = constants.SlowQueryThreshold
	}

	if config.PIIFields == nil {
		config.PIIFields = constants.PIIFields
	}
	if config.Mask == "" {
		config.Mask = constants.Redaction
	}
	if config.Separator == "" {
		config.Separator = constants.Separator
	}

	formatter := redact.New(config.PIIFields, config.Separator, config.Mask)

	// Set zerolog level
	var zeroLevel zerolog.Level
	switch config.Level {
	case LevelDebug:
		zeroLevel = zerolog.DebugLevel
	case LevelInfo:
		zeroLevel = zerolog.InfoLevel
	case LevelWarn:
		zeroLevel = zerolog.WarnLevel
	case LevelError:
		zeroLevel = zerolog.ErrorLevel
	default:
		zeroLevel = zerolog.InfoLevel
	}

	// Configure the formatting writer for the requested output format
	var sink io.Writer
	if config.DualOutput {
		// The dualWriter handles formatting internally
		sink = output
	} else if config.Format == "json" {
		sink = output
	} else if config.Format == "console" {
		sink = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	} else {
		// Default to simple text format: [LEVEL](TIMESTAMP): {MESSAGE}
		sink = &simpleWriter{out: output}
	}

	// The redacting writer sits between zerolog and every sink, so a
	// record is masked exactly once regardless of the output format.
	redacting := &redactingWriter{next: sink, formatter: formatter}

	logger := zerolog.New(redacting).Level(zeroLevel).With().Timestamp().Logger()

	// Add service context (will be in JSON but filtered by simpleWriter in simple format)
	if config.ServiceName != "" {
		logger = logger.With().Str("service", config.ServiceName).Logger()
	}
	if config.Version != "" {
		logger = logger.With().Str("version", config.Version).Logger()
	}

	// Build sensitive fields map (case-insensitive)
	sensitiveFields := make(map[string]bool)
	for _, field := range config.SensitiveFields {
		sensitiveFields[strings.ToLower(field)] = true
	}

	// Add default sensitive fields (lowercase for case-insensitive matching)
	for _, field := range constants.SensitiveFields {
		sensitiveFields[field] = true
	}

	return &Logger{
		logger:          logger,
		config:          config,
		formatter:       formatter,
		sensitiveFields: sensitiveFields,
	}
}

// Formatter returns the redaction formatter applied to every record.
func (l *Logger) Formatter() *redact.Formatter {
	return l.formatter
}

// WithContext returns a logger with context fields
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := *l

	// Add request ID if present
	if requestID := GetRequestID(ctx); requestID != "" {
		newLogger.logger = l.logger.With().Str(constants.ContextKeyRequestID, requestID).Logger()
	}

	return &newLogger
}

// WithField returns a logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	newLogger := *l
	newLogger.logger = l.logger.With().Interface(key, l.maskSensitive(key, value)).Logger()
	return &newLogger
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	newLogger := *l
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, l.maskSensitive(key, value))
	}
	newLogger.logger = ctx.Logger()
	return &newLogger
}

// maskSensitive masks sensitive field values (case-insensitive)
func (l *Logger) maskSensitive(key string, value any) any {
	if l.sensitiveFields[strings.ToLower(key)] {
		return constants.RedactedPlaceholder
	}
	return value
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// ErrorWithErr logs an error with the error object
func (l *Logger) ErrorWithErr(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

// LogSlowQuery logs a slow query warning
func (l *Logger) LogSlowQuery(query string, duration time.Duration) {
	if duration >= l.config.SlowQueryThreshold {
		l.logger.Warn().
			Str("query", query).
			Dur("duration", duration).
			Msg("Slow query detected")
	}
}

// Context key for request ID
type contextKey string

const requestIDKey contextKey = constants.ContextKeyRequestID

// NewRequestID generates a fresh request ID for correlating the records
// of one audit run.
func NewRequestID() string {
	return uuid.New().String()
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID gets the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Global logger instance
var globalLogger *Logger

// Init initializes the global logger
func Init(config LoggerConfig) {
	globalLogger = NewLogger(config)
}

// GetLogger returns the global logger
func GetLogger() *Logger {
	if globalLogger == nil {
		// Initialize with default config
		globalLogger = NewLogger(LoggerConfig{
			Level:  LevelInfo,
			Format: "json",
		})
	}
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(msg string) {
	GetLogger().Debug(msg)
}

// Debugf logs a formatted debug message using the global logger
func Debugf(format string, args ...any) {
	GetLogger().Debugf(format, args...)
}

// Info logs an info message using the global logger
func Info(msg string) {
	GetLogger().Info(msg)
}

// Infof logs a formatted info message using the global logger
func Infof(format string, args ...any) {
	GetLogger().Infof(format, args...)
}

// Warn logs a warning message using the global logger
func Warn(msg string) {
	GetLogger().Warn(msg)
}

// Warnf logs a formatted warning message using the global logger
func Warnf(format string, args ...any) {
	GetLogger().Warnf(format, args...)
}

// Error logs an error message using the global logger
func Error(msg string) {
	GetLogger().Error(msg)
}

// Errorf logs a formatted error message using the global logger
func Errorf(format string, args ...any) {
	GetLogger().Errorf(format, args...)
}

// ErrorWithErr logs an error with the error object using the global logger
func ErrorWithErr(msg string, err error) {
	GetLogger().ErrorWithErr(msg, err)
}
