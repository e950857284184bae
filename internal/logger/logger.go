// Package logger provides centralized logging functionality for wanna.
// Logs go to stderr (or a file) so they never interleave with the script output captured on stdout.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the global logger instance used throughout wanna.
var Logger *log.Logger

// output is the destination shared by the global logger and component loggers.
var output io.Writer = os.Stderr

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.WarnLevel)
}

// Configure sets up the logger based on CLI flags and environment variables.
// Precedence: CLI flag > WANNA_LOG_LEVEL > warn.
func Configure(logLevel string, logFile string, testMode bool) error {
	level := logLevel
	if level == "" {
		level = strings.ToLower(os.Getenv("WANNA_LOG_LEVEL"))
	}

	output = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		output = file
	}

	Logger = log.New(output)
	Logger.SetTimeFormat("")
	Logger.SetLevel(ParseLevel(level))

	if testMode {
		Logger.SetLevel(log.ErrorLevel)
	}

	return nil
}

// ParseLevel converts a level name to a log level, defaulting to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message with optional key-value pairs and exits.
func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

// ServiceOperation logs service operation details for debugging.
func ServiceOperation(service string, operation string, details ...interface{}) {
	Debug("Service operation", "service", service, "operation", operation, "details", details)
}

// NewStyledLogger creates a component logger with colored level badges and a prefix
// (e.g., "Controller", "Naming").
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()

	badge := func(name, background string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(name).
			Padding(0, 1, 0, 1).
			Background(lipgloss.Color(background)).
			Foreground(lipgloss.Color("15"))
	}
	styles.Levels[log.DebugLevel] = badge("DEBUG", "240")
	styles.Levels[log.InfoLevel] = badge("INFO", "33")
	styles.Levels[log.WarnLevel] = badge("WARN", "214")
	styles.Levels[log.ErrorLevel] = badge("ERROR", "196")
	styles.Levels[log.FatalLevel] = badge("FATAL", "88")

	styles.Keys["state"] = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	styles.Keys["attempt"] = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Keys["session"] = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	styles.Values["state"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	componentLogger := log.NewWithOptions(output, log.Options{
		Prefix: prefix + " ",
	})
	componentLogger.SetStyles(styles)
	componentLogger.SetLevel(Logger.GetLevel())

	return componentLogger
}
