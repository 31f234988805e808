package file

import (
	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger writes the processing log: plain text lines into a rotated
// file.
type FileLogger struct {
	out    *lumberjack.Logger
	logger *log.Logger
}

// FileLoggerParams contains configuration for creating a FileLogger.
//
// MaxSizeMB and MaxBackups default to 10 and 3.
type FileLoggerParams struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	Debug      bool
}

// NewFileLogger opens (or creates) the log file at params.Path.
func NewFileLogger(params FileLoggerParams) *FileLogger {
	maxSize := params.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := params.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	out := &lumberjack.Logger{
		Filename:   params.Path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	}

	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: false,
		Level:           level,
		Formatter:       log.TextFormatter,
	})
	return &FileLogger{out: out, logger: logger}
}

func (f *FileLogger) Log(message string, keyvals ...any) {
	f.logger.Print(message, keyvals...)
}

func (f *FileLogger) Info(message string, keyvals ...any) {
	f.logger.Info(message, keyvals...)
}

func (f *FileLogger) Warn(message string, keyvals ...any) {
	f.logger.Warn(message, keyvals...)
}

func (f *FileLogger) Error(message string, keyvals ...any) {
	f.logger.Error(message, keyvals...)
}

func (f *FileLogger) Debug(message string, keyvals ...any) {
	f.logger.Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level. It does not exit.
func (f *FileLogger) Fatal(message string, keyvals ...any) {
	f.logger.Log(log.FatalLevel, message, keyvals...)
}

// Close closes the underlying log file.
func (f *FileLogger) Close() error {
	return f.out.Close()
}
