package logger

import (
	"sync"
)

// Log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the process-wide stdout logger.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the stdout logger. The first call fixes the level; later
// calls return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = &Logger{SugaredLogger: newZapLogger(newConsoleCore(toZapLevel(level), stdoutSink()))}
	})
	return globalLogger
}

// New builds a logger writing to the file at path. The terminal screen uses
// it so log lines do not tear the UI. The caller must Close it.
func New(level, path string) (*Logger, error) {
	sink, f, err := fileSink(path)
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: newZapLogger(newConsoleCore(toZapLevel(level), sink)), file: f}, nil
}
