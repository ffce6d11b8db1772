package log

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	errEmptyLoggerName           = errors.New("cannot have empty logger name")
	errSubLoggerAlreadyRegistered = errors.New("sub logger already registered")
	errSubLoggerNotFound          = errors.New("sub logger not found")
)

// NewSubLogger allows for a new sub logger to be registered. It starts
// disabled until a level is set or SetupGlobalLogger is called
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptyLoggerName
	}
	name = strings.ToUpper(name)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := subLoggers[name]; ok {
		return nil, fmt.Errorf("%w: %v", errSubLoggerAlreadyRegistered, name)
	}
	return registerNewSubLogger(name), nil
}

// GetSubLogger returns a registered sub logger by name
func GetSubLogger(name string) (*SubLogger, error) {
	mu.RLock()
	defer mu.RUnlock()
	sl, ok := subLoggers[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errSubLoggerNotFound, name)
	}
	return sl, nil
}

// SetOutput overrides the default output with a new writer
func (sl *SubLogger) SetOutput(o io.Writer) {
	mu.Lock()
	sl.output = o
	mu.Unlock()
}

// SetLevels overrides the default levels with new levels; levelception
func (sl *SubLogger) SetLevels(newLevels Levels) {
	mu.Lock()
	sl.levels = newLevels
	mu.Unlock()
}

// GetLevels returns the current enabled levels
func (sl *SubLogger) GetLevels() Levels {
	mu.RLock()
	defer mu.RUnlock()
	return sl.levels
}

// Name returns the sub logger name
func (sl *SubLogger) Name() string {
	return sl.name
}

// getFields returns a copy of the sub logger state, the caller must hold a
// read lock
func (sl *SubLogger) getFields() *logFields {
	if sl == nil || sl.output == nil {
		return nil
	}
	return &logFields{
		info:   sl.levels.Info,
		warn:   sl.levels.Warn,
		debug:  sl.levels.Debug,
		error:  sl.levels.Error,
		name:   sl.name,
		output: sl.output,
		logger: logger,
	}
}

func registerNewSubLogger(name string) *SubLogger {
	temp := &SubLogger{name: strings.ToUpper(name)}
	subLoggers[temp.name] = temp
	return temp
}

// register all loggers at package init()
func init() {
	defaults := GenDefaultSettings()
	logger = newLogger(&defaults)
	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	Setup = registerNewSubLogger("SETUP")
	ConfigMgr = registerNewSubLogger("CONFIG")
	Data = registerNewSubLogger("DATA")
	Database = registerNewSubLogger("DATABASE")
	Strategy = registerNewSubLogger("STRATEGY")
	Exchange = registerNewSubLogger("EXCHANGE")
	Portfolio = registerNewSubLogger("PORTFOLIO")
	Statistics = registerNewSubLogger("STATISTICS")
	Report = registerNewSubLogger("REPORT")
}
