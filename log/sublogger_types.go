package log

import "io"

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global     *SubLogger
	BackTester *SubLogger
	Setup      *SubLogger
	ConfigMgr  *SubLogger
	Data       *SubLogger
	Database   *SubLogger
	Strategy   *SubLogger
	Exchange   *SubLogger
	Portfolio  *SubLogger
	Statistics *SubLogger
	Report     *SubLogger
)

// SubLogger defines a named sub logger with its own levels and output
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}

// logFields is a point in time copy of a sub logger so a log line cannot be
// modified mid write
type logFields struct {
	info   bool
	warn   bool
	debug  bool
	error  bool
	name   string
	output io.Writer
	logger Logger
}
