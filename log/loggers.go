package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Info takes a pointer subLogger struct and string sends to StageLogEvent
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.InfoHeader, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface sends to StageLogEvent
func Infoln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.InfoHeader, func() string { return fmt.Sprintln(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Infof(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.InfoHeader, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string sends to StageLogEvent
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.DebugHeader, func() string { return data })
}

// Debugln takes a pointer subLogger struct, string and interface sends to StageLogEvent
func Debugln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.DebugHeader, func() string { return fmt.Sprintln(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Debugf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.DebugHeader, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct & string and sends to StageLogEvent
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.WarnHeader, func() string { return data })
}

// Warnln takes a pointer subLogger struct & interface formats and sends to StageLogEvent
func Warnln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.WarnHeader, func() string { return fmt.Sprintln(v...) })
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Warnf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.WarnHeader, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct & interface formats and sends to StageLogEvent
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.ErrorHeader, func() string { return data })
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to StageLogEvent
func Errorln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.ErrorHeader, func() string { return fmt.Sprintln(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Errorf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(logger.ErrorHeader, func() string { return fmt.Sprintf(data, v...) })
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

// enabled checks if the log level is enabled
func (l *logFields) enabled(header string) bool {
	switch header {
	case l.logger.InfoHeader:
		return l.info
	case l.logger.WarnHeader:
		return l.warn
	case l.logger.ErrorHeader:
		return l.error
	case l.logger.DebugHeader:
		return l.debug
	}
	return false
}

// stage formats and writes a log event, the message is only built when the
// level is enabled
func (l *logFields) stage(header string, deferFunc func() string) {
	if l == nil || !l.enabled(header) {
		return
	}
	msg := deferFunc()
	now := time.Now()
	if hook != nil && hook(Event{Time: now, Level: levelName(header), SubLogger: l.name, Message: msg}) {
		return
	}
	var sb strings.Builder
	sb.WriteString(header)
	if l.logger.TimestampFormat != "" {
		sb.WriteString(now.Format(l.logger.TimestampFormat))
	}
	if l.logger.ShowLogSystemName {
		sb.WriteString(l.logger.Spacer)
		sb.WriteString(l.name)
	}
	sb.WriteString(l.logger.Spacer)
	sb.WriteString(strings.TrimSuffix(msg, "\n"))
	sb.WriteString("\n")
	_, err := l.output.Write([]byte(sb.String()))
	displayError(err)
}
