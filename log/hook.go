package log

import "time"

// Event is a single enabled log line
type Event struct {
	Time      time.Time
	Level     string
	SubLogger string
	Message   string
}

// Hook receives every enabled log event before it is written. Returning true
// marks the event as handled and the sub logger output is skipped
type Hook func(e Event) (handled bool)

var hook Hook

// SetHook installs h as the process wide log hook, nil removes it
func SetHook(h Hook) {
	mu.Lock()
	hook = h
	mu.Unlock()
}

func levelName(header string) string {
	switch header {
	case logger.InfoHeader:
		return "INFO"
	case logger.WarnHeader:
		return "WARN"
	case logger.ErrorHeader:
		return "ERROR"
	case logger.DebugHeader:
		return "DEBUG"
	}
	return ""
}
