package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level  int
	prefix string
	inner  *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{level: level, inner: log.New(os.Stderr, "", log.LstdFlags)}
}

// WithPrefix returns a logger printing the prefix before every message, it
// shares the level with the parent.
func (l *defaultLogger) WithPrefix(prefix string) *defaultLogger {
	return &defaultLogger{level: l.level, prefix: l.prefix + prefix + " ", inner: l.inner}
}

// ParseLevel converts a level name (debug, info, warn, error, silence) to a
// level constant. Unknown names fallback to INFO.
func ParseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence", "none":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.print(DEBUG, "DEBUG", msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.print(INFO, "INFO", msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.print(WARNING, "WARN", msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.print(ERROR, "ERROR", msg, a...)
}

func (l *defaultLogger) print(level int, tag, msg string, a ...any) {
	if l.level <= level {
		l.inner.Printf("[%s] %s%s", tag, l.prefix, fmt.Sprintf(msg, a...))
	}
}
