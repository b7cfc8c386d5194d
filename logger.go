package blogfront

import (
	"os"

	"github.com/labstack/gommon/log"
)

// Logger is the subset of echo.Logger used outside request handlers.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NewLogger returns the gommon logger Echo uses, prefixed for this app.
// Level is one of debug, info, warn, error; anything else means info.
func NewLogger(level string) *log.Logger {
	l := log.New("blogfront")
	l.SetOutput(os.Stderr)
	l.SetHeader(`${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`)
	switch level {
	case "debug":
		l.SetLevel(log.DEBUG)
	case "warn":
		l.SetLevel(log.WARN)
	case "error":
		l.SetLevel(log.ERROR)
	default:
		l.SetLevel(log.INFO)
	}
	return l
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}
