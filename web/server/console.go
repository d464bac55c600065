package server

import (
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger logs through the server logger and also forwards Info, Warning
// and Error messages to a browser console
type WebLogger struct {
	log.Logger
	send func(ConsoleMessage)
}

// NewWebLogger creates a logger that forwards messages to send
func NewWebLogger(send func(ConsoleMessage)) *WebLogger {
	return &WebLogger{Logger: logger, send: send}
}

// Infof logs and forwards an info message
func (wl *WebLogger) Infof(format string, args ...interface{}) {
	wl.Logger.Infof(format, args...)
	wl.forward("info", format, args...)
}

// Warningf logs and forwards a warning
func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	wl.Logger.Warningf(format, args...)
	wl.forward("warning", format, args...)
}

// Errorf logs and forwards an error
func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.Logger.Errorf(format, args...)
	wl.forward("error", format, args...)
}

func (wl *WebLogger) forward(level, format string, args ...interface{}) {
	if wl.send == nil {
		return
	}
	wl.send(ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	})
}
