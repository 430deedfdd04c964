// Package notify carries user-facing outcome signals (the toast channel of
// the mobile client) out of the core engines without binding them to a
// transport.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
)

// Notifier receives exactly one signal per user-visible outcome.
type Notifier interface {
	Notify(level Level, message string)
}

type logNotifier struct {
	log *logrus.Logger
}

// NewLog returns a Notifier that records signals on the service log.
func NewLog(log *logrus.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(level Level, message string) {
	entry := n.log.WithField("notify", string(level))
	switch level {
	case Error:
		entry.Warn(message)
	default:
		entry.Info(message)
	}
}

// Signal is a recorded notification.
type Signal struct {
	Level   Level
	Message string
}

// Recorder collects signals for assertions and for echoing back to clients.
type Recorder struct {
	mu      sync.Mutex
	signals []Signal
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, Signal{Level: level, Message: message})
}

func (r *Recorder) Signals() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Signal, len(r.signals))
	copy(out, r.signals)
	return out
}
