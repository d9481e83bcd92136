// Package notify delivers short, transient messages to the user, the
// terminal counterpart of toast notifications.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/patric-chuzhbe/linkdash/internal/logger"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}

	return "info"
}

type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Info(message string)
	Success(message string)
	Error(message string)
}

// Console writes one line per notification.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Info(message string)    { c.write("*", message) }
func (c *Console) Success(message string) { c.write("+", message) }
func (c *Console) Error(message string)   { c.write("!", message) }

func (c *Console) write(marker, message string) {
	if message == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "[%s] %s\n", marker, message)
}

// Log records notifications in the application log, so a session
// transcript survives the terminal scrollback.
type Log struct{}

func (Log) Info(message string)    { logger.Log.Infoln("notification", "level", LevelInfo, "message", message) }
func (Log) Success(message string) { logger.Log.Infoln("notification", "level", LevelSuccess, "message", message) }
func (Log) Error(message string)   { logger.Log.Warnln("notification", "level", LevelError, "message", message) }

// Recorder keeps notifications in memory, in delivery order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Info(message string)    { r.add(LevelInfo, message) }
func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(LevelError, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification and false when none was sent.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) == 0 {
		return Notification{}, false
	}

	return r.items[len(r.items)-1], true
}

// Fanout delivers every notification to each of its notifiers.
type Fanout []Notifier

func (f Fanout) Info(message string) {
	for _, n := range f {
		n.Info(message)
	}
}

func (f Fanout) Success(message string) {
	for _, n := range f {
		n.Success(message)
	}
}

func (f Fanout) Error(message string) {
	for _, n := range f {
		n.Error(message)
	}
}
