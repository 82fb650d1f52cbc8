// Package notify carries transient, user-visible messages ("toasts") from the
// sync layer to whatever front end is attached. Publishing never blocks.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/study-upc/studyclient/internal/logging"
)

type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Message is one notification.
type Message struct {
	Level Level
	Text  string
	At    time.Time
}

// Notifier surfaces transient messages. Implementations must not block the
// caller.
type Notifier interface {
	Success(text string)
	Error(text string)
	Info(text string)
}

// Queue is a buffered Notifier. When the buffer is full new messages are
// dropped and counted rather than blocking the publisher.
type Queue struct {
	ch chan Message

	mu      sync.Mutex
	dropped int
	closed  bool
	now     func() time.Time
}

const DefaultQueueSize = 64

func NewQueue(size int) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Message, size), now: time.Now}
}

func (q *Queue) Success(text string) { q.publish(LevelSuccess, text) }
func (q *Queue) Error(text string)   { q.publish(LevelError, text) }
func (q *Queue) Info(text string)    { q.publish(LevelInfo, text) }

func (q *Queue) publish(level Level, text string) {
	if text == "" {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	select {
	case q.ch <- Message{Level: level, Text: text, At: q.now()}:
	default:
		q.dropped++
	}
}

// C returns the channel messages are delivered on. It is closed by Close.
func (q *Queue) C() <-chan Message {
	return q.ch
}

// Dropped reports how many messages were discarded because nobody was reading.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Drain returns every buffered message without waiting.
func (q *Queue) Drain() []Message {
	var out []Message
	for {
		select {
		case m, ok := <-q.ch:
			if !ok {
				return out
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// LogNotifier writes notifications to a logger. Useful for headless runs.
type LogNotifier struct {
	Logger logging.Logger
}

func (n LogNotifier) Success(text string) {
	n.Logger.Info(context.Background(), text, "notification", LevelSuccess.String())
}

func (n LogNotifier) Error(text string) {
	n.Logger.Warn(context.Background(), text, "notification", LevelError.String())
}

func (n LogNotifier) Info(text string) {
	n.Logger.Info(context.Background(), text, "notification", LevelInfo.String())
}

// Discard drops every message.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Info(string)    {}

// Multi fans a message out to several notifiers.
type Multi []Notifier

func (m Multi) Success(text string) {
	for _, n := range m {
		n.Success(text)
	}
}

func (m Multi) Error(text string) {
	for _, n := range m {
		n.Error(text)
	}
}

func (m Multi) Info(text string) {
	for _, n := range m {
		n.Info(text)
	}
}
