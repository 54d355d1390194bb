// Package notify carries one-shot user notifications from the flows to the UI.
package notify

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Level is the notification severity shown by the UI
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is shown once and then discarded
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is the sink the flows report outcomes to
type Notifier interface {
	Notify(level Level, title, message string)
}

// DefaultCapacity bounds a Queue created with a non-positive capacity
const DefaultCapacity = 50

// Queue buffers notifications until the UI drains them. When full the oldest
// notification is dropped.
type Queue struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	now      func() time.Time
}

var _ Notifier = (*Queue)(nil)

// NewQueue holds up to capacity notifications
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		items:    make([]Notification, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Notify logs the notification and queues it for the UI
func (q *Queue) Notify(level Level, title, message string) {
	n := Notification{Level: level, Title: title, Message: message, At: q.now()}

	entry := log.WithFields(log.Fields{
		"level_ui": string(level),
		"title":    title,
		"message":  message,
	})
	if level == LevelError {
		entry.Warn("User notification")
	} else {
		entry.Info("User notification")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == q.capacity {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, n)
}

// Drain returns pending notifications oldest first and empties the queue
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	return out
}

// Len is the number of pending notifications
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Discard drops every notification; used where no UI is attached
type Discard struct{}

// Notify drops the notification
func (Discard) Notify(Level, string, string) {}
