package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grupomacor/vigilancia/internal/models"
)

// DefaultTTL is how long a notification stays visible before it removes itself.
const DefaultTTL = 4 * time.Second

// Queue is the in-memory, self-expiring sequence of status messages shown to
// the operator. Insertion order is display order, and every notification
// carries its own removal timer regardless of later pushes. There is no cap
// on visible notifications; rapid pushes stack.
type Queue struct {
	mu       sync.Mutex
	ttl      time.Duration
	items    []models.Notification
	timers   map[string]*time.Timer
	closed   bool
	onChange func()
}

// NewQueue creates a queue with the standard 4 second lifetime
func NewQueue() *Queue {
	return NewQueueTTL(DefaultTTL)
}

// NewQueueTTL creates a queue with a custom lifetime. Used by tests.
func NewQueueTTL(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// SetOnChange installs a hook invoked after every visible-set change.
func (q *Queue) SetOnChange(fn func()) {
	q.mu.Lock()
	q.onChange = fn
	q.mu.Unlock()
}

// Push appends a notification and schedules its removal. Returns the id.
func (q *Queue) Push(message string, typ models.NotificationType) string {
	if typ == "" {
		typ = models.NotificationInfo
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ""
	}

	id := uuid.NewString()
	q.items = append(q.items, models.Notification{ID: id, Type: typ, Message: message})
	q.timers[id] = time.AfterFunc(q.ttl, func() {
		q.Dismiss(id)
	})
	q.mu.Unlock()

	q.notifyChange()
	return id
}

// Dismiss removes a notification early. Dismissing an unknown or already
// expired id is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	removed := false
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			removed = true
			break
		}
	}
	q.mu.Unlock()

	if removed {
		q.notifyChange()
	}
}

// All returns a snapshot of the visible notifications in insertion order.
func (q *Queue) All() []models.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Close stops every outstanding timer. No timer fires after Close returns.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
}

// notifyChange runs the change hook outside the queue lock
func (q *Queue) notifyChange() {
	q.mu.Lock()
	fn := q.onChange
	q.mu.Unlock()
	if fn != nil {
		fn()
	}
}
