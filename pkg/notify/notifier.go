package notify

import (
	"strings"
	"sync"
	"time"
)

// DefaultDelay is how long a notification stays visible.
const DefaultDelay = 5 * time.Second

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is the message currently shown to the user.
type Notification struct {
	Message string
	Kind    Kind
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithScheduler swaps the delayed-callback collaborator.
func WithScheduler(s Scheduler) Option {
	return func(n *Notifier) {
		if s != nil {
			n.scheduler = s
		}
	}
}

// WithDelay overrides the auto-dismiss delay. Non-positive values are
// ignored.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.delay = d
		}
	}
}

// WithObserver registers fn to be called, outside the lock, whenever the
// current notification changes. An absent notification is reported with ok
// false.
func WithObserver(fn func(current Notification, ok bool)) Option {
	return func(n *Notifier) {
		n.observer = fn
	}
}

// Notifier holds at most one notification. It is safe for concurrent use.
type Notifier struct {
	mu         sync.Mutex
	current    Notification
	visible    bool
	generation uint64
	cancel     func()

	scheduler Scheduler
	delay     time.Duration
	observer  func(Notification, bool)
}

// New constructs a Notifier backed by TimerScheduler unless overridden.
func New(options ...Option) *Notifier {
	n := &Notifier{
		scheduler: TimerScheduler{},
		delay:     DefaultDelay,
	}
	for _, opt := range options {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Show replaces the current notification and restarts the auto-dismiss
// timer. An empty message behaves like Dismiss.
func (n *Notifier) Show(message string, kind Kind) {
	if strings.TrimSpace(message) == "" {
		n.Dismiss()
		return
	}

	n.mu.Lock()
	n.stopLocked()
	n.generation++
	gen := n.generation
	n.current = Notification{Message: message, Kind: kind}
	n.visible = true
	n.cancel = n.scheduler.Schedule(n.delay, func() { n.expire(gen) })
	current := n.current
	n.mu.Unlock()

	n.notify(current, true)
}

// Success shows a success notification.
func (n *Notifier) Success(message string) {
	n.Show(message, KindSuccess)
}

// Error shows an error notification.
func (n *Notifier) Error(message string) {
	n.Show(message, KindError)
}

// Dismiss clears the notification and cancels its timer.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	wasVisible := n.visible
	n.stopLocked()
	n.generation++
	n.current = Notification{}
	n.visible = false
	n.mu.Unlock()

	if wasVisible {
		n.notify(Notification{}, false)
	}
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// Delay reports the configured auto-dismiss delay.
func (n *Notifier) Delay() time.Duration {
	return n.delay
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || !n.visible {
		n.mu.Unlock()
		return
	}
	n.cancel = nil
	n.current = Notification{}
	n.visible = false
	n.mu.Unlock()

	n.notify(Notification{}, false)
}

func (n *Notifier) stopLocked() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

func (n *Notifier) notify(current Notification, ok bool) {
	if n.observer != nil {
		n.observer(current, ok)
	}
}
