package notify

import "time"

// Scheduler runs fn once after delay. The returned cancel func prevents a
// pending run; calling it after fn ran is harmless.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(delay time.Duration, fn func()) func()

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(delay time.Duration, fn func()) func() {
	return f(delay, fn)
}

// TimerScheduler schedules callbacks on time.AfterFunc goroutines.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}
