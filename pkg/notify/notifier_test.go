package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-reaform/pkg/notify"
)

type pendingCall struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

type stubScheduler struct {
	mu    sync.Mutex
	calls []*pendingCall
}

func (s *stubScheduler) Schedule(delay time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := &pendingCall{delay: delay, fn: fn}
	s.calls = append(s.calls, call)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		call.cancelled = true
	}
}

// fire runs the i-th scheduled callback regardless of cancellation, the way
// a timer that already started firing would.
func (s *stubScheduler) fire(i int) {
	s.mu.Lock()
	fn := s.calls[i].fn
	s.mu.Unlock()
	fn()
}

func (s *stubScheduler) call(i int) pendingCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.calls[i]
}

func TestShowSchedulesDismissal(t *testing.T) {
	sched := &stubScheduler{}
	n := notify.New(notify.WithScheduler(sched))

	n.Success("✓ guardado")
	got, ok := n.Current()
	if !ok {
		t.Fatalf("expected a visible notification")
	}
	if diff := cmp.Diff(notify.Notification{Message: "✓ guardado", Kind: notify.KindSuccess}, got); diff != "" {
		t.Fatalf("notification mismatch (-want +got):\n%s", diff)
	}
	if delay := sched.call(0).delay; delay != notify.DefaultDelay {
		t.Fatalf("expected %s delay, got %s", notify.DefaultDelay, delay)
	}

	sched.fire(0)
	if _, ok := n.Current(); ok {
		t.Fatalf("notification should clear when the timer fires")
	}
}

func TestShowReplacesAndCancelsPreviousTimer(t *testing.T) {
	sched := &stubScheduler{}
	n := notify.New(notify.WithScheduler(sched))

	n.Error("primero")
	n.Success("segundo")

	if !sched.call(0).cancelled {
		t.Fatalf("first timer should be cancelled")
	}
	sched.fire(0)
	got, ok := n.Current()
	if !ok || got.Message != "segundo" {
		t.Fatalf("stale timer cleared the newer notification: %+v %v", got, ok)
	}

	sched.fire(1)
	if _, ok := n.Current(); ok {
		t.Fatalf("second timer should clear the notification")
	}
}

func TestDismissCancelsTimer(t *testing.T) {
	sched := &stubScheduler{}
	n := notify.New(notify.WithScheduler(sched))

	n.Success("hola")
	n.Dismiss()
	if _, ok := n.Current(); ok {
		t.Fatalf("dismiss should clear the notification")
	}
	if !sched.call(0).cancelled {
		t.Fatalf("dismiss should cancel the timer")
	}

	n.Success("otra")
	sched.fire(0)
	if _, ok := n.Current(); !ok {
		t.Fatalf("timer from a dismissed notification cleared a new one")
	}
}

func TestShowEmptyMessageDismisses(t *testing.T) {
	sched := &stubScheduler{}
	n := notify.New(notify.WithScheduler(sched))

	n.Success("hola")
	n.Show("  ", notify.KindError)
	if _, ok := n.Current(); ok {
		t.Fatalf("empty message should dismiss")
	}
	if len(sched.calls) != 1 {
		t.Fatalf("empty message must not schedule a timer")
	}
}

func TestWithDelayAndObserver(t *testing.T) {
	sched := &stubScheduler{}
	var seen []string
	n := notify.New(
		notify.WithScheduler(sched),
		notify.WithDelay(time.Second),
		notify.WithObserver(func(current notify.Notification, ok bool) {
			if ok {
				seen = append(seen, current.Message)
				return
			}
			seen = append(seen, "<none>")
		}),
	)

	n.Success("uno")
	sched.fire(0)
	n.Dismiss()

	if sched.call(0).delay != time.Second {
		t.Fatalf("custom delay not applied")
	}
	if diff := cmp.Diff([]string{"uno", "<none>"}, seen); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}
}

func TestTimerSchedulerClearsNotification(t *testing.T) {
	n := notify.New(notify.WithDelay(10 * time.Millisecond))
	n.Success("rápido")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := n.Current(); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("notification was not cleared by the timer")
}

func TestTimerSchedulerCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	cancel := notify.TimerScheduler{}.Schedule(20*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatalf("cancelled callback ran")
	case <-time.After(60 * time.Millisecond):
	}
}
