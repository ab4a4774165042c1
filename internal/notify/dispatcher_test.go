package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu       sync.Mutex
	failures int
	sent     []Notification
	attempts int
}

func (r *recordingNotifier) Send(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.failures > 0 {
		r.failures--
		return errors.New("smtp down")
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) snapshot() (int, []Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts, append([]Notification(nil), r.sent...)
}

func newTestDispatcher(n Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier:   n,
		queue:      make(chan Notification, 4),
		maxRetries: 3,
		backoff:    time.Millisecond,
		done:       make(chan struct{}),
	}
	go d.run()
	return d
}

func TestDispatcherDelivers(t *testing.T) {
	rec := &recordingNotifier{}
	d := newTestDispatcher(rec)

	d.Enqueue(OTPEmail("a@example.com", "123456", "Asha"))
	d.Close()

	_, sent := rec.snapshot()
	assert.Len(t, sent, 1)
	assert.Equal(t, KindOTP, sent[0].Kind)
	assert.Equal(t, "a@example.com", sent[0].To)
}

func TestDispatcherRetriesThenSucceeds(t *testing.T) {
	rec := &recordingNotifier{failures: 2}
	d := newTestDispatcher(rec)

	d.Enqueue(InterestEmail("b@example.com", "Bina", "Arun"))
	d.Close()

	attempts, sent := rec.snapshot()
	assert.Equal(t, 3, attempts)
	assert.Len(t, sent, 1)
}

func TestDispatcherDropsAfterMaxRetries(t *testing.T) {
	rec := &recordingNotifier{failures: 10}
	d := newTestDispatcher(rec)

	d.Enqueue(InterestAcceptedEmail("c@example.com", "Bina", "Arun"))
	d.Close()

	attempts, sent := rec.snapshot()
	assert.Equal(t, 3, attempts)
	assert.Empty(t, sent)
}

func TestEnqueueNeverBlocksWhenFull(t *testing.T) {
	rec := &recordingNotifier{}
	// No worker: fill the queue and keep enqueueing.
	d := &Dispatcher{notifier: rec, queue: make(chan Notification, 1), maxRetries: 1, done: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Enqueue(Notification{Kind: KindOTP, To: "x@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
