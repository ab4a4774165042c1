package notify

import (
	"log"
	"sync"
	"time"
)

// Dispatcher is the outbound notification queue. Handlers enqueue and
// return immediately; one worker drains the channel and delivers with a
// few retries, then drops with a log line. A full queue also drops rather
// than block a request.
type Dispatcher struct {
	notifier   Notifier
	queue      chan Notification
	maxRetries int
	backoff    time.Duration

	stop sync.Once
	done chan struct{}
}

// NewDispatcher creates a dispatcher and starts its worker.
func NewDispatcher(notifier Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier:   notifier,
		queue:      make(chan Notification, 256),
		maxRetries: 3,
		backoff:    2 * time.Second,
		done:       make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue hands a notification to the worker. Never blocks.
func (d *Dispatcher) Enqueue(n Notification) {
	select {
	case d.queue <- n:
	default:
		log.Printf("notify: queue full, dropping %s to %s", n.Kind, n.To)
	}
}

// Close stops the worker after the queue drains.
func (d *Dispatcher) Close() {
	d.stop.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n Notification) {
	var err error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		if err = d.notifier.Send(n); err == nil {
			return
		}
		if attempt < d.maxRetries {
			time.Sleep(d.backoff * time.Duration(attempt))
		}
	}
	log.Printf("notify: dropping %s to %s after %d attempts: %v", n.Kind, n.To, d.maxRetries, err)
}
