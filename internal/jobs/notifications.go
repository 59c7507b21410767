// Package jobs runs background work that must stay off the request path.
// The only job kind today is notification email delivery: handlers enqueue,
// a single worker goroutine delivers, and failures are logged and swallowed
// so they can never affect the mutation that triggered them.
package jobs

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/convene-events/server/internal/metrics"
)

// Notification kinds
const (
	KindWelcome           = "welcome"
	KindEventRegistration = "event_registration"
)

// Notification is a unit of work for the dispatcher.
type Notification struct {
	Kind      string
	Email     string
	Name      string
	EventName string
}

// Mailer delivers a single notification synchronously.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendEventRegistration(ctx context.Context, to, name, eventName string) error
}

// Dispatcher queues notifications and delivers them on a worker goroutine.
// Enqueueing never blocks: when the queue is full the notification is dropped
// and counted, which is acceptable for best-effort delivery.
type Dispatcher struct {
	queue  chan Notification
	mailer Mailer
	logger zerolog.Logger
}

func NewDispatcher(mailer Mailer, queueSize int, logger zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &Dispatcher{
		queue:  make(chan Notification, queueSize),
		mailer: mailer,
		logger: logger.With().Str("component", "notifications").Logger(),
	}
}

// Welcome enqueues an account creation notification.
func (d *Dispatcher) Welcome(email, name string) {
	d.enqueue(Notification{Kind: KindWelcome, Email: email, Name: name})
}

// EventRegistration enqueues a registration confirmation.
func (d *Dispatcher) EventRegistration(email, name, eventName string) {
	d.enqueue(Notification{Kind: KindEventRegistration, Email: email, Name: name, EventName: eventName})
}

func (d *Dispatcher) enqueue(n Notification) {
	select {
	case d.queue <- n:
	default:
		metrics.NotificationsDropped.Inc()
		d.logger.Warn().Str("kind", n.Kind).Str("to", n.Email).Msg("notification queue full, dropping")
	}
}

// Run delivers queued notifications until ctx is cancelled, then drains
// whatever is already queued before returning. It is intended to run under an
// errgroup alongside the HTTP server.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		case <-ctx.Done():
			for {
				select {
				case n := <-d.queue:
					d.deliver(n)
				default:
					return nil
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(n Notification) {
	// Delivery deliberately has no timeout or cancellation tied to the
	// originating request; the send owns its own lifetime.
	ctx := context.Background()

	var err error
	switch n.Kind {
	case KindWelcome:
		err = d.mailer.SendWelcome(ctx, n.Email, n.Name)
	case KindEventRegistration:
		err = d.mailer.SendEventRegistration(ctx, n.Email, n.Name, n.EventName)
	default:
		d.logger.Error().Str("kind", n.Kind).Msg("unknown notification kind")
		return
	}

	if err != nil {
		metrics.EmailsFailed.WithLabelValues(n.Kind).Inc()
		d.logger.Error().Err(err).Str("kind", n.Kind).Str("to", n.Email).Msg("notification delivery failed")
		return
	}
	metrics.EmailsSent.WithLabelValues(n.Kind).Inc()
}
