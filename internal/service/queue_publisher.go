// Package queue_publisher publishes booking events to RabbitMQ. Failures are
// logged and returned. The server puts an Async in front of the Publisher so
// booking requests never wait on the broker.
package queue_publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/adora-ads/adora-api/internal/queue"
)

// ErrNacked is returned when the broker refuses a message.
var ErrNacked = errors.New("rabbitmq: publish not acknowledged")

// DefaultDialTimeout bounds the TCP connect and AMQP handshake.
const DefaultDialTimeout = 2 * time.Second

// Publisher keeps one connection and one confirming channel to the broker at
// URL. Both are opened on first use and reopened after they close.
type Publisher struct {
	URL         string
	DialTimeout time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New returns a Publisher for the given AMQP URL. No connection is made
// until the first publish.
func New(url string) *Publisher { return &Publisher{URL: url, DialTimeout: DefaultDialTimeout} }

// Message builds the persistent JSON publishing for event.
func Message(event q.BookingEvent, at time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.Type + ":" + event.BookingID,
		Timestamp:    at.UTC(),
		Type:         event.Type,
		Body:         body,
	}, nil
}

// channel returns an open confirming channel, dialing when needed. The
// caller holds p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		timeout := p.DialTimeout
		if timeout <= 0 {
			timeout = DefaultDialTimeout
		}
		conn, err := amqp.DialConfig(p.URL, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(timeout),
		})
		if err != nil {
			return nil, fmt.Errorf("dial: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("confirm mode: %w", err)
	}
	// durable so queued events survive a broker restart
	if _, err := ch.QueueDeclare(q.BookingEventsQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.ch = ch
	return ch, nil
}

// PublishBookingEvent publishes event to the booking.events queue and waits
// for the broker's confirm or ctx, whichever comes first.
func (p *Publisher) PublishBookingEvent(ctx context.Context, event q.BookingEvent) error {
	msg, err := Message(event, time.Now())
	if err != nil {
		log.Printf("rabbitmq: marshal %s: %v", event.Type, err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		log.Printf("rabbitmq: %v", err)
		return err
	}
	conf, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", q.BookingEventsQueue, false, false, msg)
	if err != nil {
		log.Printf("rabbitmq: publish %s: %v", event.Type, err)
		return err
	}
	ok, err := conf.WaitContext(ctx)
	if err != nil {
		log.Printf("rabbitmq: confirm %s: %v", event.Type, err)
		return err
	}
	if !ok {
		log.Printf("rabbitmq: %s for booking %s nacked", event.Type, event.BookingID)
		return ErrNacked
	}
	return nil
}

// Close releases the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	return err
}

// ErrQueueFull is returned by Async when its buffer is full. The event is
// dropped.
var ErrQueueFull = errors.New("rabbitmq: publish queue full")

// ErrClosed is returned by Async after Close.
var ErrClosed = errors.New("rabbitmq: publisher closed")

// Sink is anything that publishes a booking event synchronously.
type Sink interface {
	PublishBookingEvent(ctx context.Context, event q.BookingEvent) error
}

// Async hands events to a single background worker through a buffered
// channel. PublishBookingEvent never blocks; each event gets its own
// Timeout in the worker, independent of the request that produced it.
type Async struct {
	next    Sink
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan q.BookingEvent
	done   chan struct{}
}

// NewAsync starts the worker. buffer is the number of events that may wait
// for the broker before new ones are dropped.
func NewAsync(next Sink, buffer int, timeout time.Duration) *Async {
	if buffer < 1 {
		buffer = 1
	}
	a := &Async{
		next:    next,
		timeout: timeout,
		events:  make(chan q.BookingEvent, buffer),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for ev := range a.events {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		_ = a.next.PublishBookingEvent(ctx, ev)
		cancel()
	}
}

// PublishBookingEvent queues event and returns at once. ctx is not used: the
// event outlives the request.
func (a *Async) PublishBookingEvent(_ context.Context, event q.BookingEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.events <- event:
		return nil
	default:
		log.Printf("rabbitmq: queue full, dropping %s for booking %s", event.Type, event.BookingID)
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones were handed
// to the Sink.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.events)
	}
	a.mu.Unlock()
	<-a.done
}
