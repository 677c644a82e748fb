package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPPublisher publishes events as persistent JSON messages to a durable
// queue through the default exchange. The connection is re-dialed on the
// next publish after a failure.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	now      func() time.Time
	backoff  time.Duration
	nextDial time.Time
}

const (
	dialTimeout    = 3 * time.Second
	minDialBackoff = time.Second
	maxDialBackoff = 30 * time.Second
)

// ErrBrokerUnavailable is returned while the publisher waits out its
// re-dial backoff.
var ErrBrokerUnavailable = errors.New("amqp broker unavailable")

func NewAMQPPublisher(url, queue string, log *zap.Logger) (*AMQPPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &AMQPPublisher{url: url, queue: queue, log: log, now: time.Now}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connectLocked() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := declareQueue(ch, p.queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.conn == nil || p.conn.IsClosed() {
		if err := p.reconnectLocked(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    e.OccurredAt,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// reconnectLocked dials at most once per backoff period, doubling the
// period after each failure.
func (p *AMQPPublisher) reconnectLocked() error {
	now := p.now()
	if now.Before(p.nextDial) {
		return ErrBrokerUnavailable
	}

	p.resetLocked()
	if err := p.connectLocked(); err != nil {
		if p.backoff < minDialBackoff {
			p.backoff = minDialBackoff
		} else if p.backoff < maxDialBackoff {
			p.backoff *= 2
		}
		p.nextDial = now.Add(p.backoff)
		p.log.Warn("amqp reconnect failed", zap.Duration("retry_in", p.backoff), zap.Error(err))
		return err
	}

	p.backoff, p.nextDial = 0, time.Time{}
	p.log.Info("amqp publisher reconnected", zap.String("queue", p.queue))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("amqp queue declare %s: %w", name, err)
	}
	return q, nil
}

// Handler processes one decoded event. A returned error rejects the delivery
// without requeueing it.
type Handler func(ctx context.Context, e Event) error

// Consume reads events from queue until ctx is cancelled, reconnecting with
// exponential backoff when the broker goes away.
func Consume(ctx context.Context, url, queue string, log *zap.Logger, handle Handler) error {
	backoff := time.Second
	for {
		err := consumeOnce(ctx, url, queue, log, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("event consumer disconnected", zap.Error(err), zap.Duration("retry_in", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeOnce(ctx context.Context, url, queue string, log *zap.Logger, handle Handler) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("amqp qos failed", zap.Error(err))
	}
	if _, err := declareQueue(ch, queue); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}
	log.Info("event consumer started", zap.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handleDelivery(ctx, d, log, handle)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, log *zap.Logger, handle Handler) {
	e, err := Decode(d.Body)
	if err == nil {
		err = handle(ctx, e)
	}
	if err != nil {
		log.Error("event handling failed", zap.String("message_id", d.MessageId), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func Decode(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return Event{}, errors.New("decode event: missing type")
	}
	return e, nil
}
