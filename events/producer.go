package events

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer publishes order lifecycle events through a buffered inbox so HTTP
// handlers never block on the broker.
type Producer struct {
	w       *kafka.Writer
	service string
	inbox   chan kafka.Message
	closeCh chan struct{}
}

// NewProducer returns a nil producer when no brokers are configured; every
// method on a nil Producer is a no-op, so event publishing stays optional.
func NewProducer(brokers []string, service string, buf int) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrders,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		service: service,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the publish loop until ctx is cancelled, then flushes whatever
// is still queued and closes the writer.
func (p *Producer) Start(ctx context.Context) {
	if p == nil {
		return
	}
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				for {
					select {
					case m := <-p.inbox:
						_ = p.w.WriteMessages(context.Background(), m)
					default:
						_ = p.w.Close()
						return
					}
				}
			case m := <-p.inbox:
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					log.Printf("kafka publish: %v", err)
				}
			}
		}
	}()
}

// Emit wraps the payload in a versioned envelope and queues it. Drops the
// event when the inbox is full rather than stalling the request.
func (p *Producer) Emit(eventType, orderNumber string, payload any) {
	if p == nil {
		return
	}
	m := kafka.Message{
		Key: PartitionKey(orderNumber),
		Value: MustMarshal(Envelope{
			EventID:      uuid.NewString(),
			EventType:    eventType,
			EventVersion: 1,
			OccurredAt:   time.Now().UTC(),
			Producer:     p.service,
			Payload:      MustMarshal(payload),
		}),
		Time: time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}
	select {
	case p.inbox <- m:
	default:
		log.Printf("kafka inbox full, dropping %s for order %s", eventType, orderNumber)
	}
}

// WaitClosed blocks until the publish loop has flushed and exited.
func (p *Producer) WaitClosed() {
	if p == nil {
		return
	}
	<-p.closeCh
}
