package activity

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues events in memory and writes them from one goroutine.
// When the queue is full new events are dropped.
type KafkaPublisher struct {
	w       MessageWriter
	inbox   chan kafka.Message
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	log     *zap.Logger
	timeout time.Duration
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string, buf int, log *zap.Logger) *KafkaPublisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}, buf, log)
}

func NewPublisherWithWriter(w MessageWriter, buf int, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	if buf <= 0 {
		buf = 256
	}
	return &KafkaPublisher{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Start runs the write loop until Close is called. The loop is not tied to a
// request or signal context so events published during shutdown still reach
// the writer.
func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.stop:
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *KafkaPublisher) Publish(_ context.Context, ev Event) {
	value, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("activity event encode failed", zap.String("event_type", ev.EventType), zap.Error(err))
		return
	}
	key := ev.DocumentID
	if key == "" {
		key = ev.ActorUID
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
		},
	}

	select {
	case <-p.stop:
		p.log.Warn("activity publisher closed, dropping event", zap.String("event_type", ev.EventType))
	case p.inbox <- msg:
	default:
		p.log.Warn("activity queue full, dropping event", zap.String("event_type", ev.EventType))
	}
}

// Close flushes queued events and closes the writer. Safe to call twice.
func (p *KafkaPublisher) Close() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}

func (p *KafkaPublisher) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.log.Warn("activity event write failed", zap.ByteString("key", m.Key), zap.Error(err))
	}
}

func (p *KafkaPublisher) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			if err := p.w.Close(); err != nil {
				p.log.Warn("activity writer close failed", zap.Error(err))
			}
			return
		}
	}
}
