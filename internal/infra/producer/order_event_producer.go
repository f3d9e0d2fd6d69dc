package producer

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// IOrderEventProducer 訂單事件發佈, 失敗不影響已提交的交易
type IOrderEventProducer interface {
	PublishOrderPlaced(ctx context.Context, evt *event.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, evt *event.OrderStatusChangedEvent) error
	Close() error
}

type Config struct {
	Brokers       []string
	Topic         string
	RetryAttempts int
	BatchTimeout  time.Duration
	RequiredAcks  int
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 || c.Topic == "" {
		return ErrInvalidateParameter
	}
	if c.RetryAttempts < 0 {
		return ErrInvalidateParameter
	}
	return nil
}

// messageWriter kafka.Writer 需要的部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 以 order id 當 key, 同一張訂單的事件落在同一個 partition
type OrderEventProducer struct {
	writer messageWriter
	cfg    Config
	closed atomic.Bool
}

func NewOrderEventProducer(cfg Config) (*OrderEventProducer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    1,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		MaxAttempts:  cfg.RetryAttempts + 1,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Msgf("kafka producer error: "+msg, args...)
		}),
		Compression: kafka.Snappy,
	}

	return newOrderEventProducer(writer, cfg), nil
}

func newOrderEventProducer(writer messageWriter, cfg Config) *OrderEventProducer {
	return &OrderEventProducer{writer: writer, cfg: cfg}
}

func (p *OrderEventProducer) PublishOrderPlaced(ctx context.Context, evt *event.OrderPlacedEvent) error {
	return p.publish(ctx, evt.OrderID, evt)
}

func (p *OrderEventProducer) PublishOrderStatusChanged(ctx context.Context, evt *event.OrderStatusChangedEvent) error {
	return p.publish(ctx, evt.OrderID, evt)
}

func (p *OrderEventProducer) publish(ctx context.Context, orderID int, evt event.Event) error {
	if p.closed.Load() {
		return NewKafkaError("Produce", p.cfg.Topic, ErrProducerClosed)
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return NewKafkaError("Produce", p.cfg.Topic, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(orderID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type())},
			{Key: "event_id", Value: []byte(evt.GetID())},
		},
		Time: evt.GetCreatedAt(),
	}

	for attempt := 0; attempt <= p.cfg.RetryAttempts; attempt++ {
		if ctx.Err() != nil {
			return NewKafkaError("Produce", p.cfg.Topic, ctx.Err())
		}
		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}
		if !IsTemporary(err) {
			break
		}
	}
	return NewKafkaError("Produce", p.cfg.Topic, err)
}

func (p *OrderEventProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

// NoopOrderEventProducer 沒有設定 broker 時使用, 只記 log
type NoopOrderEventProducer struct{}

func (NoopOrderEventProducer) PublishOrderPlaced(_ context.Context, evt *event.OrderPlacedEvent) error {
	log.Debug().Int("order_id", evt.OrderID).Msg("order placed event dropped, kafka disabled")
	return nil
}

func (NoopOrderEventProducer) PublishOrderStatusChanged(_ context.Context, evt *event.OrderStatusChangedEvent) error {
	log.Debug().Int("order_id", evt.OrderID).Str("status", string(evt.ToStatus)).Msg("order status event dropped, kafka disabled")
	return nil
}

func (NoopOrderEventProducer) Close() error { return nil }

var (
	_ IOrderEventProducer = (*OrderEventProducer)(nil)
	_ IOrderEventProducer = NoopOrderEventProducer{}
)
