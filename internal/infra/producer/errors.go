package producer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrProducerClosed      = errors.New("producer is closed")
	ErrInvalidateParameter = errors.New("invalidate parameter")
)

// KafkaError 代表 Kafka 操作錯誤
type KafkaError struct {
	Operation string
	Topic     string
	Err       error
}

func (e *KafkaError) Error() string {
	return fmt.Sprintf("kafka operation %s on topic %s failed: %v", e.Operation, e.Topic, e.Err)
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func NewKafkaError(operation, topic string, err error) error {
	return &KafkaError{
		Operation: operation,
		Topic:     topic,
		Err:       err,
	}
}

// IsTemporary 判斷是否值得重試
func IsTemporary(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
