package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	evt_model "github.com/RoyceAzure/lab/ecomhub/internal/domain/model/event"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/producer/balancer"
	"github.com/segmentio/kafka-go"
)

// IOrderEventProducer 訂單/金流領域事件發布
type IOrderEventProducer interface {
	ProduceEvent(ctx context.Context, orderID uint, evt evt_model.Event) error
	Close() error
}

type OrderEventProducer struct {
	writer *kafka.Writer
	closed atomic.Bool
}

// NewOrderEventProducer 創建訂單事件producer
// 以order id分區，同一訂單的事件保序
func NewOrderEventProducer(brokers []string, topic string, numPartitions int) *OrderEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     balancer.NewOrderBalancer(numPartitions),
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		MaxAttempts:  3,

		// 重連機制設置
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
	}

	return &OrderEventProducer{writer: writer}
}

func (p *OrderEventProducer) ProduceEvent(ctx context.Context, orderID uint, evt evt_model.Event) error {
	if p.closed.Load() {
		return fmt.Errorf("producer is closed")
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.Type(), err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", orderID)),
		Value: value,
	})
}

func (p *OrderEventProducer) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		return p.writer.Close()
	}
	return nil
}

var _ IOrderEventProducer = (*OrderEventProducer)(nil)
