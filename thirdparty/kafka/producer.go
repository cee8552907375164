package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/threeofkind/storefront/utils/logger"
	"go.uber.org/zap"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent is published after an order state change has been committed.
type OrderEvent struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Reason      string          `json:"reason,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewOrderEvent(eventType, orderNumber, status string, total decimal.Decimal, reason string) OrderEvent {
	return OrderEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OrderNumber: orderNumber,
		Status:      status,
		TotalAmount: total,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	}
}

// Producer buffers lifecycle events and writes them from a single goroutine. Messages are keyed
// by order number so every event of one order lands on the same partition.
type Producer struct {
	w       messageWriter
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu      sync.RWMutex
	stopped bool
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the writer until ctx is cancelled. The context must outlive every caller that
// publishes; events published after it ends are logged and dropped.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.mu.Lock()
				p.stopped = true
				p.mu.Unlock()
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			_ = p.w.Close()
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		logger.Error("[KafkaProducer] write message", zap.String("key", string(m.Key)), zap.String("error", err.Error()))
	}
}

// PublishOrderEvent never blocks the caller; when the buffer is full the event is dropped and
// logged.
func (p *Producer) PublishOrderEvent(ev OrderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		logger.Error("[KafkaProducer] marshal event", zap.String("error", err.Error()))
		return
	}
	msg := kafka.Message{
		Key:   []byte(ev.OrderNumber),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(ev.EventType)},
		},
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		logger.Error("[KafkaProducer] producer stopped, dropping event",
			zap.String("event_type", ev.EventType), zap.String("order_id", ev.OrderNumber))
		return
	}
	select {
	case p.inbox <- msg:
	default:
		logger.Warn("[KafkaProducer] buffer full, dropping event",
			zap.String("event_type", ev.EventType), zap.String("order_id", ev.OrderNumber))
	}
}

// WaitClosed blocks until the writer goroutine has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
