package rabbitmq

import (
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// PaymentExpirationMessage is delivered once the payment window of an order has passed.
type PaymentExpirationMessage struct {
	OrderNumber string    `json:"order_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewPublisher(host string, port int, user, password string) (*Publisher, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

func (p *Publisher) PublishPaymentExpiration(msg PaymentExpirationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		expirationExchange,
		expirationRoutingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
			Headers: amqp091.Table{
				"x-delay": delayMillis(msg.ExpiresAt, time.Now()),
			},
		},
	)
}

func delayMillis(expiresAt, now time.Time) int64 {
	delay := expiresAt.Sub(now).Milliseconds()
	if delay < 0 {
		return 0
	}
	return delay
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
