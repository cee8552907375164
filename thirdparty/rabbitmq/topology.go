package rabbitmq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	expirationExchange   = "payment_expiration_exchange"
	expirationQueue      = "payment_expiration_queue"
	expirationRoutingKey = "payment_expiration"
)

// dial opens a channel and declares the delayed exchange, the queue and their binding.
// The exchange needs the rabbitmq_delayed_message_exchange plugin.
func dial(host string, port int, user, password string) (*amqp091.Connection, *amqp091.Channel, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	fail := func(err error) (*amqp091.Connection, *amqp091.Channel, error) {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}

	if err := channel.ExchangeDeclare(
		expirationExchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp091.Table{"x-delayed-type": "direct"},
	); err != nil {
		return fail(err)
	}

	if _, err := channel.QueueDeclare(expirationQueue, true, false, false, false, nil); err != nil {
		return fail(err)
	}

	if err := channel.QueueBind(expirationQueue, expirationRoutingKey, expirationExchange, false, nil); err != nil {
		return fail(err)
	}

	return conn, channel, nil
}
