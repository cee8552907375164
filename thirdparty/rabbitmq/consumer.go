package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/threeofkind/storefront/utils/logger"
	"go.uber.org/zap"
)

// Consumer turns delayed expiry messages into calls to the API's internal expire endpoint, so
// the expiry goes through the same guarded transition as every other cancellation.
type Consumer struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewConsumer(host string, port int, user, password, apiURL, apiKey string) (*Consumer, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:       conn,
		channel:    channel,
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		expirationQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer) handle(ctx context.Context, msg amqp091.Delivery) {
	var expMsg PaymentExpirationMessage
	if err := json.Unmarshal(msg.Body, &expMsg); err != nil {
		logger.Error("[Consumer] unmarshal expiration message", zap.String("error", err.Error()))
		_ = msg.Ack(false)
		return
	}

	if err := c.callExpireOrderAPI(ctx, expMsg.OrderNumber); err != nil {
		logger.Error("[Consumer] expire order", zap.String("order_id", expMsg.OrderNumber), zap.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
	logger.Info("[Consumer] expiry processed", zap.String("order_id", expMsg.OrderNumber))
}

func (c *Consumer) callExpireOrderAPI(ctx context.Context, orderNumber string) error {
	endpoint := fmt.Sprintf("%s/internal/v1/orders/%s/expire", c.apiURL, url.PathEscape(orderNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Service", "payment-expiration-consumer")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	// 4xx means the order is gone or no longer pending; retrying would not change that.
	if resp.StatusCode < 200 || resp.StatusCode >= 500 {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
