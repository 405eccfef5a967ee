package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/middleware"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// ConsumerUserID is recorded as the author of ledger changes made from sale events.
const ConsumerUserID = "system:sales-consumer"

// Outcome tells the consume loop what to do with a delivery.
type Outcome int

const (
	// Ack removes the message. Mirror failures are acked too: they are logged, not retried.
	Ack Outcome = iota
	// Reject drops a malformed message without requeueing it.
	Reject
)

// Consumer turns sale lifecycle events into Sale Mirror calls.
type Consumer struct {
	url          string
	exchangeName string
	queueName    string
	mirror       portssvc.SaleMirrorSvc
	validate     *validator.Validate
	logger       *slog.Logger
	maxReconnect time.Duration
}

func NewConsumer(url, exchangeName, queueName string, mirror portssvc.SaleMirrorSvc, logger *slog.Logger) *Consumer {
	return &Consumer{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		mirror:       mirror,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "sale_consumer"), slog.String("queue", queueName)),
		maxReconnect: 30 * time.Second,
	}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff
// whenever the broker connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = c.maxReconnect
	policy.MaxElapsedTime = 0 // Keep trying until shutdown

	err := backoff.RetryNotify(func() error {
		err := c.consume(ctx, policy)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		c.logger.Warn("Sale consumer disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", wait))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *Consumer) consume(ctx context.Context, policy *backoff.ExponentialBackOff) error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	if err := c.setup(channel); err != nil {
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.Info("Started consuming sale events")
	policy.Reset()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping sale event consumption", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			switch c.Handle(ctx, delivery.MessageId, delivery.Body) {
			case Reject:
				if err := delivery.Nack(false, false); err != nil {
					c.logger.Error("Failed to reject message", slog.String("error", err.Error()))
				}
			default:
				if err := delivery.Ack(false); err != nil {
					c.logger.Error("Failed to ack message", slog.String("error", err.Error()))
				}
			}
		}
	}
}

func (c *Consumer) setup(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name, as for any direct exchange binding here.
	if err := channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Handle processes one message body and decides its fate.
func (c *Consumer) Handle(ctx context.Context, messageID string, body []byte) Outcome {
	if messageID == "" {
		messageID = uuid.NewString()
	}
	logger := c.logger.With(slog.String("message_id", messageID))
	ctx = middleware.WithLogger(ctx, logger)

	msg, err := SaleEventMessageFromJSON(body)
	if err != nil {
		logger.Error("Failed to unmarshal sale event", slog.String("error", err.Error()))
		return Reject
	}
	if err := c.validate.Struct(msg); err != nil {
		logger.Error("Invalid sale event", slog.String("error", err.Error()))
		return Reject
	}

	logger = logger.With(
		slog.String("event", msg.Event),
		slog.String("sale_id", msg.Sale.ID),
		slog.String("company_id", msg.CompanyID))
	ctx = middleware.WithLogger(ctx, logger)
	logger.Info("Processing sale event")

	switch msg.Event {
	case EventSaleCreated:
		_, err = c.mirror.CreateTransactionFromSale(ctx, msg.ToSale(), ConsumerUserID)
	case EventSaleUpdated:
		_, err = c.mirror.UpdateTransactionFromSale(ctx, msg.ToSale(), ConsumerUserID)
	case EventSaleDeleted:
		err = c.mirror.DeleteTransactionFromSale(ctx, msg.Sale.ID, msg.CompanyID, ConsumerUserID)
	}
	if err != nil {
		// The mirror already logged the failure; the sale stands regardless.
		logger.Warn("Sale event processed without ledger mirror", slog.String("error", err.Error()))
		return Ack
	}

	logger.Info("Successfully processed sale event")
	return Ack
}
