package events

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/config"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

// ErrPublishNotConfirmed is returned when the broker nacks a message
var ErrPublishNotConfirmed = errors.New("message was not confirmed by the broker")

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
	Close() error
}

// RabbitMQPublisher publishes one message per outcome to a topic exchange.
// It implements domain.ResultSink.
type RabbitMQPublisher struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
}

// NewRabbitMQPublisher connects to RabbitMQ, declares the exchange and puts the
// channel into confirm mode.
func NewRabbitMQPublisher(cfg config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange (topic exchange for routing)
	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	return &RabbitMQPublisher{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
	}, nil
}

// Name identifies the sink in logs.
func (p *RabbitMQPublisher) Name() string {
	return "rabbitmq"
}

// Export publishes every outcome of the run as a persistent JSON message and
// waits for the broker to confirm each one.
func (p *RabbitMQPublisher) Export(ctx context.Context, result *domain.BatchResult) error {
	bodies, err := marshalEvents(result)
	if err != nil {
		return err
	}

	confirms := make([]*amqp.DeferredConfirmation, 0, len(bodies))
	for i, body := range bodies {
		dc, err := p.channel.PublishWithDeferredConfirmWithContext(ctx,
			p.exchange,   // exchange
			p.routingKey, // routing key
			false,        // mandatory
			false,        // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    NewTransactionProcessedEvent(result, i).EventID,
				Type:         EventTypeTransactionProcessed,
				Timestamp:    result.FinishedAt,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to publish event for transaction %s: %w", result.Events[i].TransactionID, err)
		}
		if dc != nil {
			confirms = append(confirms, dc)
		}
	}

	for _, dc := range confirms {
		acked, err := dc.WaitContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to wait for publish confirmation: %w", err)
		}
		if !acked {
			return fmt.Errorf("delivery tag %d: %w", dc.DeliveryTag, ErrPublishNotConfirmed)
		}
	}

	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
