package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"isucari/pkg/events"
)

const (
	defaultPrefetchCount  = 10
	defaultWorkerPoolSize = 1
	defaultProcessTimeout = 30 * time.Second
)

var ErrDeliveriesClosed = errors.New("message channel closed")

// EventHandler processes one decoded event. A returned error dead-letters the
// message.
type EventHandler func(ctx context.Context, event *events.Event) error

type ConsumerConfig struct {
	Exchange       string   // e.g. "isucari.item"
	QueueName      string   // e.g. "isucari.item.all.v1"
	RoutingKeys    []string // e.g. ["item.*.v1"]
	ServiceName    string
	PrefetchCount  int
	WorkerPoolSize int // messages handled concurrently
	ProcessTimeout time.Duration
}

type Consumer struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	queueName      string
	serviceName    string
	workers        int
	processTimeout time.Duration
}

// NewConsumer declares the exchange, the queue and its dead letter pair, then
// binds both queues to every routing key.
func NewConsumer(url string, cfg ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		closeAll(nil, conn)
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel, cfg); err != nil {
		closeAll(channel, conn)
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", cfg.QueueName),
		zap.String("exchange", cfg.Exchange),
		zap.Strings("routingKeys", cfg.RoutingKeys),
	)

	c := newConsumer(cfg)
	c.conn = conn
	c.channel = channel
	return c, nil
}

func newConsumer(cfg ConsumerConfig) *Consumer {
	c := &Consumer{
		queueName:      cfg.QueueName,
		serviceName:    cfg.ServiceName,
		workers:        cfg.WorkerPoolSize,
		processTimeout: cfg.ProcessTimeout,
	}
	if c.workers <= 0 {
		c.workers = defaultWorkerPoolSize
	}
	if c.processTimeout <= 0 {
		c.processTimeout = defaultProcessTimeout
	}
	return c
}

func declareTopology(ch *amqp.Channel, cfg ConsumerConfig) error {
	prefetch := cfg.PrefetchCount
	if prefetch == 0 {
		prefetch = defaultPrefetchCount
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopicExchange(ch, cfg.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	dlx := cfg.Exchange + ".dlx"
	if err := declareTopicExchange(ch, dlx); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	queue, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlx,
	})
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	dlq, err := ch.QueueDeclare(cfg.QueueName+".dlq", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, key := range cfg.RoutingKeys {
		if err := ch.QueueBind(dlq.Name, key, dlx, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := ch.QueueBind(queue.Name, key, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}
	return nil
}

// Consume blocks until ctx is done or the broker closes the delivery channel.
// In-flight messages are finished before it returns.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages",
		zap.String("queue", c.queueName),
		zap.Int("workers", c.workers))

	return c.dispatch(ctx, msgs, handler)
}

func (c *Consumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery, handler EventHandler) error {
	var pool errgroup.Group
	pool.SetLimit(c.workers)

	for {
		select {
		case <-ctx.Done():
			_ = pool.Wait()
			zap.L().Info("Consumer context cancelled, stopping...")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				_ = pool.Wait()
				zap.L().Warn("Message channel closed")
				return ErrDeliveriesClosed
			}
			pool.Go(func() error {
				c.handleMessage(ctx, msg, handler)
				return nil
			})
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers[headerTraceID].(string)
	source, _ := msg.Headers[headerService].(string)
	log := zap.L().With(
		zap.String("queue", c.queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("sourceService", source),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error("Failed to unmarshal event", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	// Shutdown must not abort a message already taken off the queue; only
	// the per-message timeout bounds it.
	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.processTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		log.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Error("Failed to acknowledge message", zap.Error(err))
		return
	}
	log.Debug("Successfully processed event", zap.String("event", event.Event))
}

func (c *Consumer) Close() error {
	closeAll(c.channel, c.conn)
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
