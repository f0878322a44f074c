package consumer

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/broker"
	"github.com/craftyourstyle/backend/internal/domain"
)

// Binding ties one queue to its routing key and message handler.
type Binding struct {
	Queue      string
	RoutingKey string
	Handler    Handler
}

// Consumer is the long-running loop for a single queue:
//
//	Disconnected → Connecting → TopologyReady → Consuming → (error) Disconnected
//
// Connection-level failures re-enter Disconnected and retry after a fixed
// delay, indefinitely. A topology conflict is fatal for this consumer only.
// Each consumer owns its connection and channel; nothing is shared across
// sibling consumers except the database pool behind the processor.
type Consumer struct {
	cfg     broker.Config
	binding Binding
	proc    *Processor
	logger  *zap.Logger

	reconnectDelay time.Duration
	onReconnect    func()

	// consume runs one connect/declare/consume cycle. Defaults to
	// consumeOnce; tests swap it to drive the reconnect loop without a
	// broker.
	consume func(ctx context.Context) error
}

// Run blocks forever, reconnecting on every connection loss. It returns only
// when ctx is cancelled or the topology is irreconcilably mismatched.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("consumer starting",
		zap.String("queue", c.binding.Queue),
		zap.String("routing_key", c.binding.RoutingKey),
	)

	if c.consume == nil {
		c.consume = c.consumeOnce
	}

	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, domain.ErrTopologyConflict) {
			// Retrying against an incompatible topology cannot succeed;
			// surface loudly and halt this consumer.
			c.logger.Error("topology conflict, consumer halted",
				zap.String("queue", c.binding.Queue),
				zap.Error(err),
			)
			return
		}

		c.logger.Warn("connection lost, reconnecting",
			zap.String("queue", c.binding.Queue),
			zap.Duration("delay", c.reconnectDelay),
			zap.Error(err),
		)
		c.onReconnect()

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

// consumeOnce runs one connect → declare → consume cycle and returns the
// error that broke it. Connection and channel are scoped to this call and
// closed on every exit path.
func (c *Consumer) consumeOnce(ctx context.Context) error {
	conn, err := broker.Connect(c.cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := broker.DeclareTopology(ch, broker.ExchangeName, c.binding.Queue, c.binding.RoutingKey); err != nil {
		return err
	}

	// Prefetch 1: at most one unacknowledged message in flight, so messages
	// are processed one at a time in delivery order.
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		c.binding.Queue,
		"",    // consumer tag (server-generated)
		false, // auto-ack off: acknowledgment is manual
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info("consuming", zap.String("queue", c.binding.Queue))

	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return domain.ErrConnectivity
			}
			c.proc.Process(ctx, d)
		case amqpErr := <-closed:
			if amqpErr == nil {
				return domain.ErrConnectivity
			}
			return amqpErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
