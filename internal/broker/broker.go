// Package broker owns everything that talks AMQP: connection setup and the
// idempotent declaration of the CraftYourStyle exchange/queue topology.
package broker

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/craftyourstyle/backend/internal/domain"
)

// Topology names shared with the producer services. Compatibility-critical:
// the user and transaction services publish against these exact values.
const (
	ExchangeName = "craftyourstyle.events"

	TransactionQueue      = "notificaciones.transaccion.queue"
	TransactionRoutingKey = "transaccion.completada"

	UserQueue      = "notificaciones.usuario.queue"
	UserRoutingKey = "usuario.evento"
)

// Config holds the broker connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string

	Heartbeat   time.Duration
	DialTimeout time.Duration
}

// URL renders the AMQP connection string.
func (c Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

// Connect opens a connection to the broker. The caller owns the connection
// and must close it on every exit path.
func Connect(cfg Config) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(cfg.URL(), amqp.Config{
		Heartbeat: cfg.Heartbeat,
		Dial:      amqp.DefaultDial(cfg.DialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s:%d: %v", domain.ErrConnectivity, cfg.Host, cfg.Port, err)
	}
	return conn, nil
}

// DeclareTopology declares the durable topic exchange, the durable queue, and
// the binding between them. Safe to call on every (re)connect: declaring an
// existing entity with identical parameters is a no-op, while a parameter
// mismatch surfaces as ErrTopologyConflict.
func DeclareTopology(ch *amqp.Channel, exchange, queue, routingKey string) error {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return declareErr("declare exchange "+exchange, err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return declareErr("declare queue "+queue, err)
	}

	if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return declareErr("bind "+queue+" to "+exchange, err)
	}

	return nil
}

// declareErr maps an AMQP 406 PRECONDITION_FAILED (existing entity with
// incompatible parameters) to the fatal ErrTopologyConflict sentinel.
// Any other failure is treated as transient connectivity.
func declareErr(op string, err error) error {
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) && amqpErr.Code == amqp.PreconditionFailed {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTopologyConflict, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrConnectivity, err)
}
