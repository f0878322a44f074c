package consumer

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/repository"
)

// Processor decides, per delivery, whether to ack or nack-with-requeue.
//
// A message is acked only after its notification row is durably persisted.
// Every failure path (malformed payload, persistence error) nacks with
// requeue so the broker redelivers; a message is never dropped silently.
// This gives at-least-once semantics: a crash between persist-commit and
// ack-send yields a duplicate row on redelivery, which is accepted.
type Processor struct {
	repo    repository.NotificationRepository
	handler Handler
	logger  *zap.Logger

	// Metric hooks injected by the supervisor. Never nil.
	onAck  func()
	onNack func()
}

// NewProcessor constructs a processor. onAck and onNack are optional (nil = no-op).
func NewProcessor(
	repo repository.NotificationRepository,
	handler Handler,
	logger *zap.Logger,
	onAck, onNack func(),
) *Processor {
	if onAck == nil {
		onAck = func() {}
	}
	if onNack == nil {
		onNack = func() {}
	}
	return &Processor{repo: repo, handler: handler, logger: logger, onAck: onAck, onNack: onNack}
}

// Process handles one delivery end to end. Per-message failures are absorbed
// here and converted into a nack; they never propagate to the consumer loop.
func (p *Processor) Process(ctx context.Context, d amqp.Delivery) {
	n, err := p.handler(d.Body)
	if err != nil {
		p.logger.Error("event handling failed, requeueing",
			zap.Error(err),
			zap.ByteString("body", d.Body),
			zap.Bool("redelivered", d.Redelivered),
		)
		p.nack(d)
		return
	}

	if err := p.repo.Create(ctx, n); err != nil {
		p.logger.Error("persist notification failed, requeueing",
			zap.Error(err),
			zap.String("notification_id", n.ID),
		)
		p.nack(d)
		return
	}

	if err := d.Ack(false); err != nil {
		// The row is committed but the ack was lost: the broker will
		// redeliver and a duplicate row will be written. Accepted.
		p.logger.Warn("ack failed after persist", zap.Error(err), zap.String("notification_id", n.ID))
		return
	}

	p.onAck()
	p.logger.Info("event persisted",
		zap.String("notification_id", n.ID),
		zap.String("mensaje", n.Message),
	)
}

func (p *Processor) nack(d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		p.logger.Warn("nack failed", zap.Error(err))
	}
	p.onNack()
}
