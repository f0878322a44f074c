package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/broker"
	"github.com/craftyourstyle/backend/internal/metrics"
	"github.com/craftyourstyle/backend/internal/repository"
)

// Supervisor starts one Consumer per queue binding at process startup.
// It owns no shared mutable state: each consumer gets its own connection and
// the only shared resource is the repository's connection pool.
type Supervisor struct {
	cfg            broker.Config
	repo           repository.NotificationRepository
	logger         *zap.Logger
	metrics        *metrics.Metrics
	reconnectDelay time.Duration
}

func NewSupervisor(
	cfg broker.Config,
	repo repository.NotificationRepository,
	m *metrics.Metrics,
	reconnectDelay time.Duration,
	logger *zap.Logger,
) *Supervisor {
	return &Supervisor{
		cfg:            cfg,
		repo:           repo,
		metrics:        m,
		reconnectDelay: reconnectDelay,
		logger:         logger,
	}
}

// DefaultBindings returns the two queue bindings this service consumes.
func DefaultBindings() []Binding {
	return []Binding{
		{
			Queue:      broker.TransactionQueue,
			RoutingKey: broker.TransactionRoutingKey,
			Handler:    TransactionHandler,
		},
		{
			Queue:      broker.UserQueue,
			RoutingKey: broker.UserRoutingKey,
			Handler:    UserHandler,
		},
	}
}

// StartAll launches one consumer goroutine per binding and returns
// immediately; it does not wait for any consumer to reach the consuming
// state. The goroutines live for the process lifetime; shutdown abandons
// them and relies on broker-side redelivery of unacknowledged messages.
func (s *Supervisor) StartAll(ctx context.Context, bindings []Binding) {
	for _, b := range bindings {
		onAck, onNack, onReconnect := s.hooks(b.Queue)
		logger := s.logger.With(zap.String("queue", b.Queue))

		c := &Consumer{
			cfg:            s.cfg,
			binding:        b,
			proc:           NewProcessor(s.repo, b.Handler, logger, onAck, onNack),
			logger:         logger,
			reconnectDelay: s.reconnectDelay,
			onReconnect:    onReconnect,
		}
		go c.Run(ctx)
	}

	s.logger.Info("broker consumers started", zap.Int("count", len(bindings)))
}

func (s *Supervisor) hooks(queue string) (onAck, onNack, onReconnect func()) {
	if s.metrics == nil {
		noop := func() {}
		return noop, noop, noop
	}
	return s.metrics.ConsumerHooks(queue)
}
