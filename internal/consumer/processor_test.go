package consumer

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/repository"
)

// fakeAcknowledger records ack/nack decisions instead of talking to a broker.
type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(_ uint64, _ bool) error { f.acks++; return nil }
func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}
func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestProcessor_AckAfterPersist(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	proc := NewProcessor(repo, UserHandler, zap.NewNop(), nil, nil)
	ack := &fakeAcknowledger{}

	proc.Process(context.Background(), delivery(ack, `{"event":"usuario_registrado","user_id":"42","nombre":"Ana"}`))

	if ack.acks != 1 || ack.nacks != 0 {
		t.Fatalf("expected 1 ack and 0 nacks, got %d/%d", ack.acks, ack.nacks)
	}

	rows, _ := repo.List(context.Background())
	if len(rows) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(rows))
	}
	if rows[0].Message != "¡Bienvenido Ana! Tu cuenta ha sido creada exitosamente." {
		t.Fatalf("unexpected message: %q", rows[0].Message)
	}
}

func TestProcessor_MalformedPayloadNacksWithRequeue(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	proc := NewProcessor(repo, UserHandler, zap.NewNop(), nil, nil)
	ack := &fakeAcknowledger{}

	proc.Process(context.Background(), delivery(ack, `not json`))

	if ack.nacks != 1 || ack.acks != 0 {
		t.Fatalf("expected 1 nack and 0 acks, got %d/%d", ack.nacks, ack.acks)
	}
	if !ack.requeue {
		t.Fatal("expected nack with requeue=true")
	}

	rows, _ := repo.List(context.Background())
	if len(rows) != 0 {
		t.Fatalf("expected zero persisted rows, got %d", len(rows))
	}
}

func TestProcessor_PersistenceFailureNacksWithRequeue(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	repo.CreateErr = errors.New("database unavailable")
	proc := NewProcessor(repo, TransactionHandler, zap.NewNop(), nil, nil)
	ack := &fakeAcknowledger{}

	proc.Process(context.Background(), delivery(ack, `{"event":"pago","transaccion_id":"T1","user_id":"7"}`))

	if ack.nacks != 1 || ack.acks != 0 {
		t.Fatalf("expected 1 nack and 0 acks, got %d/%d", ack.nacks, ack.acks)
	}
	if !ack.requeue {
		t.Fatal("expected nack with requeue=true")
	}
}

// Redelivery after a crash between persist-commit and ack-send produces a
// duplicate row. At-least-once is the contract; deduplication is not.
func TestProcessor_RedeliveryDuplicatesRow(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	proc := NewProcessor(repo, TransactionHandler, zap.NewNop(), nil, nil)

	body := `{"event":"pago","transaccion_id":"T1","user_id":"7","monto":"19.99"}`
	proc.Process(context.Background(), delivery(&fakeAcknowledger{}, body))

	redelivered := delivery(&fakeAcknowledger{}, body)
	redelivered.Redelivered = true
	proc.Process(context.Background(), redelivered)

	rows, _ := repo.List(context.Background())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for the redelivered event, got %d", len(rows))
	}
	if rows[0].Message != rows[1].Message {
		t.Fatal("expected identical messages for both rows")
	}
}

func TestProcessor_MetricHooks(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	var acked, nacked int
	proc := NewProcessor(repo, UserHandler, zap.NewNop(),
		func() { acked++ },
		func() { nacked++ },
	)

	proc.Process(context.Background(), delivery(&fakeAcknowledger{}, `{"event":"usuario_login","email":"a@b.c"}`))
	proc.Process(context.Background(), delivery(&fakeAcknowledger{}, `broken`))

	if acked != 1 || nacked != 1 {
		t.Fatalf("expected hooks acked=1 nacked=1, got %d/%d", acked, nacked)
	}
}
