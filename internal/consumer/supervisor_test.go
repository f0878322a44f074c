package consumer

import (
	"testing"

	"github.com/craftyourstyle/backend/internal/broker"
)

// The queue and routing key names are a wire contract with the producer
// services; this pins them against accidental renames.
func TestDefaultBindings_WireContract(t *testing.T) {
	bindings := DefaultBindings()
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}

	expected := map[string]string{
		"notificaciones.transaccion.queue": "transaccion.completada",
		"notificaciones.usuario.queue":     "usuario.evento",
	}
	for _, b := range bindings {
		key, ok := expected[b.Queue]
		if !ok {
			t.Fatalf("unexpected queue %q", b.Queue)
		}
		if b.RoutingKey != key {
			t.Fatalf("queue %q: expected routing key %q, got %q", b.Queue, key, b.RoutingKey)
		}
		if b.Handler == nil {
			t.Fatalf("queue %q: missing handler", b.Queue)
		}
	}

	if broker.ExchangeName != "craftyourstyle.events" {
		t.Fatalf("unexpected exchange name %q", broker.ExchangeName)
	}
}
