package domain

import "errors"

// Sentinel errors used throughout the application.
// HTTP handlers translate these to status codes via a single mapError function;
// the consumer translates them into ack/nack decisions.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCategory = errors.New("invalid category: must be mensaje_texto, correo_electronico, or push")
	ErrEmptyMessage    = errors.New("mensaje must not be empty")

	// Broker consumer taxonomy.
	ErrConnectivity     = errors.New("broker unreachable")
	ErrTopologyConflict = errors.New("broker topology conflict")
	ErrMalformedPayload = errors.New("malformed event payload")

	// Chat agent.
	ErrSessionClosed    = errors.New("chat session is already closed")
	ErrNoActiveSession  = errors.New("user has no active session")
	ErrEmptyChatMessage = errors.New("message text must not be empty")
)
