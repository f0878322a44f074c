package consumer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/craftyourstyle/backend/internal/domain"
)

// Handler turns a raw event payload into a notification record.
// One handler exists per event category (queue).
//
// Every broker-sourced notification is recorded with the email category.
// That is a deliberate simplification inherited from the platform contract,
// regardless of which queue the event arrived on.
type Handler func(body []byte) (*domain.Notification, error)

// unknownField is substituted for any referenced field missing from a payload.
const unknownField = "desconocido"

// TransactionHandler processes transaccion.completada events.
//
// Example: {"event":"pago","transaccion_id":"T1","user_id":"7","monto":"19.99"}
// produces "Transacción pago: ID T1, Usuario 7, Monto: $19.99".
func TransactionHandler(body []byte) (*domain.Notification, error) {
	fields, event, err := decodeEvent(body)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Transacción %s: ID %s, Usuario %s",
		event,
		fieldOrUnknown(fields, "transaccion_id"),
		fieldOrUnknown(fields, "user_id"),
	)
	if monto := fieldString(fields, "monto"); monto != "" {
		msg += ", Monto: $" + monto
	}
	if tipo := fieldString(fields, "tipo"); tipo != "" {
		msg += ", Tipo: " + tipo
	}

	return domain.NewNotification(domain.CategoryEmail, msg), nil
}

// UserHandler processes usuario.evento events. The event subtype selects the
// message template; unrecognised subtypes fall back to a generic line.
func UserHandler(body []byte) (*domain.Notification, error) {
	fields, event, err := decodeEvent(body)
	if err != nil {
		return nil, err
	}

	var msg string
	switch event {
	case "usuario_registrado":
		msg = fmt.Sprintf("¡Bienvenido %s! Tu cuenta ha sido creada exitosamente.",
			fieldOrUnknown(fields, "nombre"))
	case "usuario_login":
		msg = fmt.Sprintf("Inicio de sesión detectado para el usuario %s.",
			fieldOrUnknown(fields, "email"))
	case "usuario_actualizado":
		campo := fieldString(fields, "campo_actualizado")
		if campo == "" {
			campo = "perfil"
		}
		msg = fmt.Sprintf("Tu %s ha sido actualizado correctamente.", campo)
	case "usuario_eliminado":
		msg = fmt.Sprintf("La cuenta del usuario %s ha sido eliminada.",
			fieldOrUnknown(fields, "user_id"))
	default:
		msg = fmt.Sprintf("Evento de usuario: %s, ID: %s",
			event, fieldOrUnknown(fields, "user_id"))
	}

	return domain.NewNotification(domain.CategoryEmail, msg), nil
}

// decodeEvent unmarshals the payload and extracts the "event" discriminator.
// The broker enforces no schema, so every other field is optional.
func decodeEvent(body []byte) (map[string]any, string, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	event := fieldString(fields, "event")
	if event == "" {
		return nil, "", fmt.Errorf("%w: missing event discriminator", domain.ErrMalformedPayload)
	}
	return fields, event, nil
}

// fieldString renders a payload field as a string, or "" when absent.
// Producers are inconsistent about numeric vs string encoding (Java publishes
// user_id as a number, TypeScript as a string), so both are accepted.
func fieldString(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func fieldOrUnknown(fields map[string]any, key string) string {
	if s := fieldString(fields, key); s != "" {
		return s
	}
	return unknownField
}
