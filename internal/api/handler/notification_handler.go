package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/craftyourstyle/backend/internal/api/middleware"
	"github.com/craftyourstyle/backend/internal/domain"
	"github.com/craftyourstyle/backend/internal/service"
)

// NotificationHandler handles the notification CRUD endpoints.
type NotificationHandler struct {
	svc    *service.NotificationService
	logger *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// Create handles POST /notificaciones
//
// @Summary     Create a notification
// @Tags        notificaciones
// @Accept      json
// @Produce     json
// @Param       body  body      domain.CreateNotificationRequest  true  "Notification payload"
// @Success     201   {object}  domain.Notification
// @Failure     422   {object}  map[string]string
// @Router      /notificaciones [post]
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("create notification failed",
			zap.String("correlation_id", apimw.CorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, n)
}

// List handles GET /notificaciones
//
// @Summary  List all notifications
// @Tags     notificaciones
// @Produce  json
// @Success  200  {array}  domain.Notification
// @Router   /notificaciones [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}
