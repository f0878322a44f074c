package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/api/handler"
	apimw "github.com/craftyourstyle/backend/internal/api/middleware"
	"github.com/craftyourstyle/backend/internal/service"
)

// NewNotificationsRouter wires the notification service's HTTP surface:
// the CRUD boundary plus health and metrics.
func NewNotificationsRouter(
	svc *service.NotificationService,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := newBaseRouter("notificaciones", reg, logger)

	nh := handler.NewNotificationHandler(svc, logger)
	r.Post("/notificaciones", nh.Create)
	r.Get("/notificaciones", nh.List)

	return r
}

// NewAgentRouter wires the fashion agent's chat endpoints.
func NewAgentRouter(
	svc *service.ChatService,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := newBaseRouter("agente", reg, logger)

	ch := handler.NewChatHandler(svc, logger)
	r.Route("/chat", func(r chi.Router) {
		r.Post("/session", ch.CreateSession)
		// /session/user must be registered before /session/{id} so chi does
		// not treat the literal string "user" as an ID.
		r.Get("/session/user/{userID}", ch.ActiveSession)
		r.Get("/session/{id}", ch.GetSession)
		r.Post("/session/{id}/close", ch.CloseSession)
		r.Get("/session/{id}/history", ch.History)
		r.Post("/session/{id}/message", ch.SendMessage)
	})

	return r
}

// newBaseRouter attaches the middleware and system endpoints shared by both
// services.
func newBaseRouter(serviceName string, reg prometheus.Gatherer, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.WithCorrelationID)  // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(serviceName, logger))

	hh := handler.NewHealthHandler()
	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}
