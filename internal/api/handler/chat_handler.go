package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/craftyourstyle/backend/internal/api/middleware"
	"github.com/craftyourstyle/backend/internal/domain"
	"github.com/craftyourstyle/backend/internal/service"
)

// ChatHandler handles the fashion agent's session and message endpoints.
type ChatHandler struct {
	svc    *service.ChatService
	logger *zap.Logger
}

func NewChatHandler(svc *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

type createSessionRequest struct {
	UserID string `json:"id_user"`
}

type sendMessageRequest struct {
	Message string `json:"mensaje"`
}

type chatResponse struct {
	SessionID string              `json:"sesion_id"`
	Message   *domain.ChatMessage `json:"mensaje"`
	Reply     *domain.ChatMessage `json:"respuesta"`
}

// CreateSession handles POST /chat/session
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "id_user is required")
		return
	}

	session, err := h.svc.CreateSession(r.Context(), req.UserID)
	if err != nil {
		h.logger.Warn("create session failed",
			zap.String("correlation_id", apimw.CorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /chat/session/{id}
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// ActiveSession handles GET /chat/session/user/{userID}
func (h *ChatHandler) ActiveSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.ActiveSession(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// CloseSession handles POST /chat/session/{id}/close
func (h *ChatHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "sesión cerrada exitosamente"})
}

// History handles GET /chat/session/{id}/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	messages, err := h.svc.History(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		mapError(w, err)
		return
	}
	if messages == nil {
		messages = []*domain.ChatMessage{}
	}
	respondJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /chat/session/{id}/message
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sessionID := chi.URLParam(r, "id")
	userMsg, agentMsg, err := h.svc.SendMessage(r.Context(), sessionID, req.Message)
	if err != nil {
		h.logger.Warn("send message failed",
			zap.String("correlation_id", apimw.CorrelationID(r.Context())),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		SessionID: sessionID,
		Message:   userMsg,
		Reply:     agentMsg,
	})
}
