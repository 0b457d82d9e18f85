package get_session_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	"github.com/m04kA/guide-sessions/internal/service/bookings"
	"github.com/m04kA/guide-sessions/internal/service/bookings/models"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgMissingGuideID   = "отсутствует ID гида"
	msgSessionNotFound  = "сессия не найдена"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/bookings?includeCancelled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/bookings - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	guideID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		h.logger.Warn("GET /sessions/{id}/bookings - Missing guide ID")
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}

	req := &models.ListBySessionRequest{
		GuideID:          guideID,
		SessionID:        sessionID,
		IncludeCancelled: r.URL.Query().Get("includeCancelled") == "true",
	}

	result, err := h.service.ListBySession(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id}/bookings - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /sessions/{id}/bookings - Access denied: session_id=%d, guide_id=%d", sessionID, guideID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /sessions/{id}/bookings - Failed to list bookings: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sessions/{id}/bookings - Bookings retrieved: session_id=%d, count=%d",
		sessionID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
