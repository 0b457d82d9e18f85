package get_session_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	getAvailability "github.com/m04kA/guide-sessions/internal/usecase/get_session_availability"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgSessionNotFound  = "сессия не найдена"
)

type Handler struct {
	useCase GetSessionAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetSessionAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/availability - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{SessionID: sessionID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id}/availability - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSessionID)

		default:
			h.logger.Error("GET /sessions/{id}/availability - Failed to resolve availability: session_id=%d, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
