package find_alternatives

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	findAlternatives "github.com/m04kA/guide-sessions/internal/usecase/find_alternatives"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgMissingGuideID   = "отсутствует ID гида"
	msgSessionNotFound  = "сессия не найдена"
	msgForbidden        = "доступ запрещен"
	msgInvalidInput     = "некорректный запрос"
)

type Handler struct {
	useCase FindAlternativesUseCase
	logger  Logger
}

func NewHandler(useCase FindAlternativesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/alternatives
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/alternatives - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	guideID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		h.logger.Warn("GET /sessions/{id}/alternatives - Missing guide ID")
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &findAlternatives.Request{GuideID: guideID, SessionID: sessionID})
	if err != nil {
		switch {
		case errors.Is(err, findAlternatives.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id}/alternatives - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)
		case errors.Is(err, findAlternatives.ErrAccessDenied):
			h.logger.Warn("GET /sessions/{id}/alternatives - Access denied: session_id=%d, guide_id=%d", sessionID, guideID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, findAlternatives.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("GET /sessions/{id}/alternatives - Failed to find alternatives: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sessions/{id}/alternatives - Found %d alternatives: session_id=%d", len(result.Alternatives), sessionID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
