package duplicate_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	duplicateSession "github.com/m04kA/guide-sessions/internal/usecase/duplicate_session"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingGuideID     = "отсутствует ID гида"
	msgSessionNotFound    = "сессия не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные параметры дублирования"
)

type Handler struct {
	useCase DuplicateSessionUseCase
	logger  Logger
}

func NewHandler(useCase DuplicateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/duplicate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/duplicate - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	guideID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions/{id}/duplicate - Missing guide ID")
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}

	var req DuplicateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/duplicate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(guideID, sessionID)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/duplicate - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, duplicateSession.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/duplicate - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, duplicateSession.ErrAccessDenied):
			h.logger.Warn("POST /sessions/{id}/duplicate - Access denied: session_id=%d, guide_id=%d", sessionID, guideID)
			handlers.RespondForbidden(w, msgForbidden)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /sessions/{id}/duplicate - Rejected: session_id=%d, mode=%s, error=%v", sessionID, req.Mode, err)

		case errors.Is(err, duplicateSession.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /sessions/{id}/duplicate - Failed to duplicate: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/duplicate - Session duplicated: session_id=%d, created=%d", sessionID, len(result.Created))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
