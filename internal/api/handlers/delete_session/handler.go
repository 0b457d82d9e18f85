package delete_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	deleteSession "github.com/m04kA/guide-sessions/internal/usecase/delete_session"
)

const (
	msgInvalidSessionID    = "некорректный ID сессии"
	msgInvalidTargetID     = "некорректный ID целевой сессии"
	msgMissingGuideID      = "отсутствует ID гида"
	msgSessionNotFound     = "сессия не найдена"
	msgTargetNotFound      = "целевая сессия не найдена"
	msgForbidden           = "доступ запрещен"
	msgDifferentGuide      = "целевая сессия принадлежит другому гиду"
	msgDispositionRequired = "у сессии есть бронирования, укажите disposition"
	msgDeletionAborted     = "не все бронирования помещаются в целевую сессию, удаление отменено"
	msgInvalidInput        = "некорректные параметры удаления"
)

type Handler struct {
	useCase DeleteSessionUseCase
	logger  Logger
}

func NewHandler(useCase DeleteSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/sessions/{sessionId}?disposition=move_to&targetSessionId=20
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("DELETE /sessions/{id} - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	guideID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /sessions/{id} - Missing guide ID")
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}

	req := &deleteSession.Request{
		GuideID:     guideID,
		SessionID:   sessionID,
		Disposition: deleteSession.Disposition(r.URL.Query().Get("disposition")),
	}

	if raw := r.URL.Query().Get("targetSessionId"); raw != "" {
		targetID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("DELETE /sessions/{id} - Invalid target session ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTargetID)
			return
		}
		req.TargetSessionID = &targetID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		var aborted *deleteSession.AbortedError
		switch {
		case errors.As(err, &aborted):
			h.logger.Warn("DELETE /sessions/{id} - Deletion aborted: session_id=%d, failures=%d", sessionID, len(aborted.Failures))
			handlers.RespondErrorWithDetails(w, http.StatusConflict, handlers.CodeDeletionAborted, msgDeletionAborted,
				FromAbortedError(aborted))

		case errors.Is(err, deleteSession.ErrDispositionRequired):
			handlers.RespondErrorWithDetails(w, http.StatusConflict, handlers.CodeDispositionRequired, msgDispositionRequired, nil)

		case errors.Is(err, deleteSession.ErrSessionNotFound):
			h.logger.Warn("DELETE /sessions/{id} - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, deleteSession.ErrTargetNotFound):
			handlers.RespondNotFound(w, msgTargetNotFound)

		case errors.Is(err, deleteSession.ErrAccessDenied):
			h.logger.Warn("DELETE /sessions/{id} - Access denied: session_id=%d, guide_id=%d", sessionID, guideID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, deleteSession.ErrDifferentGuide):
			handlers.RespondForbidden(w, msgDifferentGuide)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("DELETE /sessions/{id} - Rejected: session_id=%d, error=%v", sessionID, err)

		case errors.Is(err, deleteSession.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("DELETE /sessions/{id} - Failed to delete session: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /sessions/{id} - Session deleted: session_id=%d, disposition=%s, cancelled=%d, moved=%d",
		sessionID, result.Disposition, result.CancelledBookings, len(result.MovedBookingIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
