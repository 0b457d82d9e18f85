package get_guide_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	"github.com/m04kA/guide-sessions/internal/service/settings"
)

const (
	msgInvalidGuideID = "некорректный ID гида"
	msgMissingGuideID = "отсутствует ID гида"
	msgForbidden      = "доступ запрещен"
	msgGuideNotFound  = "гид не найден"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/guides/{guideId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, err := handlers.PathID(r, "guideId")
	if err != nil {
		h.logger.Warn("GET /guides/{id}/settings - Invalid guide ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGuideID)
		return
	}

	callerID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}
	if callerID != guideID {
		h.logger.Warn("GET /guides/{id}/settings - Access denied: guide_id=%d, caller=%d", guideID, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.Get(r.Context(), guideID)
	if err != nil {
		if errors.Is(err, settings.ErrGuideNotFound) {
			handlers.RespondNotFound(w, msgGuideNotFound)
			return
		}
		h.logger.Error("GET /guides/{id}/settings - Failed to get settings: guide_id=%d, error=%v", guideID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
