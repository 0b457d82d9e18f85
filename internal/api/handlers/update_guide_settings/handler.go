package update_guide_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	"github.com/m04kA/guide-sessions/internal/service/settings"
	"github.com/m04kA/guide-sessions/internal/service/settings/models"
)

const (
	msgInvalidGuideID     = "некорректный ID гида"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingGuideID     = "отсутствует ID гида"
	msgForbidden          = "доступ запрещен"
	msgGuideNotFound      = "гид не найден"
	msgInvalidSettings    = "некорректные настройки оплаты"
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

// Handle PUT /api/v1/guides/{guideId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, err := handlers.PathID(r, "guideId")
	if err != nil {
		h.logger.Warn("PUT /guides/{id}/settings - Invalid guide ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGuideID)
		return
	}

	callerID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}
	if callerID != guideID {
		h.logger.Warn("PUT /guides/{id}/settings - Access denied: guide_id=%d, caller=%d", guideID, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /guides/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.GuideID = guideID

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrGuideNotFound):
			handlers.RespondNotFound(w, msgGuideNotFound)
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("PUT /guides/{id}/settings - Invalid settings: guide_id=%d, error=%v", guideID, err)
		case errors.Is(err, settings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSettings)
		default:
			h.logger.Error("PUT /guides/{id}/settings - Failed to update settings: guide_id=%d, error=%v", guideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /guides/{id}/settings - Settings updated: guide_id=%d, mode=%s", guideID, result.PaymentMode)
	handlers.RespondJSON(w, http.StatusOK, result)
}
