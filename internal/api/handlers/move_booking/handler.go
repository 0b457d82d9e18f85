package move_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	moveBooking "github.com/m04kA/guide-sessions/internal/usecase/move_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingGuideID     = "отсутствует ID гида"
	msgBookingNotFound    = "бронирование не найдено"
	msgTargetNotFound     = "целевая сессия не найдена"
	msgForbidden          = "доступ запрещен"
	msgDifferentGuide     = "целевая сессия принадлежит другому гиду"
	msgBookingCancelled   = "отменённое бронирование нельзя перенести"
	msgSameSession        = "бронирование уже находится в этой сессии"
	msgInvalidInput       = "некорректные данные переноса"
)

type Handler struct {
	useCase MoveBookingUseCase
	logger  Logger
}

func NewHandler(useCase MoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	guideID, ok := middleware.GetGuideID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/move - Missing guide ID")
		handlers.RespondUnauthorized(w, msgMissingGuideID)
		return
	}

	var req MoveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &moveBooking.Request{
		GuideID:         guideID,
		BookingID:       bookingID,
		TargetSessionID: req.TargetSessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, moveBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, moveBooking.ErrTargetNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Target not found: session_id=%d", req.TargetSessionID)
			handlers.RespondNotFound(w, msgTargetNotFound)

		case errors.Is(err, moveBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/move - Access denied: booking_id=%d, guide_id=%d", bookingID, guideID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, moveBooking.ErrDifferentGuide):
			h.logger.Warn("PATCH /bookings/{id}/move - Target of another guide: session_id=%d", req.TargetSessionID)
			handlers.RespondForbidden(w, msgDifferentGuide)

		case errors.Is(err, moveBooking.ErrBookingCancelled):
			handlers.RespondConflict(w, msgBookingCancelled)

		case errors.Is(err, moveBooking.ErrSameSession):
			handlers.RespondBadRequest(w, msgSameSession)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("PATCH /bookings/{id}/move - Rejected: booking_id=%d, target=%d, error=%v",
				bookingID, req.TargetSessionID, err)

		case errors.Is(err, moveBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/move - Failed to move booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/move - Booking moved: booking_id=%d, from=%d, to=%d",
		bookingID, result.FromSessionID, result.ToSessionID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
