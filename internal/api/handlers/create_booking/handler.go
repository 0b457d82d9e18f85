package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	createBooking "github.com/m04kA/guide-sessions/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена"
	msgProductNotFound    = "продукт не найден"
	msgInvalidInput       = "некорректные данные бронирования"
	msgPaymentUnavailable = "платёжный сервис временно недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSessionNotFound):
			h.logger.Warn("POST /bookings - Session not found: session_id=%d", req.SessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, createBooking.ErrProductNotFound):
			h.logger.Warn("POST /bookings - Product not found: product_id=%d", req.ProductID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, createBooking.ErrPaymentUnavailable):
			h.logger.Error("POST /bookings - Payment service unavailable: session_id=%d, error=%v", req.SessionID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgPaymentUnavailable)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /bookings - Rejected: session_id=%d, product_id=%d, people=%d, error=%v",
				req.SessionID, req.ProductID, req.NumberOfPeople, err)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: session_id=%d, product_id=%d, error=%v",
				req.SessionID, req.ProductID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	if result.Outcome == createBooking.OutcomePaymentRequired {
		h.logger.Info("POST /bookings - Payment required: session_id=%d, handle=%s",
			req.SessionID, result.Payment.Handle)
		handlers.RespondJSON(w, http.StatusAccepted, response)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, session_id=%d",
		result.Booking.ID, req.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
