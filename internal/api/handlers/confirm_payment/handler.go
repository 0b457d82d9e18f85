package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/domain"
	confirmPayment "github.com/m04kA/guide-sessions/internal/usecase/confirm_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgIntentNotFound     = "платёжное намерение не найдено или истекло"
	msgAlreadyProcessing  = "платёж уже обрабатывается"
	msgNotFulfillable     = "бронирование невозможно, требуется возврат платежа"
	msgNotVerified        = "платёжный сервис не подтверждает оплату"
	msgPaymentUnavailable = "платёжный сервис недоступен, повторите позже"
	msgInvalidInput       = "некорректные данные уведомления"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/callback
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/callback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrIntentNotFound):
			h.logger.Warn("POST /payments/callback - Intent not found: handle=%s", req.Handle)
			handlers.RespondNotFound(w, msgIntentNotFound)

		case errors.Is(err, confirmPayment.ErrAlreadyProcessing):
			h.logger.Warn("POST /payments/callback - Already processing: handle=%s", req.Handle)
			handlers.RespondConflict(w, msgAlreadyProcessing)

		case errors.Is(err, confirmPayment.ErrPaymentNotVerified):
			h.logger.Warn("POST /payments/callback - Payment not verified: handle=%s, error=%v", req.Handle, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgNotVerified)

		case errors.Is(err, confirmPayment.ErrPaymentUnavailable):
			h.logger.Error("POST /payments/callback - Payment service unavailable: handle=%s, error=%v", req.Handle, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgPaymentUnavailable)

		case errors.Is(err, confirmPayment.ErrNotFulfillable):
			h.logger.Error("POST /payments/callback - Not fulfillable: handle=%s, reference=%s, error=%v",
				req.Handle, req.PaymentReference, err)
			var details interface{}
			var capErr *domain.CapacityError
			if errors.As(err, &capErr) {
				details = handlers.NewCapacityDetails(capErr)
			}
			handlers.RespondErrorWithDetails(w, http.StatusConflict, handlers.CodeNotFulfillable, msgNotFulfillable, details)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/callback - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /payments/callback - Failed to confirm payment: handle=%s, error=%v", req.Handle, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/callback - Processed: handle=%s, outcome=%s", req.Handle, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
