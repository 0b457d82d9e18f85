package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/domain"
	getCalendar "github.com/m04kA/guide-sessions/internal/usecase/get_calendar"
)

const (
	msgInvalidProductID = "некорректный ID продукта"
	msgInvalidFrom      = "некорректный параметр from, ожидается YYYY-MM-DD"
	msgInvalidDays      = "некорректный параметр days"
	msgProductNotFound  = "продукт не найден"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/products/{productId}/calendar?from=2026-07-01&days=60
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := handlers.PathID(r, "productId")
	if err != nil {
		h.logger.Warn("GET /products/{id}/calendar - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	req := &getCalendar.Request{ProductID: productID}

	query := r.URL.Query()
	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			h.logger.Warn("GET /products/{id}/calendar - Invalid from: %s", fromStr)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		req.From = &from
	}
	if daysStr := query.Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			h.logger.Warn("GET /products/{id}/calendar - Invalid days: %s", daysStr)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		req.Days = days
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrProductNotFound):
			h.logger.Warn("GET /products/{id}/calendar - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /products/{id}/calendar - Invalid request: product_id=%d, error=%v", productID, err)

		case errors.Is(err, getCalendar.ErrInvalidInput):
			h.logger.Warn("GET /products/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("GET /products/{id}/calendar - Failed to build calendar: product_id=%d, error=%v", productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /products/{id}/calendar - Calendar built: product_id=%d, days=%d", productID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
