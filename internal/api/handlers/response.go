package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// Коды ошибок в теле ответа
const (
	CodeInvalidInput         = "invalid_input"
	CodeUnauthorized         = "unauthorized"
	CodeForbidden            = "forbidden"
	CodeNotFound             = "not_found"
	CodeConflict             = "conflict"
	CodeInsufficientCapacity = "insufficient_capacity"
	CodeSessionClosed        = "session_closed"
	CodeVoucherExhausted     = "voucher_exhausted"
	CodeVoucherExpired       = "voucher_expired"
	CodeEmptyDateSet         = "empty_date_set"
	CodeNotFulfillable       = "not_fulfillable"
	CodePaymentNotVerified   = "payment_not_verified"
	CodeDeletionAborted      = "deletion_aborted"
	CodeDispositionRequired  = "disposition_required"
	CodeUnavailable          = "service_unavailable"
	CodeInternal             = "internal_error"
)

const (
	msgInternalError   = "внутренняя ошибка сервера"
	msgValidation      = "некорректные входные данные"
	msgNoCapacity      = "недостаточно свободных мест"
	msgSessionClosed   = "сессия закрыта для бронирования"
	msgVoucherUsedUp   = "промокод больше недействителен"
	msgVoucherExpired  = "срок действия промокода истёк"
	msgEmptyDateSet    = "не получено ни одной даты для дублирования"
	msgInvalidIDFormat = "некорректный идентификатор"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// CapacityDetails подробности конфликта вместимости
type CapacityDetails struct {
	SessionID int64  `json:"sessionId"`
	ProductID int64  `json:"productId"`
	Date      string `json:"date"`
	Requested int    `json:"requested"`
	Remaining int    `json:"remaining"`
	Reason    string `json:"reason"`
}

// ValidationDetails поле, не прошедшее валидацию
type ValidationDetails struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// RespondJSON пишет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondErrorWithDetails пишет ошибку с кодом и подробностями
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message, Details: details})
}

// RespondError пишет ошибку, код выводится из HTTP статуса
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithDetails(w, status, codeForStatus(status), message, nil)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError переводит ошибки движка в ответ.
// Возвращает false, если ошибка не относится к таксономии движка
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var vErr *domain.ValidationError
	var capErr *domain.CapacityError

	switch {
	case errors.As(err, &vErr):
		RespondErrorWithDetails(w, http.StatusBadRequest, CodeInvalidInput, msgValidation,
			ValidationDetails{Field: vErr.Field, Reason: vErr.Reason})
	case errors.Is(err, domain.ErrValidation):
		RespondErrorWithDetails(w, http.StatusBadRequest, CodeInvalidInput, msgValidation, nil)
	case errors.As(err, &capErr):
		code, message := CodeInsufficientCapacity, msgNoCapacity
		if errors.Is(err, domain.ErrSessionClosed) {
			code, message = CodeSessionClosed, msgSessionClosed
		}
		RespondErrorWithDetails(w, http.StatusConflict, code, message, NewCapacityDetails(capErr))
	case errors.Is(err, domain.ErrInsufficientCapacity):
		RespondErrorWithDetails(w, http.StatusConflict, CodeInsufficientCapacity, msgNoCapacity, nil)
	case errors.Is(err, domain.ErrSessionClosed):
		RespondErrorWithDetails(w, http.StatusConflict, CodeSessionClosed, msgSessionClosed, nil)
	case errors.Is(err, domain.ErrVoucherExhausted):
		RespondErrorWithDetails(w, http.StatusConflict, CodeVoucherExhausted, msgVoucherUsedUp, nil)
	case errors.Is(err, domain.ErrVoucherExpired):
		RespondErrorWithDetails(w, http.StatusConflict, CodeVoucherExpired, msgVoucherExpired, nil)
	case errors.Is(err, domain.ErrEmptyDateSet):
		RespondErrorWithDetails(w, http.StatusUnprocessableEntity, CodeEmptyDateSet, msgEmptyDateSet, nil)
	default:
		return false
	}
	return true
}

// NewCapacityDetails подробности конфликта для тела ответа
func NewCapacityDetails(e *domain.CapacityError) CapacityDetails {
	return CapacityDetails{
		SessionID: e.SessionID,
		ProductID: e.ProductID,
		Date:      e.Date.Format(domain.DateFormat),
		Requested: e.Requested,
		Remaining: e.Remaining,
		Reason:    string(e.Reason),
	}
}

// DecodeJSON читает тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// PathID читает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(msgInvalidIDFormat)
	}
	return id, nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidInput
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusPaymentRequired:
		return CodePaymentNotVerified
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return CodeUnavailable
	}
	return CodeInternal
}
