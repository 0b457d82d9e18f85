package domain

import (
	"errors"
	"fmt"
	"time"
)

// Таксономия ошибок движка. Пакеты usecase оборачивают их через %w,
// handlers распознают через errors.Is
var (
	// ErrValidation некорректные входные данные, отклоняются до любых изменений
	ErrValidation = errors.New("validation error")

	// ErrInsufficientCapacity не хватает мест или продукт заблокирован другим продуктом сессии
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrSessionClosed сессия (или продукт в ней) закрыта для бронирования
	ErrSessionClosed = errors.New("session closed")

	// ErrVoucherExhausted промокод исчерпал лимит использований
	ErrVoucherExhausted = errors.New("voucher exhausted")

	// ErrVoucherExpired срок действия промокода истёк
	ErrVoucherExpired = errors.New("voucher expired")

	// ErrEmptyDateSet дублирование не дало ни одной даты
	ErrEmptyDateSet = errors.New("empty date set")

	// ErrPartialMoveFailure внутренний сигнал: одно из бронирований не удалось перенести.
	// Наружу не отдаётся - удаление откатывается целиком
	ErrPartialMoveFailure = errors.New("partial move failure")
)

// ValidationError ошибка валидации конкретного поля
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError создает ошибку валидации поля
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Unwrap позволяет errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// CapacityError конфликт вместимости с указанием ресурса
type CapacityError struct {
	SessionID int64
	ProductID int64
	Date      time.Time
	Requested int
	Remaining int
	Reason    AvailabilityReason
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: session=%d date=%s product=%d requested=%d remaining=%d reason=%s",
		e.sentinel(), e.SessionID, e.Date.Format(DateFormat), e.ProductID, e.Requested, e.Remaining, e.Reason)
}

// Unwrap возвращает ErrSessionClosed для закрытых сессий, иначе ErrInsufficientCapacity
func (e *CapacityError) Unwrap() error {
	return e.sentinel()
}

func (e *CapacityError) sentinel() error {
	if e.Reason == ReasonClosed {
		return ErrSessionClosed
	}
	return ErrInsufficientCapacity
}

// IsBusinessError возвращает true для ошибок таксономии движка, которые отдаются клиенту как есть
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientCapacity) ||
		errors.Is(err, ErrSessionClosed) ||
		errors.Is(err, ErrVoucherExhausted) ||
		errors.Is(err, ErrVoucherExpired) ||
		errors.Is(err, ErrEmptyDateSet)
}

// ConflictReason возвращает причину конфликта вместимости для метрик и логов
func ConflictReason(err error) string {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return string(capErr.Reason)
	}
	switch {
	case errors.Is(err, ErrVoucherExhausted):
		return "voucher_exhausted"
	case errors.Is(err, ErrVoucherExpired):
		return "voucher_expired"
	}
	return "other"
}
