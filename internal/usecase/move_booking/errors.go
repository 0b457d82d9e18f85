package move_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("move_booking: booking not found")

	// ErrTargetNotFound возвращается, когда целевая сессия не найдена
	ErrTargetNotFound = errors.New("move_booking: target session not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит сессии другого гида
	ErrAccessDenied = errors.New("move_booking: access denied")

	// ErrDifferentGuide возвращается, когда целевая сессия принадлежит другому гиду
	ErrDifferentGuide = errors.New("move_booking: target session belongs to another guide")

	// ErrBookingCancelled возвращается при попытке перенести отменённое бронирование
	ErrBookingCancelled = errors.New("move_booking: booking is cancelled")

	// ErrSameSession возвращается, когда бронирование уже в целевой сессии
	ErrSameSession = errors.New("move_booking: booking is already in the target session")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("move_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("move_booking: internal error")
)
