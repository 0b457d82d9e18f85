package create_booking

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("create_booking: session not found")

	// ErrProductNotFound возвращается, когда продукт не найден или принадлежит другому гиду
	ErrProductNotFound = errors.New("create_booking: product not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrPaymentUnavailable возвращается, когда платёжный сервис не создал намерение оплаты
	ErrPaymentUnavailable = errors.New("create_booking: payment service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
