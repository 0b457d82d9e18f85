package confirm_payment

import "errors"

var (
	// ErrIntentNotFound возвращается, когда черновик по handle не найден или истёк
	ErrIntentNotFound = errors.New("confirm_payment: payment intent not found")

	// ErrAlreadyProcessing возвращается, когда тот же callback уже обрабатывается
	ErrAlreadyProcessing = errors.New("confirm_payment: payment intent is already being processed")

	// ErrPaymentNotVerified возвращается, когда платёжный сервис не подтверждает оплату из callback
	// (намерение не оплачено, сумма или валюта не совпадают). Черновик сохраняется
	ErrPaymentNotVerified = errors.New("confirm_payment: payment is not confirmed by the payment service")

	// ErrPaymentUnavailable возвращается, когда платёжный сервис недоступен для проверки
	ErrPaymentUnavailable = errors.New("confirm_payment: payment service unavailable")

	// ErrNotFulfillable возвращается, когда оплата прошла, но места уже заняты.
	// Бронирование не создаётся, возврат средств на стороне платёжного сервиса
	ErrNotFulfillable = errors.New("confirm_payment: booking cannot be fulfilled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
